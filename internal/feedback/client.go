// Package feedback is the boundary to the external collaborator that turns a
// diff into review feedback. This engine never generates review content
// itself.
package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/avolkov/review-courier/internal/core"
)

const maxRetries = 2

// Client calls the configured feedback generator over HTTP.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient returns a feedback client for the given generator endpoint.
func NewClient(endpoint, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		logger:     logger,
	}
}

// generateRequest is the wire form sent to the generator.
type generateRequest struct {
	RepoFullName string            `json:"repo_full_name"`
	PRNumber     int               `json:"pr_number"`
	PRTitle      string            `json:"pr_title"`
	PRBody       string            `json:"pr_body"`
	BaseRef      string            `json:"base_ref"`
	HeadRef      string            `json:"head_ref"`
	ReReview     bool              `json:"re_review"`
	Files        []core.FileChange `json:"files"`
}

// GenerateFeedback submits the diff to the generator and decodes its answer.
// 5xx responses are retried with backoff; anything else fails immediately.
func (c *Client) GenerateFeedback(ctx context.Context, req *core.ReviewRequest, diff *core.DiffResult) (*core.ReviewFeedback, error) {
	payload := generateRequest{
		RepoFullName: req.RepoFullName,
		PRNumber:     req.PRNumber,
		PRTitle:      req.PRTitle,
		PRBody:       req.PRBody,
		ReReview:     req.ReReview,
	}
	if diff != nil {
		payload.BaseRef = diff.BaseRef
		payload.HeadRef = diff.HeadRef
		payload.Files = diff.Files
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode feedback request: %w", err)
	}

	var feedback *core.ReviewFeedback
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			c.logger.WarnContext(ctx, "feedback generator call failed, retrying",
				"attempt", attempt, "delay", backoff, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		feedback, lastErr = c.call(ctx, raw)
		if lastErr == nil {
			return feedback, nil
		}
		if !isRetryable(lastErr) {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

type serverError struct {
	status int
	body   string
}

func (e *serverError) Error() string {
	return fmt.Sprintf("feedback generator returned status %d: %s", e.status, e.body)
}

func isRetryable(err error) bool {
	se, ok := err.(*serverError)
	return ok && se.status >= 500
}

func (c *Client) call(ctx context.Context, body []byte) (*core.ReviewFeedback, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build feedback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feedback generator request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read feedback response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &serverError{status: resp.StatusCode, body: string(data)}
	}

	var feedback core.ReviewFeedback
	if err := json.Unmarshal(data, &feedback); err != nil {
		return nil, fmt.Errorf("failed to decode feedback response: %w", err)
	}
	if feedback.Summary == "" && len(feedback.Items) == 0 {
		return nil, fmt.Errorf("feedback generator returned an empty review")
	}
	return &feedback, nil
}
