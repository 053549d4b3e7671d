// Package gitee implements the platform client against the Gitee v5 REST API.
package gitee

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avolkov/review-courier/internal/platform"
)

// DefaultBaseURL is the public Gitee API endpoint.
const DefaultBaseURL = "https://gitee.com/api/v5"

// Client talks to the Gitee v5 REST API. Authentication uses the
// access_token query parameter Gitee expects.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient returns a Gitee platform client. An empty baseURL selects the
// public endpoint.
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// APIError is a non-2xx answer from the Gitee API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gitee API error (status %d): %s", e.StatusCode, e.Message)
}

type prPayload struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	State   string `json:"state"`
	HTMLURL string `json:"html_url"`
	Base    struct {
		Ref  string `json:"ref"`
		Repo struct {
			HTMLURL string `json:"html_url"`
		} `json:"repo"`
	} `json:"base"`
	Head struct {
		Ref string `json:"ref"`
	} `json:"head"`
}

type repoPayload struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	HTMLURL       string `json:"html_url"`
	DefaultBranch string `json:"default_branch"`
}

type commentPayload struct {
	ID   int64  `json:"id"`
	Body string `json:"body"`
}

// GetPullRequest retrieves a single pull request's metadata.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (*platform.PullRequest, error) {
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d", owner, repo, number)

	var payload prPayload
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &payload); err != nil {
		return nil, fmt.Errorf("failed to get pull request %s/%s#%d: %w", owner, repo, number, err)
	}
	pr := toPullRequest(payload)
	return &pr, nil
}

// ListPullRequests lists pull requests filtered by state. Gitee understands
// open, closed and merged natively.
func (c *Client) ListPullRequests(ctx context.Context, owner, repo string, state platform.PRState) ([]platform.PullRequest, error) {
	path := fmt.Sprintf("/repos/%s/%s/pulls", owner, repo)
	query := url.Values{}
	if state != "" {
		query.Set("state", string(state))
	}
	query.Set("per_page", "100")

	var prs []platform.PullRequest
	for page := 1; ; page++ {
		query.Set("page", strconv.Itoa(page))

		var payload []prPayload
		if err := c.do(ctx, http.MethodGet, path, query, nil, &payload); err != nil {
			return nil, fmt.Errorf("failed to list pull requests for %s/%s: %w", owner, repo, err)
		}
		for _, p := range payload {
			prs = append(prs, toPullRequest(p))
		}
		if len(payload) < 100 {
			break
		}
	}
	return prs, nil
}

// CreateComment posts a comment on a pull request and returns its identifier.
func (c *Client) CreateComment(ctx context.Context, owner, repo string, number int, body string) (string, error) {
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d/comments", owner, repo, number)
	reqBody := map[string]string{"body": body}

	var payload commentPayload
	if err := c.do(ctx, http.MethodPost, path, nil, reqBody, &payload); err != nil {
		return "", fmt.Errorf("failed to create comment on %s/%s#%d: %w", owner, repo, number, err)
	}

	c.logger.InfoContext(ctx, "posted pull request comment",
		"repo", owner+"/"+repo, "pr", number, "comment_id", payload.ID)
	return strconv.FormatInt(payload.ID, 10), nil
}

// ListRepos returns the repositories of an organization.
func (c *Client) ListRepos(ctx context.Context, project string) ([]platform.Repo, error) {
	path := fmt.Sprintf("/orgs/%s/repos", project)
	query := url.Values{}
	query.Set("per_page", "100")

	var repos []platform.Repo
	for page := 1; ; page++ {
		query.Set("page", strconv.Itoa(page))

		var payload []repoPayload
		if err := c.do(ctx, http.MethodGet, path, query, nil, &payload); err != nil {
			return nil, fmt.Errorf("failed to list repos for %s: %w", project, err)
		}
		for _, r := range payload {
			repos = append(repos, platform.Repo{
				Name:          r.Name,
				FullName:      r.FullName,
				CloneURL:      r.HTMLURL + ".git",
				DefaultBranch: r.DefaultBranch,
			})
		}
		if len(payload) < 100 {
			break
		}
	}
	return repos, nil
}

// do executes one API call. Request bodies are JSON; the access token always
// travels as a query parameter.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("access_token", c.token)

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+query.Encode(), reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: apiMessage(data)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// apiMessage extracts the error message Gitee embeds in failure payloads.
func apiMessage(data []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(data))
}

func toPullRequest(p prPayload) platform.PullRequest {
	pr := platform.PullRequest{
		Number:     p.Number,
		Title:      p.Title,
		Body:       p.Body,
		State:      platform.PRState(p.State),
		BaseBranch: p.Base.Ref,
		HeadBranch: p.Head.Ref,
		HTMLURL:    p.HTMLURL,
	}
	if p.Base.Repo.HTMLURL != "" {
		pr.CloneURL = p.Base.Repo.HTMLURL + ".git"
	}
	return pr
}
