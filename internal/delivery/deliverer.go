package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avolkov/review-courier/internal/config"
	"github.com/avolkov/review-courier/internal/platform"
)

// fallbackBody is the ASCII-only notice posted when the platform rejects the
// detailed comment over its character encoding.
const fallbackBody = "The detailed review comment could not be delivered because it " +
	"contained characters this platform rejects. The full review is available " +
	"in the review system."

// Target names the pull request a delivery goes to.
type Target struct {
	Owner    string
	Repo     string
	PRNumber int
}

// Result reports what a delivery produced. CommentID is the canonical
// identifier: the first part that was posted.
type Result struct {
	CommentID    string
	PartIDs      []string
	Parts        int
	FallbackUsed bool
}

// Deliverer posts sanitized review comments, splitting oversized content and
// pacing sequential part sends to respect the platform's rate limit. Parts
// are never sent in parallel; ordering matters to a human reader.
type Deliverer struct {
	client platform.Client
	cfg    config.DeliveryConfig
	logger *slog.Logger

	// sleep is a seam for tests; production uses a context-aware wait.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewDeliverer returns a Deliverer bound to one platform client.
func NewDeliverer(client platform.Client, cfg config.DeliveryConfig, logger *slog.Logger) *Deliverer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Deliverer{
		client: client,
		cfg:    cfg,
		logger: logger,
		sleep:  contextSleep,
	}
}

// Deliver sends the sanitized comment to the target PR. Content within the
// hard limit goes out as a single comment. An encoding rejection from the
// platform is retried exactly once with a minimal ASCII fallback; any other
// send failure propagates.
func (d *Deliverer) Deliver(ctx context.Context, target Target, body string) (*Result, error) {
	parts := Split(body, d.cfg.MaxCommentLen, d.cfg.SplitLimit)
	result := &Result{Parts: len(parts)}

	if len(parts) > 1 {
		d.logger.InfoContext(ctx, "splitting oversized comment",
			"repo", target.Owner+"/"+target.Repo,
			"pr", target.PRNumber,
			"length", len(body),
			"parts", len(parts),
		)
	}

	for i, part := range parts {
		if i > 0 {
			if err := d.sleep(ctx, d.cfg.PartDelay); err != nil {
				return nil, err
			}
		}

		id, err := d.client.CreateComment(ctx, target.Owner, target.Repo, target.PRNumber, part.Render())
		if err != nil {
			if !platform.IsEncodingRejection(err) {
				return nil, fmt.Errorf("failed to deliver comment part %d/%d: %w", i+1, len(parts), err)
			}

			d.logger.WarnContext(ctx, "platform rejected comment encoding, sending fallback",
				"repo", target.Owner+"/"+target.Repo,
				"pr", target.PRNumber,
				"part", i+1,
				"error", err,
			)
			id, err = d.client.CreateComment(ctx, target.Owner, target.Repo, target.PRNumber, fallbackBody)
			if err != nil {
				return nil, fmt.Errorf("fallback comment delivery failed: %w", err)
			}
			result.FallbackUsed = true
			result.PartIDs = append(result.PartIDs, id)
			if result.CommentID == "" {
				result.CommentID = id
			}
			// Remaining parts would hit the same rejection.
			break
		}

		result.PartIDs = append(result.PartIDs, id)
		if result.CommentID == "" {
			result.CommentID = id
		}
	}

	d.logger.InfoContext(ctx, "review comment delivered",
		"repo", target.Owner+"/"+target.Repo,
		"pr", target.PRNumber,
		"comment_id", result.CommentID,
		"parts", len(result.PartIDs),
		"fallback", result.FallbackUsed,
	)
	return result, nil
}

// contextSleep waits for d or until the context is done.
func contextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
