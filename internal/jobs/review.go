package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avolkov/review-courier/internal/config"
	"github.com/avolkov/review-courier/internal/core"
	"github.com/avolkov/review-courier/internal/delivery"
	"github.com/avolkov/review-courier/internal/diffext"
	"github.com/avolkov/review-courier/internal/format"
	"github.com/avolkov/review-courier/internal/gitcli"
	"github.com/avolkov/review-courier/internal/platform"
	"github.com/avolkov/review-courier/internal/tracker"
	"github.com/avolkov/review-courier/internal/workspace"
)

// ReviewJob runs one review delivery end to end: workspace, diff extraction,
// external feedback, comment delivery and tracker update.
type ReviewJob struct {
	cfg        *config.Config
	workspaces *workspace.Manager
	extractor  *diffext.Extractor
	provider   core.FeedbackProvider
	client     platform.Client
	deliverer  *delivery.Deliverer
	store      tracker.Store
	logger     *slog.Logger

	now func() time.Time
}

// NewReviewJob wires a review job from its collaborators.
func NewReviewJob(
	cfg *config.Config,
	workspaces *workspace.Manager,
	extractor *diffext.Extractor,
	provider core.FeedbackProvider,
	client platform.Client,
	deliverer *delivery.Deliverer,
	store tracker.Store,
	logger *slog.Logger,
) core.Job {
	if cfg == nil {
		panic("config cannot be nil")
	}
	if provider == nil {
		panic("feedback provider cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewJob{
		cfg:        cfg,
		workspaces: workspaces,
		extractor:  extractor,
		provider:   provider,
		client:     client,
		deliverer:  deliverer,
		store:      store,
		logger:     logger,
		now:        time.Now,
	}
}

// Run executes the review job for a single request.
func (j *ReviewJob) Run(ctx context.Context, req *core.ReviewRequest) error {
	if req == nil {
		return fmt.Errorf("request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("input validation failed: %w", err)
	}

	j.logger.InfoContext(ctx, "starting review job",
		"repo", req.RepoFullName, "pr", req.PRNumber, "re_review", req.ReReview)

	done, err := j.alreadyHandled(ctx, req)
	if err != nil {
		return err
	}
	if done {
		return nil
	}

	if err := j.completeMetadata(ctx, req); err != nil {
		return err
	}

	diff := j.extractDiff(ctx, req)

	feedback, err := j.provider.GenerateFeedback(ctx, req, diff)
	if err != nil {
		return fmt.Errorf("failed to generate review feedback: %w", err)
	}

	body := format.Sanitize(format.BuildComment(feedback, req.ReReview))

	target := delivery.Target{Owner: req.RepoOwner, Repo: req.RepoName, PRNumber: req.PRNumber}
	result, err := j.deliverer.Deliver(ctx, target, body)
	if err != nil {
		return fmt.Errorf("failed to deliver review comment: %w", err)
	}

	if err := j.recordDelivery(ctx, req, feedback, result); err != nil {
		return err
	}

	j.logger.InfoContext(ctx, "review job completed",
		"repo", req.RepoFullName, "pr", req.PRNumber, "comment_id", result.CommentID)
	return nil
}

// alreadyHandled consults the tracker so the same trigger never starts a
// second review.
func (j *ReviewJob) alreadyHandled(ctx context.Context, req *core.ReviewRequest) (bool, error) {
	t, err := j.store.Get(ctx, req.Host, req.RepoFullName, req.PRNumber)
	if err != nil {
		return false, fmt.Errorf("failed to read review tracker: %w", err)
	}
	if t == nil {
		return false, nil
	}

	if req.TriggerCommentID != "" && t.HasProcessedComment(req.TriggerCommentID) {
		j.logger.InfoContext(ctx, "trigger comment already processed, skipping",
			"repo", req.RepoFullName, "pr", req.PRNumber, "comment_id", req.TriggerCommentID)
		return true, nil
	}
	if req.FromDescription && t.DescriptionProcessed {
		j.logger.InfoContext(ctx, "description trigger already processed, skipping",
			"repo", req.RepoFullName, "pr", req.PRNumber)
		return true, nil
	}
	return false, nil
}

// completeMetadata fills branch names from the platform when the request
// does not carry them.
func (j *ReviewJob) completeMetadata(ctx context.Context, req *core.ReviewRequest) error {
	if req.HasBranches() {
		return nil
	}

	pr, err := j.client.GetPullRequest(ctx, req.RepoOwner, req.RepoName, req.PRNumber)
	if err != nil {
		return fmt.Errorf("failed to get PR details: %w", err)
	}
	req.BaseBranch = pr.BaseBranch
	req.HeadBranch = pr.HeadBranch
	if req.PRTitle == "" {
		req.PRTitle = pr.Title
	}
	if req.PRBody == "" {
		req.PRBody = pr.Body
	}
	if !req.HasBranches() {
		return fmt.Errorf("PR %d exposes no base/head branch", req.PRNumber)
	}
	return nil
}

// extractDiff materializes the changed files. Workspace or extraction
// failures degrade to a metadata-only review instead of failing the job; the
// generator then works from PR title and body alone.
func (j *ReviewJob) extractDiff(ctx context.Context, req *core.ReviewRequest) *core.DiffResult {
	cloneURL, err := gitcli.AuthURL(req.CloneURL, j.cloneToken())
	if err != nil {
		j.logger.WarnContext(ctx, "invalid clone URL, falling back to metadata-only review",
			"repo", req.RepoFullName, "pr", req.PRNumber, "error", err)
		return nil
	}

	ws, err := j.workspaces.Acquire(ctx, cloneURL, req.HeadBranch, j.cfg.ShallowClone)
	if err != nil {
		j.logger.WarnContext(ctx, "workspace acquisition failed, falling back to metadata-only review",
			"repo", req.RepoFullName, "pr", req.PRNumber, "error", err)
		return nil
	}
	defer j.workspaces.Release(ws)

	diff, err := j.extractor.Extract(ctx, ws, req.BaseBranch, req.HeadBranch)
	if err != nil {
		j.logger.WarnContext(ctx, "diff extraction failed, falling back to metadata-only review",
			"repo", req.RepoFullName, "pr", req.PRNumber, "error", err)
		return nil
	}
	return diff
}

// recordDelivery appends the review event and marks the inbound trigger
// consumed.
func (j *ReviewJob) recordDelivery(ctx context.Context, req *core.ReviewRequest, feedback *core.ReviewFeedback, result *delivery.Result) error {
	event := core.ReviewEvent{
		Timestamp:        j.now().UTC(),
		ReviewToken:      feedback.ReviewToken,
		StrengthCount:    feedback.StrengthCount(),
		ImprovementCount: feedback.ImprovementCount(),
		ReReview:         req.ReReview,
		SourceCommentID:  req.TriggerCommentID,
		PostedCommentID:  result.CommentID,
	}

	if _, err := j.store.RecordReview(ctx, req.Host, req.RepoFullName, req.PRNumber, event); err != nil {
		return fmt.Errorf("failed to record review in tracker: %w", err)
	}

	if req.TriggerCommentID != "" {
		if err := j.store.MarkCommentProcessed(ctx, req.Host, req.RepoFullName, req.PRNumber, req.TriggerCommentID); err != nil {
			return fmt.Errorf("failed to mark trigger comment processed: %w", err)
		}
	}
	if req.FromDescription {
		if err := j.store.MarkDescriptionProcessed(ctx, req.Host, req.RepoFullName, req.PRNumber); err != nil {
			return fmt.Errorf("failed to mark description processed: %w", err)
		}
	}
	return nil
}

// cloneToken picks the credential matching the configured platform.
func (j *ReviewJob) cloneToken() string {
	if j.cfg.Platform == "github" {
		return j.cfg.GitHubToken
	}
	return j.cfg.GiteeToken
}
