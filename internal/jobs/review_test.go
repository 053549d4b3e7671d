package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/avolkov/review-courier/internal/config"
	"github.com/avolkov/review-courier/internal/core"
	"github.com/avolkov/review-courier/internal/delivery"
	"github.com/avolkov/review-courier/internal/diffext"
	"github.com/avolkov/review-courier/internal/gitcli"
	"github.com/avolkov/review-courier/internal/mocks"
	"github.com/avolkov/review-courier/internal/platform"
	"github.com/avolkov/review-courier/internal/workspace"
)

// stubProvider returns canned feedback and records the diff it was handed.
type stubProvider struct {
	feedback *core.ReviewFeedback
	err      error

	gotRequest *core.ReviewRequest
	gotDiff    *core.DiffResult
	calls      int
}

func (s *stubProvider) GenerateFeedback(_ context.Context, req *core.ReviewRequest, diff *core.DiffResult) (*core.ReviewFeedback, error) {
	s.calls++
	s.gotRequest = req
	s.gotDiff = diff
	if s.err != nil {
		return nil, s.err
	}
	return s.feedback, nil
}

type jobFixture struct {
	job      *ReviewJob
	git      *mocks.MockRunner
	client   *mocks.MockClient
	store    *mocks.MockStore
	provider *stubProvider
}

func newJobFixture(t *testing.T) *jobFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	git := mocks.NewMockRunner(ctrl)
	client := mocks.NewMockClient(ctrl)
	store := mocks.NewMockStore(ctrl)
	provider := &stubProvider{
		feedback: &core.ReviewFeedback{
			ReviewToken: "tok-1",
			Summary:     "Solid change.",
			Items: []core.FeedbackItem{
				{Kind: core.KindStrength, Text: "clear naming"},
				{Kind: core.KindImprovement, Severity: "medium", Text: "missing error wrap"},
				{Kind: core.KindImprovement, Severity: "low", Text: "typo in comment"},
			},
		},
	}

	cfg := &config.Config{
		Platform:     "gitee",
		Host:         "gitee.com",
		GiteeToken:   "token",
		ShallowClone: true,
		Delivery: config.DeliveryConfig{
			MaxCommentLen: 8000,
			SplitLimit:    7500,
		},
	}

	workspaces := workspace.NewManager(git, t.TempDir(), logger)
	extractor := diffext.NewExtractor(git, logger)
	deliverer := delivery.NewDeliverer(client, cfg.Delivery, logger)

	job := NewReviewJob(cfg, workspaces, extractor, provider, client, deliverer, store, logger).(*ReviewJob)
	job.now = func() time.Time {
		return time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC)
	}

	return &jobFixture{job: job, git: git, client: client, store: store, provider: provider}
}

func newJobRequest() *core.ReviewRequest {
	return &core.ReviewRequest{
		Platform:         "gitee",
		Host:             "gitee.com",
		RepoOwner:        "acme",
		RepoName:         "widgets",
		RepoFullName:     "acme/widgets",
		CloneURL:         "https://gitee.com/acme/widgets.git",
		PRNumber:         42,
		PRTitle:          "Add cache",
		BaseBranch:       "main",
		HeadBranch:       "feature/cache",
		TriggerCommentID: "c-7",
	}
}

// expectHappyGit wires the git mock for one successful extraction of a
// single modified file.
func (f *jobFixture) expectHappyGit() {
	f.git.EXPECT().Clone(gomock.Any(), gomock.Any(), gomock.Any(), "feature/cache", true).Return(nil)
	f.git.EXPECT().FetchAll(gomock.Any(), gomock.Any()).Return(nil)
	f.git.EXPECT().ListRemoteBranches(gomock.Any(), gomock.Any()).Return([]string{"main", "feature/cache"}, nil)
	f.git.EXPECT().DiffNameStatus(gomock.Any(), gomock.Any(), "origin/main", "origin/feature/cache").
		Return([]gitcli.NameStatusEntry{{Code: "M", Path: "cache.go"}}, nil)
	f.git.EXPECT().Checkout(gomock.Any(), gomock.Any(), "origin/feature/cache").Return(nil)
	f.git.EXPECT().DiffFile(gomock.Any(), gomock.Any(), "origin/main", "origin/feature/cache", "cache.go").Return("@@ diff @@", nil)
	f.git.EXPECT().ShowFile(gomock.Any(), gomock.Any(), "origin/feature/cache", "cache.go").Return("package cache", nil)
}

func TestReviewJobRun(t *testing.T) {
	f := newJobFixture(t)
	req := newJobRequest()

	f.store.EXPECT().Get(gomock.Any(), "gitee.com", "acme/widgets", 42).Return(nil, nil)
	f.expectHappyGit()

	f.client.EXPECT().
		CreateComment(gomock.Any(), "acme", "widgets", 42, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, _ int, body string) (string, error) {
			assert.Contains(t, body, "## ")
			assert.Contains(t, body, "tok-1")
			return "comment-99", nil
		})

	f.store.EXPECT().
		RecordReview(gomock.Any(), "gitee.com", "acme/widgets", 42, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, _ int, event core.ReviewEvent) (*core.PRTracker, error) {
			assert.Equal(t, "tok-1", event.ReviewToken)
			assert.Equal(t, 1, event.StrengthCount)
			assert.Equal(t, 2, event.ImprovementCount)
			assert.Equal(t, "c-7", event.SourceCommentID)
			assert.Equal(t, "comment-99", event.PostedCommentID)
			assert.Equal(t, time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC), event.Timestamp)
			return &core.PRTracker{ReviewCount: 1}, nil
		})
	f.store.EXPECT().MarkCommentProcessed(gomock.Any(), "gitee.com", "acme/widgets", 42, "c-7").Return(nil)

	err := f.job.Run(context.Background(), req)

	require.NoError(t, err)
	require.NotNil(t, f.provider.gotDiff)
	require.Len(t, f.provider.gotDiff.Files, 1)
	assert.Equal(t, "cache.go", f.provider.gotDiff.Files[0].Path)
}

func TestReviewJobSkipsProcessedTriggerComment(t *testing.T) {
	f := newJobFixture(t)
	req := newJobRequest()

	f.store.EXPECT().Get(gomock.Any(), "gitee.com", "acme/widgets", 42).
		Return(&core.PRTracker{ProcessedCommentIDs: []string{"c-7"}}, nil)

	err := f.job.Run(context.Background(), req)

	require.NoError(t, err)
	assert.Zero(t, f.provider.calls, "a consumed trigger must not start another review")
}

func TestReviewJobSkipsProcessedDescription(t *testing.T) {
	f := newJobFixture(t)
	req := newJobRequest()
	req.TriggerCommentID = ""
	req.FromDescription = true

	f.store.EXPECT().Get(gomock.Any(), "gitee.com", "acme/widgets", 42).
		Return(&core.PRTracker{DescriptionProcessed: true}, nil)

	err := f.job.Run(context.Background(), req)

	require.NoError(t, err)
	assert.Zero(t, f.provider.calls)
}

func TestReviewJobCompletesBranchesFromPlatform(t *testing.T) {
	f := newJobFixture(t)
	req := newJobRequest()
	req.BaseBranch = ""
	req.HeadBranch = ""
	req.PRTitle = ""

	f.store.EXPECT().Get(gomock.Any(), "gitee.com", "acme/widgets", 42).Return(nil, nil)
	f.client.EXPECT().GetPullRequest(gomock.Any(), "acme", "widgets", 42).
		Return(&platform.PullRequest{
			Number:     42,
			Title:      "Add cache",
			Body:       "Adds an LRU cache.",
			BaseBranch: "main",
			HeadBranch: "feature/cache",
		}, nil)
	f.expectHappyGit()
	f.client.EXPECT().CreateComment(gomock.Any(), "acme", "widgets", 42, gomock.Any()).Return("comment-1", nil)
	f.store.EXPECT().RecordReview(gomock.Any(), "gitee.com", "acme/widgets", 42, gomock.Any()).Return(&core.PRTracker{}, nil)
	f.store.EXPECT().MarkCommentProcessed(gomock.Any(), "gitee.com", "acme/widgets", 42, "c-7").Return(nil)

	err := f.job.Run(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "main", req.BaseBranch)
	assert.Equal(t, "feature/cache", req.HeadBranch)
	assert.Equal(t, "Add cache", req.PRTitle)
}

func TestReviewJobDegradesToMetadataOnlyOnCloneFailure(t *testing.T) {
	f := newJobFixture(t)
	req := newJobRequest()

	f.store.EXPECT().Get(gomock.Any(), "gitee.com", "acme/widgets", 42).Return(nil, nil)
	f.git.EXPECT().Clone(gomock.Any(), gomock.Any(), gomock.Any(), "feature/cache", true).
		Return(errors.New("remote hung up"))
	f.client.EXPECT().CreateComment(gomock.Any(), "acme", "widgets", 42, gomock.Any()).Return("comment-1", nil)
	f.store.EXPECT().RecordReview(gomock.Any(), "gitee.com", "acme/widgets", 42, gomock.Any()).Return(&core.PRTracker{}, nil)
	f.store.EXPECT().MarkCommentProcessed(gomock.Any(), "gitee.com", "acme/widgets", 42, "c-7").Return(nil)

	err := f.job.Run(context.Background(), req)

	require.NoError(t, err, "extraction failure must degrade, not fail the job")
	assert.Equal(t, 1, f.provider.calls)
	assert.Nil(t, f.provider.gotDiff, "provider works from metadata alone")
}

func TestReviewJobFeedbackFailureFailsJob(t *testing.T) {
	f := newJobFixture(t)
	req := newJobRequest()
	f.provider.err = errors.New("feedback service unavailable")

	f.store.EXPECT().Get(gomock.Any(), "gitee.com", "acme/widgets", 42).Return(nil, nil)
	f.expectHappyGit()

	err := f.job.Run(context.Background(), req)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to generate review feedback")
}

func TestReviewJobInvalidRequest(t *testing.T) {
	f := newJobFixture(t)

	err := f.job.Run(context.Background(), &core.ReviewRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input validation failed")

	err = f.job.Run(context.Background(), nil)
	require.Error(t, err)
}
