package jobs

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/review-courier/internal/core"
)

// countingJob records every request it ran.
type countingJob struct {
	mu   sync.Mutex
	runs []*core.ReviewRequest
}

func (j *countingJob) Run(_ context.Context, req *core.ReviewRequest) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.runs = append(j.runs, req)
	return nil
}

func (j *countingJob) count() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.runs)
}

func TestDispatcherProcessesQueuedJobs(t *testing.T) {
	job := &countingJob{}
	d := NewDispatcher(job, 3, slog.New(slog.NewTextHandler(io.Discard, nil)))

	for i := 1; i <= 10; i++ {
		req := &core.ReviewRequest{RepoFullName: "acme/widgets", PRNumber: i}
		require.NoError(t, d.Dispatch(context.Background(), req))
	}

	// Stop drains the queue before returning.
	d.Stop()

	assert.Equal(t, 10, job.count())
}

func TestDispatcherDefaultsToOneWorker(t *testing.T) {
	job := &countingJob{}
	d := NewDispatcher(job, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, d.Dispatch(context.Background(), &core.ReviewRequest{PRNumber: 1}))
	d.Stop()

	assert.Equal(t, 1, job.count())
}
