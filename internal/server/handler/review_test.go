package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/review-courier/internal/core"
)

type stubDispatcher struct {
	dispatched []*core.ReviewRequest
	err        error
}

func (s *stubDispatcher) Dispatch(_ context.Context, req *core.ReviewRequest) error {
	if s.err != nil {
		return s.err
	}
	s.dispatched = append(s.dispatched, req)
	return nil
}

func (s *stubDispatcher) Stop() {}

const validPayload = `{
	"platform": "gitee",
	"host": "gitee.com",
	"repo_owner": "acme",
	"repo_name": "widgets",
	"clone_url": "https://gitee.com/acme/widgets.git",
	"pr_number": 42
}`

func TestCreateReview(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		dispatchErr    error
		expectedStatus int
		expectedQueued int
	}{
		{
			name:           "valid request is accepted",
			body:           validPayload,
			expectedStatus: http.StatusAccepted,
			expectedQueued: 1,
		},
		{
			name:           "malformed json is rejected",
			body:           "{broken",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "incomplete request is rejected",
			body:           `{"host": "gitee.com"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "full queue yields service unavailable",
			body:           validPayload,
			dispatchErr:    errors.New("job queue is full"),
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dispatcher := &stubDispatcher{err: tt.dispatchErr}
			h := NewReviewHandler(dispatcher, slog.New(slog.NewTextHandler(io.Discard, nil)))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.Create(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Len(t, dispatcher.dispatched, tt.expectedQueued)
		})
	}
}

func TestCreateReviewDerivesFullName(t *testing.T) {
	dispatcher := &stubDispatcher{}
	h := NewReviewHandler(dispatcher, slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews", strings.NewReader(validPayload))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	require.Len(t, dispatcher.dispatched, 1)
	assert.Equal(t, "acme/widgets", dispatcher.dispatched[0].RepoFullName)
}
