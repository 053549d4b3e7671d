// Package handler provides the HTTP handlers of the review-courier API.
package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/avolkov/review-courier/internal/core"
)

// ReviewHandler accepts review orders from the surrounding application and
// queues them for asynchronous processing.
type ReviewHandler struct {
	dispatcher core.JobDispatcher
	logger     *slog.Logger
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(dispatcher core.JobDispatcher, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{dispatcher: dispatcher, logger: logger}
}

// Create handles POST /api/v1/reviews.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := core.RequestFromJSON(r.Body)
	if err != nil {
		h.logger.Warn("rejecting invalid review request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.dispatcher.Dispatch(r.Context(), req); err != nil {
		h.logger.Error("failed to dispatch review job", "error", err, "repo", req.RepoFullName)
		http.Error(w, "Failed to queue review job", http.StatusServiceUnavailable)
		return
	}

	h.logger.Info("review job dispatched", "repo", req.RepoFullName, "pr", req.PRNumber)
	w.WriteHeader(http.StatusAccepted)
	_, _ = fmt.Fprint(w, "Review job accepted")
}
