package core

import "time"

// ReviewEvent is one append-only entry in a pull request's review history.
// Events are never mutated after creation.
type ReviewEvent struct {
	Timestamp        time.Time `json:"timestamp"`
	ReviewToken      string    `json:"review_token"`
	StrengthCount    int       `json:"strength_count"`
	ImprovementCount int       `json:"improvement_count"`
	ReReview         bool      `json:"re_review"`
	// SourceCommentID is the platform comment that triggered this review,
	// empty for description-triggered reviews.
	SourceCommentID string `json:"source_comment_id,omitempty"`
	// Growth is the percentage reduction in improvement items versus the
	// immediately preceding event. Only set on re-reviews that have a
	// predecessor; clamped to [0, 100].
	Growth *float64 `json:"growth,omitempty"`
	// PostedCommentID is the canonical comment this engine posted for the event.
	PostedCommentID string `json:"posted_comment_id,omitempty"`
}

// PRTracker is the durable per-(host, repository, PR) review record. It is
// created lazily on the first delivery for a PR and removed only by cascading
// deletion of its parent repository row.
type PRTracker struct {
	ID           int64
	RepositoryID int64
	Host         string
	RepoFullName string
	PRNumber     int

	ReviewCount    int
	LastReviewedAt *time.Time
	// History is append-only and stored as a single serialized blob.
	History []ReviewEvent

	// ProcessedCommentIDs holds trigger comments already consumed, so the
	// same request comment never starts a second review.
	ProcessedCommentIDs []string
	// DescriptionProcessed is set once the PR description's own review
	// trigger has been honored.
	DescriptionProcessed bool
	// AIReviewCommentIDs lists comments this engine itself posted, in order.
	AIReviewCommentIDs []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasProcessedComment reports whether the given trigger comment was already
// consumed for this PR.
func (t *PRTracker) HasProcessedComment(commentID string) bool {
	for _, id := range t.ProcessedCommentIDs {
		if id == commentID {
			return true
		}
	}
	return false
}

// LastEvent returns the most recent history entry, or nil for an empty history.
func (t *PRTracker) LastEvent() *ReviewEvent {
	if len(t.History) == 0 {
		return nil
	}
	return &t.History[len(t.History)-1]
}
