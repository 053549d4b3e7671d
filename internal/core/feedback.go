package core

import "context"

// FeedbackKind distinguishes the two classes of items a review can contain.
type FeedbackKind string

const (
	KindStrength    FeedbackKind = "strength"
	KindImprovement FeedbackKind = "improvement"
)

// FeedbackItem is a single finding produced by the external generator.
type FeedbackItem struct {
	Kind     FeedbackKind `json:"kind"`
	Severity string       `json:"severity,omitempty"`
	FilePath string       `json:"file_path,omitempty"`
	Text     string       `json:"text"`
}

// ReviewFeedback is the generator's answer for one review round. The engine
// never produces this itself; it only formats and delivers it.
type ReviewFeedback struct {
	// ReviewToken correlates delivered comments and tracker history entries
	// back to the originating feedback batch.
	ReviewToken string         `json:"review_token"`
	Summary     string         `json:"summary"`
	Items       []FeedbackItem `json:"items"`
}

// StrengthCount returns the number of strength items in the batch.
func (f *ReviewFeedback) StrengthCount() int {
	return f.countKind(KindStrength)
}

// ImprovementCount returns the number of improvement items in the batch.
func (f *ReviewFeedback) ImprovementCount() int {
	return f.countKind(KindImprovement)
}

func (f *ReviewFeedback) countKind(kind FeedbackKind) int {
	n := 0
	for _, item := range f.Items {
		if item.Kind == kind {
			n++
		}
	}
	return n
}

// FeedbackProvider abstracts the external collaborator that turns a diff into
// review feedback. Content generation is outside this engine's responsibility.
type FeedbackProvider interface {
	GenerateFeedback(ctx context.Context, req *ReviewRequest, diff *DiffResult) (*ReviewFeedback, error)
}
