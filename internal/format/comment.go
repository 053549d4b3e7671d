package format

import (
	"fmt"
	"strings"

	"github.com/avolkov/review-courier/internal/core"
)

// markerPrefix identifies comments this engine posted. The token after the
// colon correlates the comment with a tracker history entry.
const markerPrefix = "<!-- review-courier:"

// Marker renders the hidden correlation marker for a review token.
func Marker(token string) string {
	return markerPrefix + token + " -->"
}

// IsEngineComment reports whether a comment body was produced by this engine.
func IsEngineComment(body string) bool {
	return strings.Contains(body, markerPrefix)
}

// BuildComment renders a feedback batch as a markdown review comment. The
// output still carries the semantic marker emoji; Sanitize rewrites them for
// the destination platform.
func BuildComment(feedback *core.ReviewFeedback, reReview bool) string {
	var sb strings.Builder

	if reReview {
		sb.WriteString("## 🤖 Re-Review\n\n")
	} else {
		sb.WriteString("## 🤖 Code Review\n\n")
	}

	if feedback.Summary != "" {
		sb.WriteString(feedback.Summary)
		sb.WriteString("\n\n")
	}

	writeSection(&sb, "Strengths", "✅", itemsOf(feedback, core.KindStrength))
	writeSection(&sb, "Improvements", "", itemsOf(feedback, core.KindImprovement))

	sb.WriteString("\n")
	sb.WriteString(Marker(feedback.ReviewToken))
	return sb.String()
}

// itemsOf filters a feedback batch down to the items of one kind, keeping
// the generator's order.
func itemsOf(feedback *core.ReviewFeedback, kind core.FeedbackKind) []core.FeedbackItem {
	var items []core.FeedbackItem
	for _, item := range feedback.Items {
		if item.Kind == kind {
			items = append(items, item)
		}
	}
	return items
}

func writeSection(sb *strings.Builder, title, defaultMarker string, items []core.FeedbackItem) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "### %s\n\n", title)
	for _, item := range items {
		marker := defaultMarker
		if marker == "" {
			marker = severityMarker(item.Severity)
		}
		if item.FilePath != "" {
			fmt.Fprintf(sb, "- %s `%s` — %s\n", marker, item.FilePath, item.Text)
		} else {
			fmt.Fprintf(sb, "- %s %s\n", marker, item.Text)
		}
	}
	sb.WriteString("\n")
}

// severityMarker returns the marker emoji for an improvement severity.
func severityMarker(severity string) string {
	switch strings.ToLower(severity) {
	case "critical", "high":
		return "🔴"
	case "medium", "warning":
		return "⚠️"
	case "low", "minor":
		return "🟡"
	default:
		return "💡"
	}
}
