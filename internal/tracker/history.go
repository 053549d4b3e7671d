// Package tracker persists the durable per-PR review record: how many times a
// pull request was reviewed, the append-only event history, and which inbound
// triggers were already consumed.
package tracker

import (
	"encoding/json"
	"log/slog"

	"github.com/avolkov/review-courier/internal/core"
)

// decodeHistory parses the serialized history blob. A malformed blob is
// logged and treated as empty history so a damaged row degrades instead of
// blocking delivery.
func decodeHistory(logger *slog.Logger, blob string) []core.ReviewEvent {
	if blob == "" {
		return nil
	}
	var events []core.ReviewEvent
	if err := json.Unmarshal([]byte(blob), &events); err != nil {
		logger.Error("malformed review history blob, treating as empty", "error", err)
		return nil
	}
	return events
}

func encodeHistory(events []core.ReviewEvent) (string, error) {
	if events == nil {
		events = []core.ReviewEvent{}
	}
	raw, err := json.Marshal(events)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// decodeIDs parses a serialized string-list blob, tolerating damage the same
// way decodeHistory does.
func decodeIDs(logger *slog.Logger, blob string) []string {
	if blob == "" {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(blob), &ids); err != nil {
		logger.Error("malformed id list blob, treating as empty", "error", err)
		return nil
	}
	return ids
}

func encodeIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// computeGrowth derives the growth indicator for a re-review: the percentage
// reduction in improvement items versus the preceding event, clamped to
// [0, 100]. A predecessor with zero improvements yields zero; there is
// nothing left to improve against.
func computeGrowth(prevImprovements, curImprovements int) float64 {
	if prevImprovements <= 0 {
		return 0
	}
	growth := float64(prevImprovements-curImprovements) / float64(prevImprovements) * 100
	if growth < 0 {
		return 0
	}
	if growth > 100 {
		return 100
	}
	return growth
}
