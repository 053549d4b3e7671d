package tracker

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/review-courier/internal/core"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestComputeGrowth(t *testing.T) {
	tests := []struct {
		name     string
		prev     int
		cur      int
		expected float64
	}{
		{name: "half of the issues fixed", prev: 10, cur: 5, expected: 50},
		{name: "all issues fixed", prev: 4, cur: 0, expected: 100},
		{name: "nothing fixed", prev: 6, cur: 6, expected: 0},
		{name: "more issues than before clamps to zero", prev: 3, cur: 8, expected: 0},
		{name: "zero prior improvements yields zero", prev: 0, cur: 2, expected: 0},
		{name: "negative prior treated as zero", prev: -1, cur: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, computeGrowth(tt.prev, tt.cur), 0.0001)
		})
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	when := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	growth := 40.0
	events := []core.ReviewEvent{
		{Timestamp: when, ReviewToken: "tok-1", StrengthCount: 2, ImprovementCount: 5},
		{Timestamp: when.Add(time.Hour), ReviewToken: "tok-2", ImprovementCount: 3, ReReview: true, Growth: &growth},
	}

	blob, err := encodeHistory(events)
	require.NoError(t, err)

	decoded := decodeHistory(discardLogger(), blob)
	require.Len(t, decoded, 2)
	assert.Equal(t, "tok-1", decoded[0].ReviewToken)
	assert.True(t, decoded[1].ReReview)
	require.NotNil(t, decoded[1].Growth)
	assert.InDelta(t, 40.0, *decoded[1].Growth, 0.0001)
}

func TestDecodeHistoryMalformedBlobIsEmpty(t *testing.T) {
	assert.Nil(t, decodeHistory(discardLogger(), "{corrupt"))
	assert.Nil(t, decodeHistory(discardLogger(), ""))
}

func TestEncodeHistoryNilIsEmptyList(t *testing.T) {
	blob, err := encodeHistory(nil)

	require.NoError(t, err)
	assert.Equal(t, "[]", blob)
}

func TestIDBlobRoundTrip(t *testing.T) {
	blob, err := encodeIDs([]string{"c-1", "c-2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c-1", "c-2"}, decodeIDs(discardLogger(), blob))

	empty, err := encodeIDs(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", empty)

	assert.Nil(t, decodeIDs(discardLogger(), "not json"))
}
