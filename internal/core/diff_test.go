package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusFromCode(t *testing.T) {
	tests := []struct {
		code     string
		expected ChangeStatus
	}{
		{"A", StatusAdded},
		{"M", StatusModified},
		{"D", StatusDeleted},
		{"R100", StatusRenamed},
		{"R087", StatusRenamed},
		{"C75", StatusUnknown},
		{"T", StatusUnknown},
		{"", StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusFromCode(tt.code))
		})
	}
}
