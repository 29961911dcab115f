package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecomputeStatus(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		paid     int64
		expected Status
	}{
		{"Nothing paid", 10000, 0, StatusPending},
		{"Negative paid sum", 10000, -500, StatusPending},
		{"Partially paid", 10000, 4000, StatusPartial},
		{"One cent short", 10000, 9999, StatusPartial},
		{"Exactly paid", 10000, 10000, StatusPaid},
		{"Overpaid", 10000, 12000, StatusPaid},
		{"Zero total with payment", 0, 100, StatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RecomputeStatus(tt.total, tt.paid))
		})
	}
}
