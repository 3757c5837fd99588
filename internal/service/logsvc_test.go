package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"2026-08-01T12:00:00Z", "2026-08-01T12:00:00Z"},
		{"2026-08-01T12:00:00+02:00", "2026-08-01T10:00:00Z"},
		{"2026-08-01T12:00:00", "2026-08-01T12:00:00Z"},
		{"2026-08-01", "2026-08-01T00:00:00Z"},
		{"12-03-2025T00:00:00", "2025-03-12T00:00:00Z"},
		{"12-03-2025T:00:00:00", "2025-03-12T00:00:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseTimestamp(tt.raw)
			require.NoError(t, err)
			want, err := time.Parse(time.RFC3339, tt.want)
			require.NoError(t, err)
			assert.True(t, got.Equal(want), "got %v want %v", got, want)
		})
	}
}

func TestParseTimestampRejects(t *testing.T) {
	for _, raw := range []string{"", "yesterday", "2026/08/01"} {
		_, err := ParseTimestamp(raw)
		assert.Error(t, err, "raw=%q", raw)
	}
}
