package utils

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatOrderID(t *testing.T) {
	assert.Equal(t, "GBG0000001", FormatOrderID(1))
	assert.Equal(t, "GBG0000124", FormatOrderID(124))
	assert.Equal(t, "GBG9999999", FormatOrderID(9999999))
}

func TestParseOrderID(t *testing.T) {
	seq, err := ParseOrderID("GBG0000123")
	require.NoError(t, err)
	assert.Equal(t, int64(123), seq)

	_, err = ParseOrderID("XYZ0000123")
	assert.Error(t, err)

	_, err = ParseOrderID("GBGabcdefg")
	assert.Error(t, err)
}

func TestNextOrderID(t *testing.T) {
	tests := []struct {
		name string
		last string
		want string
	}{
		{"no previous orders", "", "GBG0000001"},
		{"increments last", "GBG0000123", "GBG0000124"},
		{"carries across digit boundary", "GBG0000999", "GBG0001000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextOrderID(tt.last)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := NextOrderID("bogus")
	assert.Error(t, err)
}

// Sequential allocation yields GBG0000001..GBG000000N with no gaps or
// duplicates.
func TestOrderIDSequence(t *testing.T) {
	seen := make(map[string]bool)
	id := ""
	for i := 1; i <= 50; i++ {
		next, err := NextOrderID(id)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("GBG%07d", i), next)
		assert.False(t, seen[next], "duplicate ID %s", next)
		seen[next] = true
		id = next
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, seq := range []int64{1, 42, 9999999} {
		parsed, err := ParseOrderID(FormatOrderID(seq))
		require.NoError(t, err)
		assert.Equal(t, seq, parsed)
	}
}
