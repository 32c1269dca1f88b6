package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	tests := []struct {
		v        float64
		places   int
		expected float64
	}{
		{33.333333, 2, 33.33},
		{66.666666, 2, 66.67},
		{2.25, 1, 2.3},
		{0, 2, 0},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			assert.Equal(t, tt.expected, Round(tt.v, tt.places))
		})
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 50.0, Percent(1, 2, 2))
	assert.Equal(t, 0.0, Percent(5, 0, 2))
	assert.Equal(t, 33.33, Percent(1, 3, 2))
}

func TestParseAmount(t *testing.T) {
	t.Run("Whole units", func(t *testing.T) {
		cents, err := ParseAmount("45")
		assert.NoError(t, err)
		assert.Equal(t, int64(4500), cents)
	})

	t.Run("Fractional", func(t *testing.T) {
		cents, err := ParseAmount("45.5")
		assert.NoError(t, err)
		assert.Equal(t, int64(4550), cents)
	})

	t.Run("Negative", func(t *testing.T) {
		_, err := ParseAmount("-1")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "must be >= 0")
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := ParseAmount("abc")
		assert.Error(t, err)
	})
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "135.00", FormatAmount(13500))
	assert.Equal(t, "0.05", FormatAmount(5))
	assert.Equal(t, "-1.50", FormatAmount(-150))
}

func TestCentsRoundTrip(t *testing.T) {
	assert.Equal(t, 45.0, CentsToAmount(4500))
	assert.Equal(t, int64(1999), AmountToCents(19.99))
}
