package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeanchor/internal/modules/session/domain"
)

func TestRiskTable(t *testing.T) {
	t.Parallel()
	cases := []struct {
		category domain.Category
		autoplay bool
		boredom  int
		want     float64
	}{
		{domain.CategorySocial, true, 100, 100},
		{domain.CategorySocial, false, 50, 50},
		{domain.CategoryVideo, true, 0, 55},
		{domain.CategoryNews, false, 25, 30},
		{domain.CategoryMessaging, false, 0, 10},
		{domain.CategoryWork, true, 100, 75},
	}
	for _, tc := range cases {
		got := domain.Risk(tc.category, tc.autoplay, tc.boredom)
		assert.InDelta(t, tc.want, got, 1e-9, "%s autoplay=%t boredom=%d", tc.category, tc.autoplay, tc.boredom)
	}
}

func TestRiskIsPureAndClamped(t *testing.T) {
	t.Parallel()
	for _, c := range domain.Categories {
		for _, autoplay := range []bool{false, true} {
			for boredom := domain.MinBoredom; boredom <= domain.MaxBoredom; boredom += 5 {
				first := domain.Risk(c, autoplay, boredom)
				second := domain.Risk(c, autoplay, boredom)
				require.Equal(t, first, second)
				require.GreaterOrEqual(t, first, 0.0)
				require.LessOrEqual(t, first, domain.MaxRisk)
			}
		}
	}
	assert.Equal(t, domain.MaxRisk, domain.Risk(domain.CategorySocial, true, 500))
	assert.Equal(t, 0.0, domain.Risk(domain.Category("unknown"), false, -100))
}

func TestRiskSamplesKeepNewestTwenty(t *testing.T) {
	t.Parallel()
	var samples domain.RiskSamples
	for i := 1; i <= 25; i++ {
		samples.Push(float64(i))
	}
	values := samples.Values()
	require.Len(t, values, domain.RiskBufferSize)
	assert.Equal(t, 6.0, values[0])
	assert.Equal(t, 25.0, values[len(values)-1])

	samples.Reset()
	assert.Equal(t, 0, samples.Len())
	assert.Empty(t, samples.Values())
}
