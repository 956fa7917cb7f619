package arb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWearFromFloat(t *testing.T) {
	cases := []struct {
		f    float64
		want WearTier
	}{
		{0.00, WearFactoryNew},
		{0.069, WearFactoryNew},
		{0.07, WearMinimalWear}, // lower bound belongs to the next bucket
		{0.15, WearFieldTested},
		{0.37, WearFieldTested},
		{0.38, WearWellWorn},
		{0.45, WearBattleScarred},
		{1.00, WearBattleScarred},
	}
	for _, c := range cases {
		got, ok := WearFromFloat(c.f)
		require.True(t, ok, "float %v", c.f)
		assert.Equal(t, c.want, got, "float %v", c.f)
	}

	_, ok := WearFromFloat(-0.01)
	assert.False(t, ok)
	_, ok = WearFromFloat(1.01)
	assert.False(t, ok)
}

func TestBucketRange(t *testing.T) {
	r, ok := WearFieldTested.BucketRange()
	require.True(t, ok)
	assert.Equal(t, 0.15, r.Min)
	assert.Equal(t, 0.38, r.Max)

	_, ok = WearTier("shiny").BucketRange()
	assert.False(t, ok)
}

func TestDepthReference(t *testing.T) {
	prices := []float64{10, 30, 20, 1000, 5}

	assert.Equal(t, 20.0, BasePriceFromDepth(prices, DepthMedian, 0))
	assert.Equal(t, 5.0, BasePriceFromDepth(prices, DepthLowest, 0))
	// 20% trim drops the cheapest and the outlier.
	assert.InDelta(t, 20.0, BasePriceFromDepth(prices, DepthTrimmedMean, 0.2), 1e-9)
	assert.Equal(t, 0.0, BasePriceFromDepth(nil, DepthMedian, 0))

	even := []float64{10, 20, 30, 40}
	assert.Equal(t, 25.0, BasePriceFromDepth(even, DepthMedian, 0))
}
