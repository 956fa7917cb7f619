package arb

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapWithAsk(ask float64, bidQty int) *MarketSnapshot {
	return &MarketSnapshot{LowestAsk: &ask, HighestBidQty: bidQty, Source: SourceStrict}
}

func baseFeeConfig() FeeConfig {
	return FeeConfig{
		SellFeeRate:       0.02,
		WithdrawalFeeRate: 0.025,
		LockupDays:        8,
		AnchorBufferPct:   0.0,
		MinProfitUSD:      10.0,
		MinROI:            0.01,
		MinBidQty:         1,
	}
}

func TestScore_WorkedExample(t *testing.T) {
	// ask=$1637.32, fees 2% + 2.5%, no buffer, reference $1500.00:
	// gross = 1637.32 * 0.98 * 0.975 = 1564.46.
	res, err := Score(snapWithAsk(1637.32, 3), 1500.00, baseFeeConfig())
	require.NoError(t, err)
	assert.InDelta(t, 64.46, res.NetProfit, 0.01)
	assert.InDelta(t, 0.0430, res.ROI, 0.0001)
	assert.True(t, res.Qualifies)
	assert.Empty(t, res.Reasons)
	assert.Equal(t, 8, res.LockupDays)
}

func TestScore_FeesAreStrictlyMonotonic(t *testing.T) {
	cfg := baseFeeConfig()
	base, err := Score(snapWithAsk(1000, 5), 900, cfg)
	require.NoError(t, err)

	cfg.SellFeeRate += 0.01
	higherSell, err := Score(snapWithAsk(1000, 5), 900, cfg)
	require.NoError(t, err)
	assert.Less(t, higherSell.NetProfit, base.NetProfit)

	cfg = baseFeeConfig()
	cfg.WithdrawalFeeRate += 0.01
	higherWithdraw, err := Score(snapWithAsk(1000, 5), 900, cfg)
	require.NoError(t, err)
	assert.Less(t, higherWithdraw.NetProfit, base.NetProfit)

	cfg = baseFeeConfig()
	cfg.AnchorBufferPct = 0.05
	buffered, err := Score(snapWithAsk(1000, 5), 900, cfg)
	require.NoError(t, err)
	assert.Less(t, buffered.NetProfit, base.NetProfit)
}

func TestScore_AllViolatedThresholdsAreTagged(t *testing.T) {
	cfg := baseFeeConfig()
	cfg.MinProfitUSD = 10_000
	cfg.MinROI = 5.0
	cfg.MinBidQty = 4

	res, err := Score(snapWithAsk(1000, 1), 990, cfg)
	require.NoError(t, err)
	assert.False(t, res.Qualifies)
	assert.ElementsMatch(t, []Reason{
		ReasonBelowMinProfit,
		ReasonBelowMinROI,
		ReasonInsufficientBidQty,
	}, res.Reasons)
}

func TestScore_SingleViolation(t *testing.T) {
	cfg := baseFeeConfig()
	cfg.MinBidQty = 2

	res, err := Score(snapWithAsk(1637.32, 1), 1500, cfg)
	require.NoError(t, err)
	assert.False(t, res.Qualifies)
	assert.Equal(t, []Reason{ReasonInsufficientBidQty}, res.Reasons)
}

func TestScore_ZeroReferencePrice(t *testing.T) {
	res, err := Score(snapWithAsk(1000, 5), 0, baseFeeConfig())
	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDivisionUndefined))
}

func TestScore_AbsentAsk(t *testing.T) {
	snap := &MarketSnapshot{Source: SourceNameOnly} // bid-only book
	res, err := Score(snap, 1500, baseFeeConfig())
	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientData))
}

func TestScoreASPAnchored(t *testing.T) {
	ask := 1700.00
	asp := 1637.32
	snap := &MarketSnapshot{LowestAsk: &ask, ASP24h: &asp, Vol24h: 5, HighestBidQty: 3, Source: SourceStrict}

	res, err := ScoreASPAnchored(snap, 1500.00, baseFeeConfig())
	require.NoError(t, err)
	assert.InDelta(t, 64.46, res.NetProfit, 0.01)

	// Zero trades in the window: the aggregate is undefined, never zero.
	dry := &MarketSnapshot{LowestAsk: &ask, Vol24h: 0, Source: SourceStrict}
	_, err = ScoreASPAnchored(dry, 1500.00, baseFeeConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientData))
}

func TestFeeConfigValidate(t *testing.T) {
	assert.NoError(t, baseFeeConfig().Validate())

	bad := baseFeeConfig()
	bad.SellFeeRate = 1.0
	assert.Error(t, bad.Validate())

	bad = baseFeeConfig()
	bad.WithdrawalFeeRate = -0.1
	assert.Error(t, bad.Validate())

	bad = baseFeeConfig()
	bad.AnchorBufferPct = -0.01
	assert.Error(t, bad.Validate())

	bad = baseFeeConfig()
	bad.LockupDays = -1
	assert.Error(t, bad.Validate())

	bad = baseFeeConfig()
	bad.MinBidQty = -1
	assert.Error(t, bad.Validate())
}
