package arb

import "fmt"

// FeeConfig carries the fee and threshold knobs for one scoring call. It is
// passed in explicitly so concurrent calls can run with differing configs;
// nothing in this package reads process-wide state.
type FeeConfig struct {
	SellFeeRate       float64 // marketplace sale fee, [0,1)
	WithdrawalFeeRate float64 // funds withdrawal fee, [0,1)
	LockupDays        int     // holding period before proceeds are withdrawable
	AnchorBufferPct   float64 // conservative haircut on the ask, >= 0
	MinProfitUSD      float64
	MinROI            float64
	MinBidQty         int
}

// Validate rejects rates outside their documented ranges. Intended for the
// config boundary; Score itself trusts its input.
func (c FeeConfig) Validate() error {
	if c.SellFeeRate < 0 || c.SellFeeRate >= 1 {
		return fmt.Errorf("sell_fee_rate %.4f outside [0,1)", c.SellFeeRate)
	}
	if c.WithdrawalFeeRate < 0 || c.WithdrawalFeeRate >= 1 {
		return fmt.Errorf("withdrawal_fee_rate %.4f outside [0,1)", c.WithdrawalFeeRate)
	}
	if c.AnchorBufferPct < 0 {
		return fmt.Errorf("anchor_buffer_pct %.4f negative", c.AnchorBufferPct)
	}
	if c.LockupDays < 0 {
		return fmt.Errorf("lockup_days %d negative", c.LockupDays)
	}
	if c.MinBidQty < 0 {
		return fmt.Errorf("min_bid_qty %d negative", c.MinBidQty)
	}
	return nil
}

// Score computes fee- and buffer-adjusted profitability of buying at the
// reference price and liquidating at the snapshot's ask. The reference price
// must already be in the snapshot's currency; conversion is the caller's
// problem. LockupDays is copied through as a carrying-cost signal without
// discounting net profit, so callers can apply their own time-value model.
func Score(snap *MarketSnapshot, referencePrice float64, cfg FeeConfig) (*ProfitResult, error) {
	if snap == nil || snap.LowestAsk == nil {
		return nil, fmt.Errorf("score: lowest ask absent: %w", ErrInsufficientData)
	}
	if referencePrice == 0 {
		return nil, fmt.Errorf("score: %w", ErrDivisionUndefined)
	}

	effectiveAsk := *snap.LowestAsk * (1 - cfg.AnchorBufferPct)
	gross := effectiveAsk * (1 - cfg.SellFeeRate) * (1 - cfg.WithdrawalFeeRate)
	net := gross - referencePrice
	roi := net / referencePrice

	res := &ProfitResult{
		NetProfit:  net,
		ROI:        roi,
		LockupDays: cfg.LockupDays,
		Qualifies:  true,
	}

	// Every violated threshold is tagged, not just the first, so callers can
	// show the full list.
	if net < cfg.MinProfitUSD {
		res.Qualifies = false
		res.Reasons = append(res.Reasons, ReasonBelowMinProfit)
	}
	if roi < cfg.MinROI {
		res.Qualifies = false
		res.Reasons = append(res.Reasons, ReasonBelowMinROI)
	}
	if snap.HighestBidQty < cfg.MinBidQty {
		res.Qualifies = false
		res.Reasons = append(res.Reasons, ReasonInsufficientBidQty)
	}
	return res, nil
}

// ScoreASPAnchored scores against the trailing-24h average selling price
// instead of the live ask, for callers that want a smoothed anchor. With no
// trades in the window the aggregate is undefined and the call fails with
// ErrInsufficientData; it never substitutes zero.
func ScoreASPAnchored(snap *MarketSnapshot, referencePrice float64, cfg FeeConfig) (*ProfitResult, error) {
	if snap == nil || snap.ASP24h == nil {
		return nil, fmt.Errorf("score: asp24h absent (vol24h=0): %w", ErrInsufficientData)
	}
	anchored := *snap
	anchored.LowestAsk = snap.ASP24h
	return Score(&anchored, referencePrice, cfg)
}
