package arb

import (
	"fmt"
	"time"
)

// tier pairs a match source with its predicate. Tiers are evaluated in
// priority order and the first one yielding at least one candidate wins,
// trading precision for availability on thin order books.
type tier struct {
	source MatchSource
	match  func(q ItemQuery, c CandidateListing) bool
}

var fallbackTiers = []tier{
	{SourceStrict, matchStrict},
	{SourceRelaxedWear, matchRelaxedWear},
	{SourceNameOnly, matchNameOnly},
}

func matchStrict(q ItemQuery, c CandidateListing) bool {
	if c.Name != q.Name || c.Category != q.Category {
		return false
	}
	if q.Wear == "" {
		return true
	}
	return c.Wear != nil && *c.Wear == q.Wear
}

// matchRelaxedWear ignores wear entirely, for items where the market exposes
// no wear-level granularity.
func matchRelaxedWear(q ItemQuery, c CandidateListing) bool {
	return c.Name == q.Name && c.Category == q.Category
}

func matchNameOnly(q ItemQuery, c CandidateListing) bool {
	return c.Name == q.Name
}

// Resolve selects the best-matching subset of raw candidates for the query
// and reduces it to a single MarketSnapshot. Trade candidates are assumed
// pre-filtered for the queried item; only the trailing 24h window ending at
// now is applied here. Returns ErrNoMatch when no fallback tier yields a
// candidate.
func Resolve(q ItemQuery, candidates []CandidateListing, trades []CandidateTrade, now time.Time) (*MarketSnapshot, error) {
	var (
		winning []CandidateListing
		source  MatchSource
	)
	for _, t := range fallbackTiers {
		for _, c := range candidates {
			if t.match(q, c) {
				winning = append(winning, c)
			}
		}
		if len(winning) > 0 {
			source = t.source
			break
		}
	}
	if len(winning) == 0 {
		return nil, fmt.Errorf("resolve %q (wear=%s category=%s): %w", q.Name, q.Wear, q.Category, ErrNoMatch)
	}

	snap := &MarketSnapshot{Source: source}

	// Lowest ask, ties broken by earliest listing timestamp: the oldest
	// standing offer wins, matching real order-book priority.
	var best *CandidateListing
	for i := range winning {
		c := &winning[i]
		if c.Side != SideAsk {
			continue
		}
		if best == nil || c.Price < best.Price ||
			(c.Price == best.Price && c.ListedAt.Before(best.ListedAt)) {
			best = c
		}
	}
	if best != nil {
		ask := best.Price
		snap.LowestAsk = &ask
		snap.AskListingID = best.ID
	}

	// Highest bid plus depth at that exact price.
	var topBid *float64
	for i := range winning {
		c := &winning[i]
		if c.Side != SideBid {
			continue
		}
		if topBid == nil || c.Price > *topBid {
			p := c.Price
			topBid = &p
		}
	}
	if topBid != nil {
		snap.HighestBid = topBid
		for _, c := range winning {
			if c.Side == SideBid && c.Price == *topBid {
				snap.HighestBidQty++
			}
		}
	}

	snap.Vol24h, snap.ASP24h = tradeWindowMetrics(trades, now)
	return snap, nil
}

// tradeWindowMetrics counts trades inside [now-24h, now], both boundaries
// inclusive, and averages their prices. ASP stays nil with zero volume so
// "no trades" never reads as "sold for free".
func tradeWindowMetrics(trades []CandidateTrade, now time.Time) (int, *float64) {
	cutoff := now.Add(-24 * time.Hour)
	vol := 0
	total := 0.0
	for _, t := range trades {
		if t.SoldAt.Before(cutoff) || t.SoldAt.After(now) {
			continue
		}
		vol++
		total += t.Price
	}
	if vol == 0 {
		return 0, nil
	}
	asp := total / float64(vol)
	return vol, &asp
}
