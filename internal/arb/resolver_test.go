package arb

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func wearPtr(w WearTier) *WearTier { return &w }

func askListing(id string, price float64, listedAt time.Time) CandidateListing {
	return CandidateListing{
		ID:       id,
		Name:     "AK-47 | Redline",
		Category: CategoryNormal,
		Wear:     wearPtr(WearFieldTested),
		Side:     SideAsk,
		Price:    price,
		Currency: "USD",
		ListedAt: listedAt,
	}
}

func bidListing(price float64) CandidateListing {
	return CandidateListing{
		Name:     "AK-47 | Redline",
		Category: CategoryNormal,
		Wear:     wearPtr(WearFieldTested),
		Side:     SideBid,
		Price:    price,
		Currency: "USD",
		ListedAt: testNow,
	}
}

func redlineQuery() ItemQuery {
	return ItemQuery{Name: "AK-47 | Redline", Wear: WearFieldTested, Category: CategoryNormal}
}

func TestResolve_StrictAlwaysWins(t *testing.T) {
	strict := askListing("a1", 45.50, testNow)
	relaxedOnly := askListing("a2", 12.00, testNow)
	relaxedOnly.Wear = wearPtr(WearBattleScarred)

	snap, err := Resolve(redlineQuery(), []CandidateListing{relaxedOnly, strict}, nil, testNow)
	require.NoError(t, err)
	assert.Equal(t, SourceStrict, snap.Source)
	require.NotNil(t, snap.LowestAsk)
	assert.Equal(t, 45.50, *snap.LowestAsk)
	assert.Equal(t, "a1", snap.AskListingID)

	// Identical outcome without the relaxed-tier candidate.
	snap2, err := Resolve(redlineQuery(), []CandidateListing{strict}, nil, testNow)
	require.NoError(t, err)
	assert.Equal(t, snap.Source, snap2.Source)
	assert.Equal(t, *snap.LowestAsk, *snap2.LowestAsk)
}

func TestResolve_FallsBackToRelaxedWear(t *testing.T) {
	c := askListing("a1", 30.00, testNow)
	c.Wear = nil // market exposes no wear granularity for this item

	snap, err := Resolve(redlineQuery(), []CandidateListing{c}, nil, testNow)
	require.NoError(t, err)
	assert.Equal(t, SourceRelaxedWear, snap.Source)
}

func TestResolve_FallsBackToNameOnly(t *testing.T) {
	c := askListing("a1", 30.00, testNow)
	c.Category = CategoryStatTrak // breaks strict and relaxed-wear

	snap, err := Resolve(redlineQuery(), []CandidateListing{c}, nil, testNow)
	require.NoError(t, err)
	assert.Equal(t, SourceNameOnly, snap.Source)
	require.NotNil(t, snap.LowestAsk)
	assert.Equal(t, 30.00, *snap.LowestAsk)
	// Single ask-side candidate: no bids at all at the top price.
	assert.Equal(t, 0, snap.HighestBidQty)
	assert.Nil(t, snap.HighestBid)
}

func TestResolve_NoMatch(t *testing.T) {
	c := askListing("a1", 30.00, testNow)
	c.Name = "AWP | Asiimov"

	snap, err := Resolve(redlineQuery(), []CandidateListing{c}, nil, testNow)
	assert.Nil(t, snap)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoMatch))
}

func TestResolve_LowestAskTieBreaksOnOldestListing(t *testing.T) {
	older := askListing("old", 45.50, testNow.Add(-3*time.Hour))
	newer := askListing("new", 45.50, testNow.Add(-1*time.Hour))
	higher := askListing("hi", 52.00, testNow.Add(-9*time.Hour))

	snap, err := Resolve(redlineQuery(), []CandidateListing{newer, higher, older}, nil, testNow)
	require.NoError(t, err)
	assert.Equal(t, "old", snap.AskListingID)
	assert.Equal(t, 45.50, *snap.LowestAsk)
}

func TestResolve_HighestBidAndDepth(t *testing.T) {
	candidates := []CandidateListing{
		askListing("a1", 45.50, testNow),
		bidListing(41.00),
		bidListing(43.25),
		bidListing(43.25),
		bidListing(40.10),
	}

	snap, err := Resolve(redlineQuery(), candidates, nil, testNow)
	require.NoError(t, err)
	require.NotNil(t, snap.HighestBid)
	assert.Equal(t, 43.25, *snap.HighestBid)
	assert.Equal(t, 2, snap.HighestBidQty)
}

func TestResolve_TradeWindowBoundariesInclusive(t *testing.T) {
	trades := []CandidateTrade{
		{Price: 40.00, SoldAt: testNow.Add(-24 * time.Hour)},                 // exactly at the lower bound
		{Price: 44.00, SoldAt: testNow},                                      // exactly at now
		{Price: 42.00, SoldAt: testNow.Add(-12 * time.Hour)},                 // inside
		{Price: 99.00, SoldAt: testNow.Add(-24*time.Hour - time.Second)},     // just outside
		{Price: 99.00, SoldAt: testNow.Add(time.Second)},                     // future
	}

	snap, err := Resolve(redlineQuery(), []CandidateListing{askListing("a1", 45.50, testNow)}, trades, testNow)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Vol24h)
	require.NotNil(t, snap.ASP24h)
	assert.InDelta(t, 42.00, *snap.ASP24h, 1e-9)
}

func TestResolve_NoTradesMeansAbsentASP(t *testing.T) {
	trades := []CandidateTrade{
		{Price: 40.00, SoldAt: testNow.Add(-48 * time.Hour)},
	}

	snap, err := Resolve(redlineQuery(), []CandidateListing{askListing("a1", 45.50, testNow)}, trades, testNow)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Vol24h)
	assert.Nil(t, snap.ASP24h, "zero trades must leave asp24h absent, not zero")
}

func TestResolve_ZeroPriceIsAValidSignal(t *testing.T) {
	free := askListing("a1", 0.00, testNow)

	snap, err := Resolve(redlineQuery(), []CandidateListing{free}, nil, testNow)
	require.NoError(t, err)
	require.NotNil(t, snap.LowestAsk)
	assert.Equal(t, 0.00, *snap.LowestAsk)
}
