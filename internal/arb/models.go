package arb

import "time"

// WearTier is the discretized cosmetic-condition bucket of a skin.
type WearTier string

const (
	WearFactoryNew    WearTier = "fn"
	WearMinimalWear   WearTier = "mw"
	WearFieldTested   WearTier = "ft"
	WearWellWorn      WearTier = "ww"
	WearBattleScarred WearTier = "bs"
)

// Category is the item variant class, priced independently of wear.
type Category string

const (
	CategoryNormal   Category = "normal"
	CategoryStatTrak Category = "stattrak"
	CategorySouvenir Category = "souvenir"
)

// Side marks which side of the book a candidate sits on.
type Side string

const (
	SideAsk Side = "ask"
	SideBid Side = "bid"
)

// MatchSource records which fallback tier produced a snapshot. Callers must
// inspect it before trusting a price for arbitrage decisions: strict is the
// most comparable, name_only the least.
type MatchSource string

const (
	SourceStrict      MatchSource = "strict"
	SourceRelaxedWear MatchSource = "relaxed_wear"
	SourceNameOnly    MatchSource = "name_only"
)

// ItemQuery fully specifies what must be matched. Immutable per request.
type ItemQuery struct {
	Name     string
	Wear     WearTier
	Category Category
}

// CandidateListing is one standing offer, already validated at the fetch
// boundary. Never mutated here.
type CandidateListing struct {
	ID       string
	Name     string
	Category Category
	Wear     *WearTier // nil when the item family has no wear granularity
	Side     Side
	Price    float64
	Currency string
	Seller   string
	ListedAt time.Time
}

// CandidateTrade is one completed sale, used only for 24h volume/ASP
// aggregation.
type CandidateTrade struct {
	Price    float64
	Currency string
	SoldAt   time.Time
}

// MarketSnapshot reduces the winning candidate set to a single market view.
// Money fields are pointers so "no data" stays distinguishable from a
// legitimate zero price.
type MarketSnapshot struct {
	LowestAsk     *float64
	AskListingID  string
	HighestBid    *float64
	HighestBidQty int
	Vol24h        int
	ASP24h        *float64
	Source        MatchSource
}

// ProfitResult is the scorer's verdict. Derived, stateless, recomputed per
// request.
type ProfitResult struct {
	NetProfit  float64
	ROI        float64
	LockupDays int
	Qualifies  bool
	Reasons    []Reason
}

// Reason tags one violated qualification threshold.
type Reason string

const (
	ReasonBelowMinProfit     Reason = "below_min_profit"
	ReasonBelowMinROI        Reason = "below_min_roi"
	ReasonInsufficientBidQty Reason = "insufficient_bid_depth"
)
