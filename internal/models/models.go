package models

import (
	"time"

	"gorm.io/gorm"
)

// SnapshotRecord is one persisted market resolution. Nullable money columns
// keep "no data" distinct from a zero price all the way into storage.
type SnapshotRecord struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Timestamp     time.Time      `json:"timestamp" gorm:"index;not null"`
	Item          string         `json:"item" gorm:"index;not null"`
	Wear          string         `json:"wear"`
	Category      string         `json:"category"`
	Source        string         `json:"source" gorm:"not null"` // strict, relaxed_wear, name_only
	LowestAsk     *float64       `json:"lowest_ask"`
	AskListingID  string         `json:"ask_listing_id"`
	HighestBid    *float64       `json:"highest_bid"`
	HighestBidQty int            `json:"highest_bid_qty"`
	Vol24h        int            `json:"vol24h"`
	ASP24h        *float64       `json:"asp24h"`
	CreatedAt     time.Time      `json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// VerdictRecord is one scored snapshot: the profitability outcome against a
// reference price, with every violated threshold kept for display.
type VerdictRecord struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	SnapshotID     uint           `json:"snapshot_id" gorm:"index;not null"`
	Snapshot       SnapshotRecord `json:"snapshot" gorm:"foreignKey:SnapshotID"`
	ReferencePrice float64        `json:"reference_price"`
	NetProfit      float64        `json:"net_profit"`
	ROI            float64        `json:"roi"`
	LockupDays     int            `json:"lockup_days"`
	Qualifies      bool           `json:"qualifies" gorm:"index"`
	Reasons        string         `json:"reasons"` // comma-joined threshold tags
	CreatedAt      time.Time      `json:"created_at"`
}

// WatchItem is one watchlist entry the scanner daemon resolves each cycle.
type WatchItem struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"not null"`
	Wear           string    `json:"wear"`
	Category       string    `json:"category"`
	ReferencePrice float64   `json:"reference_price"` // already in USD
	IsActive       bool      `json:"is_active" gorm:"default:true"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
