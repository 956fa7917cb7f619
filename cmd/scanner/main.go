// Command scanner is the watchlist daemon: every cycle it resolves a market
// snapshot for each active watch item, scores it against the stored
// reference price, persists both records and logs qualified opportunities.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cs2-arb/internal/arb"
	"cs2-arb/internal/config"
	"cs2-arb/internal/database"
	"cs2-arb/internal/models"
	"cs2-arb/internal/services/csfloat"
	"cs2-arb/internal/snaplog"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

var (
	interval = flag.Duration("interval", 5*time.Minute, "scan interval")
	once     = flag.Bool("once", false, "run a single scan cycle and exit")
	debug    = flag.Bool("debug", false, "verbose request logging")
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if err := cfg.RequireAPIKey(); err != nil {
		log.Fatal(err)
	}

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	client := csfloat.NewClient(cfg.CSFloatAPIKey)
	client.SetDebug(*debug)
	csv := snaplog.NewWriter()
	st := gormStore{db: db}

	log.Printf("Scanner started (PID %d, interval %v, min_profit=$%.2f min_roi=%.2f%% min_bid_qty=%d)",
		os.Getpid(), *interval, cfg.Fees.MinProfitUSD, cfg.Fees.MinROI*100, cfg.Fees.MinBidQty)

	if *once {
		scanAll(st, client, cfg, csv)
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	scanAll(st, client, cfg, csv)
	for {
		select {
		case <-sigChan:
			log.Println("Shutdown signal received, stopping scanner")
			return
		case <-ticker.C:
			scanAll(st, client, cfg, csv)
		}
	}
}

// fetcher is the slice of the CSFloat client the scan loop needs.
type fetcher interface {
	FetchCandidates(ctx context.Context, q arb.ItemQuery) ([]arb.CandidateListing, []arb.CandidateTrade, error)
}

// store is the persistence surface of one scan cycle.
type store interface {
	ActiveWatchItems() ([]models.WatchItem, error)
	SaveSnapshot(*models.SnapshotRecord) error
	SaveVerdict(*models.VerdictRecord) error
}

type gormStore struct {
	db *gorm.DB
}

func (s gormStore) ActiveWatchItems() ([]models.WatchItem, error) {
	var items []models.WatchItem
	err := s.db.Where("is_active = ?", true).Find(&items).Error
	return items, err
}

func (s gormStore) SaveSnapshot(r *models.SnapshotRecord) error { return s.db.Create(r).Error }

func (s gormStore) SaveVerdict(v *models.VerdictRecord) error { return s.db.Create(v).Error }

func scanAll(st store, client fetcher, cfg *config.Config, csv *snaplog.Writer) {
	items, err := st.ActiveWatchItems()
	if err != nil {
		log.Printf("Failed to load watchlist: %v", err)
		return
	}
	if len(items) == 0 {
		log.Println("Watchlist is empty, nothing to scan")
		return
	}

	log.Printf("Scanning %d watch items", len(items))
	qualified := 0
	for _, item := range items {
		if scanOne(st, client, cfg, csv, item) {
			qualified++
		}
	}
	log.Printf("Scan complete: %d/%d qualified", qualified, len(items))
}

func scanOne(st store, client fetcher, cfg *config.Config, csv *snaplog.Writer, item models.WatchItem) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	q := arb.ItemQuery{
		Name:     item.Name,
		Wear:     arb.WearTier(item.Wear),
		Category: arb.Category(item.Category),
	}
	if q.Category == "" {
		q.Category = arb.CategoryNormal
	}

	candidates, trades, err := client.FetchCandidates(ctx, q)
	if err != nil {
		log.Printf("[%s] fetch failed: %v", item.Name, err)
		return false
	}

	now := time.Now().UTC()
	snap, err := arb.Resolve(q, candidates, trades, now)
	if err != nil {
		if errors.Is(err, arb.ErrNoMatch) {
			log.Printf("[%s] no market match at any tier", item.Name)
		} else {
			log.Printf("[%s] resolve failed: %v", item.Name, err)
		}
		return false
	}

	record := models.SnapshotRecord{
		Timestamp:     now,
		Item:          q.Name,
		Wear:          string(q.Wear),
		Category:      string(q.Category),
		Source:        string(snap.Source),
		LowestAsk:     snap.LowestAsk,
		AskListingID:  snap.AskListingID,
		HighestBid:    snap.HighestBid,
		HighestBidQty: snap.HighestBidQty,
		Vol24h:        snap.Vol24h,
		ASP24h:        snap.ASP24h,
	}
	if err := csv.Log(q, snap, now); err != nil {
		log.Printf("[%s] failed to write CSV: %v", item.Name, err)
	}
	// A verdict row references its snapshot row; without one it would be
	// orphaned, so a failed insert ends this item's cycle here.
	if err := st.SaveSnapshot(&record); err != nil {
		log.Printf("[%s] failed to persist snapshot, skipping verdict: %v", item.Name, err)
		return false
	}

	if item.ReferencePrice == 0 {
		log.Printf("[%s] source=%s ask=%s (no reference price, not scored)",
			item.Name, snap.Source, fmtMoney(snap.LowestAsk))
		return false
	}

	result, err := arb.Score(snap, item.ReferencePrice, cfg.Fees)
	if err != nil {
		log.Printf("[%s] score failed: %v", item.Name, err)
		return false
	}

	verdict := models.VerdictRecord{
		SnapshotID:     record.ID,
		ReferencePrice: item.ReferencePrice,
		NetProfit:      result.NetProfit,
		ROI:            result.ROI,
		LockupDays:     result.LockupDays,
		Qualifies:      result.Qualifies,
		Reasons:        joinReasons(result.Reasons),
	}
	if err := st.SaveVerdict(&verdict); err != nil {
		log.Printf("[%s] failed to persist verdict: %v", item.Name, err)
	}

	if result.Qualifies {
		log.Printf("[%s] QUALIFIED source=%s ask=%s ref=$%.2f net=$%.2f roi=%.2f%% lockup=%dd",
			item.Name, snap.Source, fmtMoney(snap.LowestAsk), item.ReferencePrice,
			result.NetProfit, result.ROI*100, result.LockupDays)
	} else {
		log.Printf("[%s] rejected source=%s net=$%.2f roi=%.2f%% reasons=%s",
			item.Name, snap.Source, result.NetProfit, result.ROI*100, verdict.Reasons)
	}
	return result.Qualifies
}

func joinReasons(reasons []arb.Reason) string {
	parts := make([]string, len(reasons))
	for i, r := range reasons {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

func fmtMoney(v *float64) string {
	if v == nil {
		return "none"
	}
	return fmt.Sprintf("$%.2f", *v)
}
