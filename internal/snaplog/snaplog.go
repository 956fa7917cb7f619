// Package snaplog persists resolved snapshots to CSV: an append-only history
// file plus a single-row "latest" file that is overwritten on every write.
package snaplog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"cs2-arb/internal/arb"
)

const (
	HistoryPath = "logs/csfloat_snapshots.csv"
	LatestPath  = "logs/csfloat_snapshot_latest.csv"
)

var columns = []string{
	"timestamp",
	"item",
	"wear",
	"category",
	"source",
	"lowest_ask",
	"ask_listing_id",
	"highest_bid",
	"highest_bid_qty",
	"vol24h",
	"asp24h",
}

// Writer knows where the two CSV files live.
type Writer struct {
	historyPath string
	latestPath  string
}

func NewWriter() *Writer {
	return &Writer{historyPath: HistoryPath, latestPath: LatestPath}
}

// NewWriterAt is used by tests and callers that relocate the log directory.
func NewWriterAt(historyPath, latestPath string) *Writer {
	return &Writer{historyPath: historyPath, latestPath: latestPath}
}

// row serializes one resolution. Absent money fields become empty cells,
// never "0": a zero in the file is a real price.
func row(q arb.ItemQuery, snap *arb.MarketSnapshot, at time.Time) []string {
	return []string{
		strconv.FormatInt(at.Unix(), 10),
		q.Name,
		string(q.Wear),
		string(q.Category),
		string(snap.Source),
		money(snap.LowestAsk),
		snap.AskListingID,
		money(snap.HighestBid),
		strconv.Itoa(snap.HighestBidQty),
		strconv.Itoa(snap.Vol24h),
		money(snap.ASP24h),
	}
}

func money(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

// Log appends the snapshot to the history file (creating the header when the
// file is new or empty) and rewrites the latest file.
func (w *Writer) Log(q arb.ItemQuery, snap *arb.MarketSnapshot, at time.Time) error {
	r := row(q, snap, at)

	if err := appendHistory(w.historyPath, r); err != nil {
		return err
	}
	return writeLatest(w.latestPath, r)
}

func appendHistory(path string, r []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	needHeader := true
	if st, err := os.Stat(path); err == nil && st.Size() > 0 {
		needHeader = false
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history csv: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needHeader {
		if err := cw.Write(columns); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
	}
	if err := cw.Write(r); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

func writeLatest(path string, r []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open latest csv: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.Write(r); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	cw.Flush()
	return cw.Error()
}
