// Command snapshot fetches one CSFloat market snapshot for an item and logs
// it to CSV: lowest ask, highest bid with depth, and trailing-24h sales.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"cs2-arb/internal/arb"
	"cs2-arb/internal/config"
	"cs2-arb/internal/services/csfloat"
	"cs2-arb/internal/snaplog"

	"github.com/joho/godotenv"
)

var (
	item     = flag.String("item", "", `base item name, e.g. "AK-47 | Redline"`)
	wear     = flag.String("wear", "", "wear tier (fn|mw|ft|ww|bs); omit for non-float items")
	category = flag.String("category", "", "item type (normal|stattrak|souvenir)")
	debug    = flag.Bool("debug", false, "verbose request logging")
	probe    = flag.Bool("probe", false, "print the result without writing logs")
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
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(2)
	}

	name := *item
	if name == "" {
		name = cfg.DefaultItem
	}
	if name == "" {
		log.Fatal(`You must pass -item "Item Name" or set DEFAULT_ITEM in .env`)
	}

	q, err := buildQuery(name, *wear, *category)
	if err != nil {
		log.Fatalf("Invalid query: %v", err)
	}

	client := csfloat.NewClient(cfg.CSFloatAPIKey)
	client.SetDebug(*debug)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	candidates, trades, err := client.FetchCandidates(ctx, q)
	if err != nil {
		log.Fatalf("Fetch failed: %v", err)
	}

	now := time.Now().UTC()
	snap, err := arb.Resolve(q, candidates, trades, now)
	if err != nil {
		if errors.Is(err, arb.ErrNoMatch) {
			fmt.Printf("No listings found for %q (wear=%s category=%s)\n", q.Name, orAny(string(q.Wear)), orAny(string(q.Category)))
			os.Exit(1)
		}
		log.Fatalf("Resolve failed: %v", err)
	}

	printSnapshot(q, snap)

	if !*probe {
		if err := snaplog.NewWriter().Log(q, snap, now); err != nil {
			log.Fatalf("Failed to write CSV logs: %v", err)
		}
		fmt.Printf("Wrote logs -> %s (append), %s (overwrite)\n", snaplog.HistoryPath, snaplog.LatestPath)
	}
}

func buildQuery(name, wearflag, catFlag string) (arb.ItemQuery, error) {
	q := arb.ItemQuery{Name: name, Category: arb.CategoryNormal}
	if wearflag != "" {
		w := arb.WearTier(wearflag)
		if !w.Valid() {
			return q, fmt.Errorf("unknown wear %q", wearflag)
		}
		q.Wear = w
	}
	if catFlag != "" {
		c := arb.Category(catFlag)
		if !c.Valid() {
			return q, fmt.Errorf("unknown category %q", catFlag)
		}
		q.Category = c
	}
	return q, nil
}

func printSnapshot(q arb.ItemQuery, snap *arb.MarketSnapshot) {
	fmt.Printf("Item: %s\n", q.Name)
	fmt.Printf("Wear: %s  Category: %s  Source: %s\n", orAny(string(q.Wear)), orAny(string(q.Category)), snap.Source)
	fmt.Printf("Lowest ask:  %s   (id: %s)\n", fmtMoney(snap.LowestAsk), snap.AskListingID)

	qty := ""
	if snap.HighestBid != nil {
		qty = fmt.Sprintf("  (qty: %d)", snap.HighestBidQty)
	}
	fmt.Printf("Highest bid: %s%s\n", fmtMoney(snap.HighestBid), qty)
	fmt.Printf("Vol 24h:     %d\n", snap.Vol24h)
	fmt.Printf("ASP 24h:     %s\n", fmtMoney(snap.ASP24h))

	if !arb.SupportsFloat(q.Name) {
		fmt.Println("Note: This item type has no float/wear values.")
	}
}

func fmtMoney(v *float64) string {
	if v == nil {
		return "None"
	}
	return fmt.Sprintf("$%.2f", *v)
}

func orAny(s string) string {
	if s == "" {
		return "any"
	}
	return s
}
