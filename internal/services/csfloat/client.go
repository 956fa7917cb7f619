package csfloat

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"cs2-arb/internal/arb"

	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL = "https://csfloat.com/api/v1"
	pageLimit      = 50 // API caps listing pages at 50 rows
	maxRetries     = 5
)

// Client talks to the CSFloat REST API and maps raw rows into validated
// candidate records. It is the only place that knows about cents, cursors
// and payload shapes; everything past it works on arb types.
type Client struct {
	http    *resty.Client
	baseURL string
	backoff time.Duration
	debug   bool
}

func NewClient(apiKey string) *Client {
	hc := resty.New()
	hc.SetTimeout(20 * time.Second)
	hc.SetHeader("Authorization", apiKey)

	return &Client{
		http:    hc,
		baseURL: defaultBaseURL,
		backoff: 1500 * time.Millisecond,
	}
}

// SetBaseURL points the client at a different API root. Used by tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

// SetDebug enables request/response logging.
func (c *Client) SetDebug(on bool) { c.debug = on }

// get performs one GET with rate-limit backoff and a single retry on server
// errors, mirroring how the API actually misbehaves under load.
func (c *Client) get(ctx context.Context, path string, params map[string]string) (*resty.Response, error) {
	var resp *resty.Response
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		resp, err = c.http.R().
			SetContext(ctx).
			SetQueryParams(params).
			Get(c.baseURL + path)
		if err != nil {
			return nil, fmt.Errorf("GET %s: %w", path, err)
		}
		if c.debug {
			log.Printf("GET %s %v -> %d", path, params, resp.StatusCode())
		}

		code := resp.StatusCode()
		if code == http.StatusTooManyRequests || (code >= 500 && code < 600) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff):
			}
			continue
		}
		if code >= 400 {
			return nil, fmt.Errorf("GET %s: unexpected status %d", path, code)
		}
		return resp, nil
	}
	return nil, fmt.Errorf("GET %s: gave up after %d attempts (last status %d)", path, maxRetries, resp.StatusCode())
}

// Listings streams paginated listings for a market hash name, following the
// X-Next-Cursor header up to maxPages.
func (c *Client) Listings(ctx context.Context, marketHashName, sortBy string, maxPages int) ([]listingRow, error) {
	params := map[string]string{
		"limit":   strconv.Itoa(pageLimit),
		"sort_by": sortBy,
	}
	if marketHashName != "" {
		params["market_hash_name"] = marketHashName
	}

	var all []listingRow
	cursor := ""
	for page := 0; page < maxPages; page++ {
		req := make(map[string]string, len(params)+1)
		for k, v := range params {
			req[k] = v
		}
		if cursor != "" {
			req["cursor"] = cursor
		}

		resp, err := c.get(ctx, "/listings", req)
		if err != nil {
			return nil, err
		}

		raws, err := extractRows(resp.Body())
		if err != nil {
			return nil, fmt.Errorf("parse listings payload: %w", err)
		}
		if len(raws) == 0 {
			break
		}
		for _, raw := range raws {
			var row listingRow
			if err := row.unmarshal(raw); err != nil {
				continue // skip malformed rows, the feed is not always clean
			}
			all = append(all, row)
		}

		cursor = resp.Header().Get("X-Next-Cursor")
		if cursor == "" {
			break
		}
	}
	return all, nil
}

// BuyOrders fetches the top buy orders standing against a listing.
func (c *Client) BuyOrders(ctx context.Context, listingID string, limit int) ([]buyOrderRow, error) {
	resp, err := c.get(ctx, "/listings/"+url.PathEscape(listingID)+"/buy-orders", map[string]string{
		"limit": strconv.Itoa(limit),
	})
	if err != nil {
		return nil, err
	}

	raws, err := extractRows(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("parse buy orders payload: %w", err)
	}
	var orders []buyOrderRow
	for _, raw := range raws {
		var row buyOrderRow
		if err := row.unmarshal(raw); err != nil {
			continue
		}
		orders = append(orders, row)
	}
	return orders, nil
}

// SalesHistory fetches recent sale events for a market hash name.
func (c *Client) SalesHistory(ctx context.Context, marketHashName string, limit int) ([]saleRow, error) {
	resp, err := c.get(ctx, "/history/"+url.PathEscape(marketHashName)+"/sales", map[string]string{
		"limit": strconv.Itoa(limit),
	})
	if err != nil {
		return nil, err
	}

	raws, err := extractRows(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("parse sales payload: %w", err)
	}
	var sales []saleRow
	for _, raw := range raws {
		var row saleRow
		if err := row.unmarshal(raw); err != nil {
			continue
		}
		sales = append(sales, row)
	}
	return sales, nil
}

// FetchCandidates gathers the raw candidate set for one query: ask listings
// by market hash name (with an alternate stattrak/normal name variant when
// the primary yields nothing, which happens for Music Kits and similar),
// bid candidates from the buy orders against the cheapest ask, and pre-
// filtered trade candidates from sales history. The returned records are
// validated and tagged; all matching decisions stay in the resolver.
func (c *Client) FetchCandidates(ctx context.Context, q arb.ItemQuery) ([]arb.CandidateListing, []arb.CandidateTrade, error) {
	name := arb.BuildMarketHashName(q.Name, q.Wear, q.Category)

	rows, err := c.Listings(ctx, name, "lowest_price", 5)
	if err != nil {
		return nil, nil, err
	}

	historyName := name
	if len(rows) == 0 {
		if altName, ok := alternateNameVariant(q); ok {
			if c.debug {
				log.Printf("no listings for %q, trying alternate name %q", name, altName)
			}
			rows, err = c.Listings(ctx, altName, "lowest_price", 5)
			if err != nil {
				return nil, nil, err
			}
			if len(rows) > 0 {
				historyName = altName
			}
		}
	}

	var candidates []arb.CandidateListing
	var cheapest *listingRow
	for i := range rows {
		row := &rows[i]
		cand, ok := mapListing(row)
		if !ok {
			continue
		}
		candidates = append(candidates, cand)
		if cheapest == nil || row.Price < cheapest.Price {
			cheapest = row
		}
	}

	// Bid side rides on the cheapest standing listing; buy orders inherit
	// its item identity. One candidate per unit of quantity keeps depth
	// countable downstream.
	if cheapest != nil && cheapest.ID != "" {
		orders, err := c.BuyOrders(ctx, string(cheapest.ID), 10)
		if err != nil {
			log.Printf("buy orders for listing %s unavailable: %v", cheapest.ID, err)
		} else {
			anchor, _ := mapListing(cheapest)
			for _, o := range orders {
				qty := o.Qty
				if qty < 1 {
					qty = 1
				}
				for n := 0; n < qty; n++ {
					candidates = append(candidates, arb.CandidateListing{
						Name:     anchor.Name,
						Category: anchor.Category,
						Wear:     anchor.Wear,
						Side:     arb.SideBid,
						Price:    centsToUSD(o.Price),
						Currency: "USD",
						ListedAt: o.CreatedAt,
					})
				}
			}
		}
	}

	trades, err := c.fetchTrades(ctx, historyName, q)
	if err != nil {
		// Sales history failing should not kill the whole resolution; the
		// resolver reports zero volume with an absent ASP instead.
		log.Printf("sales history for %q unavailable: %v", historyName, err)
		trades = nil
	}

	return candidates, trades, nil
}

// fetchTrades pulls sale events and filters them down to the queried item,
// category and wear bucket. The trailing-24h window is applied later by the
// resolver.
func (c *Client) fetchTrades(ctx context.Context, name string, q arb.ItemQuery) ([]arb.CandidateTrade, error) {
	sales, err := c.SalesHistory(ctx, name, 400)
	if err != nil {
		return nil, err
	}

	var bucket arb.WearRange
	useWear := false
	if q.Wear != "" && arb.SupportsFloat(name) {
		bucket, useWear = q.Wear.BucketRange()
	}

	var trades []arb.CandidateTrade
	for _, s := range sales {
		if s.State != "" && s.State != "sold" {
			continue
		}
		if s.Price <= 0 {
			continue
		}
		if q.Category != "" && rowCategory(s.Item) != q.Category {
			continue
		}
		if useWear {
			fv := s.Item.FloatValue
			if fv == nil || *fv < bucket.Min || *fv >= bucket.Max {
				continue
			}
		}

		soldAt := s.CreatedAt
		if s.SoldAt != nil {
			soldAt = *s.SoldAt
		}
		trades = append(trades, arb.CandidateTrade{
			Price:    centsToUSD(s.Price),
			Currency: "USD",
			SoldAt:   soldAt,
		})
	}
	return trades, nil
}

// alternateNameVariant flips stattrak <-> normal, which resolves the name
// mismatch Music Kits and similar families exhibit on the listing search.
func alternateNameVariant(q arb.ItemQuery) (string, bool) {
	switch q.Category {
	case arb.CategoryStatTrak:
		return arb.BuildMarketHashName(q.Name, q.Wear, arb.CategoryNormal), true
	case arb.CategoryNormal:
		return arb.BuildMarketHashName(q.Name, q.Wear, arb.CategoryStatTrak), true
	}
	return "", false
}

func mapListing(row *listingRow) (arb.CandidateListing, bool) {
	mhn := row.Item.MarketHashName
	if mhn == "" {
		return arb.CandidateListing{}, false
	}

	cand := arb.CandidateListing{
		ID:       string(row.ID),
		Name:     arb.BaseName(mhn),
		Category: rowCategory(row.Item),
		Side:     arb.SideAsk,
		Price:    centsToUSD(row.Price),
		Currency: "USD",
		Seller:   row.Seller.Username,
		ListedAt: row.CreatedAt,
	}
	if row.Item.FloatValue != nil {
		if w, ok := arb.WearFromFloat(*row.Item.FloatValue); ok {
			cand.Wear = &w
		}
	}
	return cand, true
}

func rowCategory(it itemRow) arb.Category {
	switch {
	case it.IsSouvenir:
		return arb.CategorySouvenir
	case it.IsStatTrak:
		return arb.CategoryStatTrak
	default:
		return arb.CategoryOf(it.MarketHashName)
	}
}

func centsToUSD(cents int64) float64 {
	return float64(cents) / 100.0
}
