package csfloat

import (
	"encoding/json"
	"time"
)

// itemRow is the nested item object CSFloat embeds in listings and sale
// events.
type itemRow struct {
	MarketHashName string   `json:"market_hash_name"`
	FloatValue     *float64 `json:"float_value"`
	PaintSeed      *int     `json:"paint_seed"`
	IsStatTrak     bool     `json:"is_stattrak"`
	IsSouvenir     bool     `json:"is_souvenir"`
}

// flexString tolerates ids arriving either as JSON strings or bare numbers.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

// listingRow is one raw listing as returned by GET /listings. Prices are in
// cents.
type listingRow struct {
	ID        flexString `json:"id"`
	Price     int64      `json:"price"`
	State     string     `json:"state"`
	CreatedAt time.Time  `json:"created_at"`
	Seller    struct {
		Username string `json:"username"`
	} `json:"seller"`
	Item itemRow `json:"item"`
}

// buyOrderRow is one raw buy order from GET /listings/{id}/buy-orders.
type buyOrderRow struct {
	MarketHashName string    `json:"market_hash_name"`
	Price          int64     `json:"price"` // cents
	Qty            int       `json:"qty"`
	CreatedAt      time.Time `json:"created_at"`
}

// saleRow is one raw sale event from GET /history/{name}/sales.
type saleRow struct {
	Price     int64      `json:"price"` // cents
	State     string     `json:"state"`
	SoldAt    *time.Time `json:"sold_at"`
	CreatedAt time.Time  `json:"created_at"`
	Item      itemRow    `json:"item"`
}

func (r *listingRow) unmarshal(raw json.RawMessage) error  { return json.Unmarshal(raw, r) }
func (r *buyOrderRow) unmarshal(raw json.RawMessage) error { return json.Unmarshal(raw, r) }
func (r *saleRow) unmarshal(raw json.RawMessage) error     { return json.Unmarshal(raw, r) }

// extractRows tolerates the two payload shapes the API uses: a bare array,
// or an object wrapping the array under one of a few keys.
func extractRows(body []byte) ([]json.RawMessage, error) {
	var asList []json.RawMessage
	if err := json.Unmarshal(body, &asList); err == nil {
		return asList, nil
	}

	var asMap map[string]json.RawMessage
	if err := json.Unmarshal(body, &asMap); err != nil {
		return nil, err
	}
	for _, key := range []string{"listings", "results", "data", "items", "rows", "events"} {
		if raw, ok := asMap[key]; ok {
			if err := json.Unmarshal(raw, &asList); err == nil {
				return asList, nil
			}
		}
	}
	return nil, nil
}
