package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cs2-arb/internal/arb"
	"cs2-arb/internal/config"
	"cs2-arb/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Fetcher is the external collaborator that pulls raw candidate listings and
// trades for a query. Satisfied by *csfloat.Client; the HTTP layer never
// talks to the pricing provider directly.
type Fetcher interface {
	FetchCandidates(ctx context.Context, q arb.ItemQuery) ([]arb.CandidateListing, []arb.CandidateTrade, error)
}

type APIHandler struct {
	db      *gorm.DB
	fetcher Fetcher
	cfg     *config.Config
	hub     *Hub
}

func SetupRoutes(r *gin.RouterGroup, db *gorm.DB, fetcher Fetcher, cfg *config.Config, hub *Hub) *APIHandler {
	handler := &APIHandler{db: db, fetcher: fetcher, cfg: cfg, hub: hub}

	r.POST("/snapshot", handler.ResolveSnapshot)
	r.POST("/score", handler.ScoreSnapshot)
	r.GET("/snapshots", handler.ListSnapshots)
	r.GET("/verdicts", handler.ListVerdicts)
	r.GET("/report.xlsx", handler.ExportReport)

	watch := r.Group("/watchlist")
	{
		watch.GET("", handler.ListWatchItems)
		watch.POST("", handler.CreateWatchItem)
		watch.DELETE("/:id", handler.DeleteWatchItem)
	}

	return handler
}

type snapshotRequest struct {
	Item     string `json:"item" binding:"required"`
	Wear     string `json:"wear"`
	Category string `json:"category"`
}

func parseQuery(req snapshotRequest) (arb.ItemQuery, error) {
	q := arb.ItemQuery{Name: strings.TrimSpace(req.Item)}
	if req.Wear != "" {
		w := arb.WearTier(req.Wear)
		if !w.Valid() {
			return q, errors.New("wear must be one of fn, mw, ft, ww, bs")
		}
		q.Wear = w
	}
	if req.Category != "" {
		c := arb.Category(req.Category)
		if !c.Valid() {
			return q, errors.New("category must be one of normal, stattrak, souvenir")
		}
		q.Category = c
	} else {
		q.Category = arb.CategoryNormal
	}
	return q, nil
}

// ResolveSnapshot fetches raw candidates, runs the resolver, and persists the
// resulting snapshot row.
func (h *APIHandler) ResolveSnapshot(c *gin.Context) {
	var req snapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q, err := parseQuery(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	candidates, trades, err := h.fetcher.FetchCandidates(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "candidate fetch failed: " + err.Error()})
		return
	}

	now := time.Now().UTC()
	snap, err := arb.Resolve(q, candidates, trades, now)
	if err != nil {
		if errors.Is(err, arb.ErrNoMatch) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	record := recordFromSnapshot(q, snap, now)
	if err := h.db.Create(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist snapshot: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, record)
}

type scoreRequest struct {
	SnapshotID        uint      `json:"snapshot_id" binding:"required"`
	ReferencePrice    float64   `json:"reference_price"`
	ReferenceDepth    []float64 `json:"reference_depth"`    // buy-side book prices, condensed via depth_method
	DepthMethod       string    `json:"depth_method"`       // median (default), trimmed_mean, lowest
	DepthTrim         float64   `json:"depth_trim"`         // fraction trimmed per end for trimmed_mean
	ReferenceCurrency string    `json:"reference_currency"` // USD (default) or CNY
	Anchor            string    `json:"anchor"`             // ask (default) or asp24h
}

// referenceFromRequest condenses the request's reference inputs into one
// price: an explicit reference_price, or a reference_depth slice reduced
// with the chosen depth method.
func referenceFromRequest(req scoreRequest) (float64, error) {
	if len(req.ReferenceDepth) > 0 {
		method := arb.DepthMethod(req.DepthMethod)
		if method == "" {
			method = arb.DepthMedian
		}
		switch method {
		case arb.DepthMedian, arb.DepthTrimmedMean, arb.DepthLowest:
		default:
			return 0, errors.New("depth_method must be one of median, trimmed_mean, lowest")
		}
		return arb.BasePriceFromDepth(req.ReferenceDepth, method, req.DepthTrim), nil
	}
	if req.ReferencePrice <= 0 {
		return 0, errors.New("reference_price or reference_depth is required")
	}
	return req.ReferencePrice, nil
}

// scoreWithAnchor dispatches on the requested anchor: the live ask by
// default, or the trailing-24h average selling price.
func scoreWithAnchor(anchor string, snap *arb.MarketSnapshot, reference float64, fees arb.FeeConfig) (*arb.ProfitResult, error) {
	switch anchor {
	case "", "ask":
		return arb.Score(snap, reference, fees)
	case "asp24h":
		return arb.ScoreASPAnchored(snap, reference, fees)
	}
	return nil, errors.New("anchor must be one of ask, asp24h")
}

// ScoreSnapshot scores a stored snapshot against an external reference price
// and persists + broadcasts the verdict. A CNY reference is normalized with
// the fixed configured rate; no live conversion happens here.
func (h *APIHandler) ScoreSnapshot(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reference, err := referenceFromRequest(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var record models.SnapshotRecord
	if err := h.db.First(&record, req.SnapshotID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "snapshot not found"})
		return
	}

	if strings.EqualFold(req.ReferenceCurrency, "CNY") {
		if h.cfg.RefUSDRate <= 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "REF_USD_RATE not configured"})
			return
		}
		reference = reference / h.cfg.RefUSDRate
	}

	snap := snapshotFromRecord(&record)
	result, err := scoreWithAnchor(req.Anchor, snap, reference, h.cfg.Fees)
	if err != nil {
		if errors.Is(err, arb.ErrDivisionUndefined) || errors.Is(err, arb.ErrInsufficientData) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	verdict := models.VerdictRecord{
		SnapshotID:     record.ID,
		ReferencePrice: reference,
		NetProfit:      result.NetProfit,
		ROI:            result.ROI,
		LockupDays:     result.LockupDays,
		Qualifies:      result.Qualifies,
		Reasons:        joinReasons(result.Reasons),
	}
	if err := h.db.Create(&verdict).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist verdict: " + err.Error()})
		return
	}

	if h.hub != nil {
		h.hub.BroadcastJSON(verdict)
	}
	if result.Qualifies {
		log.Printf("qualified opportunity: %s net=%.2f roi=%.4f", record.Item, result.NetProfit, result.ROI)
	}

	c.JSON(http.StatusOK, verdict)
}

func (h *APIHandler) ListSnapshots(c *gin.Context) {
	limit := 100
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	query := h.db.Order("timestamp DESC").Limit(limit)
	if item := c.Query("item"); item != "" {
		query = query.Where("item = ?", item)
	}

	var records []models.SnapshotRecord
	if err := query.Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": records, "count": len(records)})
}

func (h *APIHandler) ListVerdicts(c *gin.Context) {
	query := h.db.Preload("Snapshot").Order("created_at DESC").Limit(200)
	if c.Query("qualified") == "true" {
		query = query.Where("qualifies = ?", true)
	}

	var verdicts []models.VerdictRecord
	if err := query.Find(&verdicts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"verdicts": verdicts, "count": len(verdicts)})
}

// ExportReport streams an xlsx workbook with the most recent verdicts.
func (h *APIHandler) ExportReport(c *gin.Context) {
	query := h.db.Preload("Snapshot").Order("created_at DESC").Limit(500)
	if c.Query("qualified") == "true" {
		query = query.Where("qualifies = ?", true)
	}

	var verdicts []models.VerdictRecord
	if err := query.Find(&verdicts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	buf, err := BuildVerdictWorkbook(verdicts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="arbitrage_report.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf)
}

func (h *APIHandler) ListWatchItems(c *gin.Context) {
	var items []models.WatchItem
	if err := h.db.Where("is_active = ?", true).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

type watchRequest struct {
	Name           string  `json:"name" binding:"required"`
	Wear           string  `json:"wear"`
	Category       string  `json:"category"`
	ReferencePrice float64 `json:"reference_price"`
}

func (h *APIHandler) CreateWatchItem(c *gin.Context) {
	var req watchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := parseQuery(snapshotRequest{Item: req.Name, Wear: req.Wear, Category: req.Category}); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := models.WatchItem{
		Name:           req.Name,
		Wear:           req.Wear,
		Category:       req.Category,
		ReferencePrice: req.ReferencePrice,
		IsActive:       true,
	}
	if err := h.db.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *APIHandler) DeleteWatchItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.db.Model(&models.WatchItem{}).Where("id = ?", id).Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

func joinReasons(reasons []arb.Reason) string {
	parts := make([]string, len(reasons))
	for i, r := range reasons {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

func recordFromSnapshot(q arb.ItemQuery, snap *arb.MarketSnapshot, at time.Time) models.SnapshotRecord {
	return models.SnapshotRecord{
		Timestamp:     at,
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
}

func snapshotFromRecord(r *models.SnapshotRecord) *arb.MarketSnapshot {
	return &arb.MarketSnapshot{
		LowestAsk:     r.LowestAsk,
		AskListingID:  r.AskListingID,
		HighestBid:    r.HighestBid,
		HighestBidQty: r.HighestBidQty,
		Vol24h:        r.Vol24h,
		ASP24h:        r.ASP24h,
		Source:        arb.MatchSource(r.Source),
	}
}
