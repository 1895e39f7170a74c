package httpapi

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"trade-reconciler/internal/cache"
	"trade-reconciler/internal/calc"
	"trade-reconciler/internal/detect"
	"trade-reconciler/internal/ingest"
	"trade-reconciler/internal/instrument"
	"trade-reconciler/internal/logger"
	"trade-reconciler/internal/types"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Handler serves the reconciliation endpoints. cache may be nil.
type Handler struct {
	pipeline   *ingest.Pipeline
	ticks      *instrument.Table
	cache      *cache.Cache
	encoding   string
	sampleRows int
	maxUpload  int64
}

type HandlerOptions struct {
	Encoding   string
	SampleRows int
	MaxUpload  int64
}

func NewHandler(p *ingest.Pipeline, ticks *instrument.Table, c *cache.Cache, opts HandlerOptions) *Handler {
	if opts.Encoding == "" {
		opts.Encoding = "auto"
	}
	if opts.SampleRows < 1 {
		opts.SampleRows = 20
	}
	if opts.MaxUpload < 1 {
		opts.MaxUpload = 20 << 20
	}
	return &Handler{
		pipeline:   p,
		ticks:      ticks,
		cache:      c,
		encoding:   opts.Encoding,
		sampleRows: opts.SampleRows,
		maxUpload:  opts.MaxUpload,
	}
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"code": status, "error": msg})
}

// readBody reads the raw upload, answering 413 when it is too large.
func (h *Handler) readBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, "upload too large")
		} else {
			fail(c, http.StatusBadRequest, "failed to read body")
		}
		return nil, false
	}
	if len(body) == 0 {
		fail(c, http.StatusBadRequest, "empty body")
		return nil, false
	}
	return body, true
}

// formatParam reads ?format=; empty or auto means detect.
func formatParam(c *gin.Context) (types.Format, bool) {
	v := c.Query("format")
	if v == "" || v == "auto" {
		return "", true
	}
	f, ok := types.ParseFormat(v)
	if !ok {
		fail(c, http.StatusBadRequest, "format must be auto, order-based or trade-based")
	}
	return f, ok
}

func (h *Handler) encodingParam(c *gin.Context) string {
	return c.DefaultQuery("encoding", h.encoding)
}

// Detect reports how an upload would be read without normalizing it.
func (h *Handler) Detect(c *gin.Context) {
	body, ok := h.readBody(c)
	if !ok {
		return
	}
	table, err := ingest.ReadTable(bytes.NewReader(body), h.encodingParam(c))
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	sample := table.Rows
	if len(sample) > h.sampleRows {
		sample = sample[:h.sampleRows]
	}
	det := detect.DetectFormat(table.Headers, sample)

	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": gin.H{
			"format":            det.Format,
			"column_map":        det.ColumnMap,
			"sampled_direction": det.SampledDirection,
			"headers":           table.Headers,
			"rows":              len(table.Rows),
		},
	})
}

// Import runs an upload through the full pipeline. Identical uploads are
// answered from the cache until their entry expires.
func (h *Handler) Import(c *gin.Context) {
	body, ok := h.readBody(c)
	if !ok {
		return
	}
	format, ok := formatParam(c)
	if !ok {
		return
	}
	enc := h.encodingParam(c)
	ctx := c.Request.Context()

	source := c.DefaultQuery("source", "upload")
	key := cache.Key(body, []byte(format), []byte(enc), []byte(source))
	if h.cache != nil {
		if v, hit := h.cache.Get(key); hit {
			c.JSON(http.StatusOK, gin.H{"code": 0, "cached": true, "data": v})
			return
		}
	}

	res, err := h.pipeline.RunReader(ctx, source, bytes.NewReader(body), enc, format)
	if err != nil {
		logger.ErrorWithErr(ctx, "Import failed", err)
		fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if h.cache != nil {
		h.cache.Set(key, res, int64(len(body)))
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "cached": false, "data": res})
}

type pnlRequest struct {
	Trade        types.Trade      `json:"trade"`
	CurrentPrice *decimal.Decimal `json:"current_price,omitempty"`
}

// PnL prices one trade. current_price adds an unrealized figure for open trades.
func (h *Handler) PnL(c *gin.Context) {
	var req pnlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	t, known := h.withTicks(req.Trade)

	data := gin.H{"pnl": nil, "rolled_buy_legs": calc.RolledBuyLegs(t)}
	if known {
		data["pnl"] = calc.CalcPnL(t)
		if req.CurrentPrice != nil {
			data["unrealized_pnl"] = calc.UnrealizedPnL(t, *req.CurrentPrice)
		}
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "data": data})
}

// RiskReward bounds one trade's risk and reward.
func (h *Handler) RiskReward(c *gin.Context) {
	var t types.Trade
	if err := c.ShouldBindJSON(&t); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	t, known := h.withTicks(t)

	var rr *types.RiskReward
	if known {
		rr = calc.CalcRiskReward(t)
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "data": rr})
}

// withTicks fills tick info for futures that arrive without it. known is
// false for a futures symbol nobody has tick values for.
func (h *Handler) withTicks(t types.Trade) (types.Trade, bool) {
	if t.AssetClass != types.AssetFutures || (t.TickSize != nil && t.TickValue != nil) {
		return t, true
	}
	info, ok := h.ticks.Lookup(t.Ticker)
	if !ok {
		return t, false
	}
	t.TickSize = types.Dec(info.Tick)
	t.TickValue = types.Dec(info.Value)
	return t, true
}
