package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"trade-reconciler/internal/cache"
	"trade-reconciler/internal/engine"
	"trade-reconciler/internal/ingest"
	"trade-reconciler/internal/instrument"
	"trade-reconciler/internal/normalize"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const fillsCSV = `Date,Symbol,Side,Qty,Price
01/02/2026,AAPL,Buy,100,10
01/03/2026,AAPL,Sell,100,15
`

type envelope struct {
	Code   int             `json:"code"`
	Cached bool            `json:"cached"`
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T, c *cache.Cache, maxUpload int64) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ticks := instrument.NewTable(nil)
	p := ingest.NewPipeline(normalize.New(ticks), engine.New(ticks), 2, 20)
	h := NewHandler(p, ticks, c, HandlerOptions{MaxUpload: maxUpload})
	return NewServer(h, ServerConfig{Addr: ":0", ShutdownTimeout: time.Second}).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("Expected JSON response, got %q", rec.Body.String())
	}
	return rec, env
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t, nil, 0).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("Expected 200 ok, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestDetect(t *testing.T) {
	rec, env := do(t, newTestServer(t, nil, 0), http.MethodPost, "/api/detect", fillsCSV)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, env.Error)
	}
	var data struct {
		Format string         `json:"format"`
		Map    map[string]int `json:"column_map"`
		Rows   int            `json:"rows"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("Failed to decode data: %v", err)
	}
	if data.Format != "order-based" || data.Rows != 2 {
		t.Errorf("Expected order-based with 2 rows, got %s %d", data.Format, data.Rows)
	}
	if data.Map["ticker"] != 1 {
		t.Errorf("Expected ticker at column 1, got %v", data.Map)
	}
}

func TestImportCaches(t *testing.T) {
	c, err := cache.New(1<<20, time.Minute)
	if err != nil {
		t.Fatalf("Expected cache, got %v", err)
	}
	defer c.Close()
	srv := newTestServer(t, c, 0)

	rec, env := do(t, srv, http.MethodPost, "/api/import", fillsCSV)
	if rec.Code != http.StatusOK || env.Cached {
		t.Fatalf("Expected uncached 200, got %d cached=%v: %s", rec.Code, env.Cached, env.Error)
	}
	var data struct {
		Closed []struct {
			Ticker string          `json:"ticker"`
			PnL    decimal.Decimal `json:"pnl"`
		} `json:"closed"`
		Open []json.RawMessage `json:"open"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("Failed to decode data: %v", err)
	}
	if len(data.Closed) != 1 || !data.Closed[0].PnL.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected one closed AAPL trade worth 500, got %+v", data.Closed)
	}

	c.Wait()
	_, env = do(t, srv, http.MethodPost, "/api/import", fillsCSV)
	if !env.Cached {
		t.Error("Expected second identical import to be cached")
	}

	_, env = do(t, srv, http.MethodPost, "/api/import?format=trade-based", fillsCSV)
	if env.Cached {
		t.Error("Expected a different format to miss the cache")
	}

	_, env = do(t, srv, http.MethodPost, "/api/import?source=march.csv", fillsCSV)
	if env.Cached {
		t.Fatal("Expected a different source to miss the cache")
	}
	var named struct {
		Source string `json:"source"`
	}
	if err := json.Unmarshal(env.Data, &named); err != nil {
		t.Fatalf("Failed to decode data: %v", err)
	}
	if named.Source != "march.csv" {
		t.Errorf("Expected source march.csv, got %q", named.Source)
	}
}

func TestImportBadRequests(t *testing.T) {
	srv := newTestServer(t, nil, 64)
	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"empty body", "/api/import", "", http.StatusBadRequest},
		{"bad format", "/api/import?format=xml", fillsCSV[:40], http.StatusBadRequest},
		{"too large", "/api/import", fillsCSV + strings.Repeat("x", 100), http.StatusRequestEntityTooLarge},
		{"bad encoding", "/api/import?encoding=ebcdic", "a,b", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, srv, http.MethodPost, tt.path, tt.body)
			if rec.Code != tt.want {
				t.Errorf("Expected %d, got %d (%s)", tt.want, rec.Code, env.Error)
			}
		})
	}
}

func TestPnL(t *testing.T) {
	srv := newTestServer(t, nil, 0)
	body := `{"trade":{"ticker":"AAPL","asset_class":"stock","direction":"short","status":"closed",
		"entry_price":"15","exit_price":"10","quantity":"100"}}`
	rec, env := do(t, srv, http.MethodPost, "/api/pnl", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, env.Error)
	}
	var data struct {
		PnL *decimal.Decimal `json:"pnl"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("Failed to decode data: %v", err)
	}
	if data.PnL == nil || !data.PnL.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected short P&L 500, got %v", data.PnL)
	}
}

func TestPnLFuturesTicks(t *testing.T) {
	srv := newTestServer(t, nil, 0)
	var data struct {
		PnL *decimal.Decimal `json:"pnl"`
	}

	known := `{"trade":{"ticker":"ESH6","asset_class":"futures","direction":"long","status":"closed",
		"entry_price":"5000","exit_price":"5004","quantity":"1"}}`
	_, env := do(t, srv, http.MethodPost, "/api/pnl", known)
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("Failed to decode data: %v", err)
	}
	if data.PnL == nil || !data.PnL.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Expected ES 16 ticks worth 200, got %v", data.PnL)
	}

	unknown := `{"trade":{"ticker":"ZZZH6","asset_class":"futures","direction":"long","status":"closed",
		"entry_price":"1","exit_price":"2","quantity":"1"}}`
	data.PnL = nil
	_, env = do(t, srv, http.MethodPost, "/api/pnl", unknown)
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("Failed to decode data: %v", err)
	}
	if data.PnL != nil {
		t.Errorf("Expected nil P&L for unknown contract, got %v", data.PnL)
	}
}

func TestRiskReward(t *testing.T) {
	srv := newTestServer(t, nil, 0)
	body := `{"ticker":"AAPL","asset_class":"stock","direction":"long",
		"entry_price":"10","stop_loss":"8","take_profit":"16","quantity":"100"}`
	rec, env := do(t, srv, http.MethodPost, "/api/risk-reward", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, env.Error)
	}
	var rr struct {
		MaxRisk   *decimal.Decimal `json:"max_risk"`
		MaxReward *decimal.Decimal `json:"max_reward"`
		Ratio     *decimal.Decimal `json:"ratio"`
	}
	if err := json.Unmarshal(env.Data, &rr); err != nil {
		t.Fatalf("Failed to decode data: %v", err)
	}
	if !rr.MaxRisk.Equal(decimal.NewFromInt(200)) || !rr.MaxReward.Equal(decimal.NewFromInt(600)) {
		t.Errorf("Expected 200/600, got %v/%v", rr.MaxRisk, rr.MaxReward)
	}
	if !rr.Ratio.Equal(decimal.NewFromInt(3)) {
		t.Errorf("Expected ratio 3, got %v", rr.Ratio)
	}

	rec, _ = do(t, srv, http.MethodPost, "/api/risk-reward", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad JSON, got %d", rec.Code)
	}
}
