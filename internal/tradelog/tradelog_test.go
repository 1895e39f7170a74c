package tradelog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"trade-reconciler/internal/types"

	"github.com/shopspring/decimal"
)

func fixedJournal(t *testing.T, now time.Time) *Journal {
	t.Helper()
	j := New(t.TempDir())
	j.now = func() time.Time { return now }
	return j
}

func sampleTrade(id string, pnl int64) types.Trade {
	return types.Trade{
		ID:         id,
		Date:       time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		Ticker:     "AAPL",
		AssetClass: types.AssetStock,
		Direction:  types.SideLong,
		Status:     types.StatusClosed,
		EntryPrice: types.Dec(decimal.NewFromInt(10)),
		ExitPrice:  types.Dec(decimal.NewFromInt(15)),
		Quantity:   types.Dec(decimal.NewFromInt(100)),
		PnL:        types.Dec(decimal.NewFromInt(pnl)),
	}
}

func TestAppendAndReadDay(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	j := fixedJournal(t, now)

	p, err := j.Append("fills.csv", []types.Trade{sampleTrade("a", 500), sampleTrade("b", -20)})
	if err != nil {
		t.Fatalf("Expected append to succeed, got %v", err)
	}
	if filepath.Base(p) != "2026-03-04.jsonl" {
		t.Errorf("Expected daily file name, got %s", p)
	}
	if _, err := j.Append("fills.csv", []types.Trade{sampleTrade("c", 1)}); err != nil {
		t.Fatalf("Expected second append to succeed, got %v", err)
	}

	entries, err := j.ReadDay(now)
	if err != nil {
		t.Fatalf("Expected read to succeed, got %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[0].Source != "fills.csv" || entries[0].ID != "a" {
		t.Errorf("Expected first entry a from fills.csv, got %s from %s", entries[0].ID, entries[0].Source)
	}
	if !entries[1].PnL.Equal(decimal.NewFromInt(-20)) {
		t.Errorf("Expected P&L -20, got %v", entries[1].PnL)
	}
}

func TestReadDayMissing(t *testing.T) {
	j := fixedJournal(t, time.Now())
	entries, err := j.ReadDay(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil || entries != nil {
		t.Errorf("Expected empty day, got %v, %v", entries, err)
	}
}

func TestCompressOlder(t *testing.T) {
	day := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	j := fixedJournal(t, day)
	p, err := j.Append("x", []types.Trade{sampleTrade("a", 5)})
	if err != nil {
		t.Fatalf("Expected append to succeed, got %v", err)
	}

	old := day.AddDate(0, 0, -10)
	if err := os.Chtimes(p, old, old); err != nil {
		t.Fatalf("Failed to age file: %v", err)
	}
	if err := j.CompressOlder(7); err != nil {
		t.Fatalf("Expected compress to succeed, got %v", err)
	}

	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Error("Expected plain file removed after compression")
	}
	if _, err := os.Stat(p + ".gz"); err != nil {
		t.Errorf("Expected gz file, got %v", err)
	}

	entries, err := j.ReadDay(day)
	if err != nil {
		t.Fatalf("Expected gz read to succeed, got %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "a" {
		t.Errorf("Expected entry a from gz file, got %v", entries)
	}
}

func TestCompressOlderKeepsRecent(t *testing.T) {
	day := time.Now()
	j := fixedJournal(t, day)
	p, err := j.Append("x", []types.Trade{sampleTrade("a", 5)})
	if err != nil {
		t.Fatalf("Expected append to succeed, got %v", err)
	}
	if err := j.CompressOlder(1); err != nil {
		t.Fatalf("Expected compress to succeed, got %v", err)
	}
	if _, err := os.Stat(p); err != nil {
		t.Errorf("Expected recent file kept, got %v", err)
	}
}
