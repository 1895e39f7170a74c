package zerodha

import (
	"context"
	"errors"
	"testing"
	"time"

	"trade-reconciler/internal/detect"
	"trade-reconciler/internal/types"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"
	"github.com/zerodha/gokiteconnect/v4/models"
)

type fakeTrades struct {
	trades kiteconnect.Trades
	err    error
}

func (f fakeTrades) GetTrades() (kiteconnect.Trades, error) { return f.trades, f.err }

func kiteTrade(id, side string, qty, price float64, at time.Time) kiteconnect.Trade {
	return kiteconnect.Trade{
		TradeID:         id,
		OrderID:         "O" + id,
		TradingSymbol:   "INFY",
		Exchange:        "NSE",
		TransactionType: side,
		Quantity:        qty,
		AveragePrice:    price,
		FillTimestamp:   models.Time{Time: at},
	}
}

func TestNewTradebookRequiresCredentials(t *testing.T) {
	if _, err := NewTradebook("", "token"); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("Expected ErrMissingCredentials, got %v", err)
	}
}

func TestTradebookFetch(t *testing.T) {
	at := time.Date(2026, 2, 3, 4, 0, 0, 0, time.UTC) // 09:30 IST
	tb := newTradebook(fakeTrades{trades: kiteconnect.Trades{
		kiteTrade("2", "SELL", 10, 1510.5, at.Add(time.Hour)),
		kiteTrade("1", "BUY", 10, 1500, at),
	}})

	table, err := tb.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Expected table, got %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(table.Rows))
	}
	first := table.Rows[0]
	if first[0] != "2026-02-03" || first[1] != "09:30:00" || first[3] != "BUY" {
		t.Errorf("Expected oldest BUY at 09:30 IST first, got %v", first)
	}
	if table.Rows[1][5] != "1510.5" {
		t.Errorf("Expected price 1510.5, got %s", table.Rows[1][5])
	}

	det := detect.DetectFormat(table.Headers, table.Rows)
	if det.Format != types.FormatOrderBased {
		t.Errorf("Expected tradebook to detect as order-based, got %s", det.Format)
	}
	for _, k := range []types.FieldKey{types.FieldDate, types.FieldTicker, types.FieldDirection, types.FieldQuantity, types.FieldEntryPrice} {
		if !det.ColumnMap.Has(k) {
			t.Errorf("Expected %s to be mapped", k)
		}
	}
}

func TestTradebookFetchErrors(t *testing.T) {
	boom := errors.New("token expired")
	if _, err := newTradebook(fakeTrades{err: boom}).Fetch(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Expected client error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newTradebook(fakeTrades{}).Fetch(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
