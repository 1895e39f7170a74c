package instrument

import (
	"testing"

	"trade-reconciler/internal/types"

	"github.com/shopspring/decimal"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		symbol string
		desc   string
		want   types.AssetClass
	}{
		{"AAPL", "", types.AssetStock},
		{"MESH6", "", types.AssetFutures},
		{"/ESZ24", "", types.AssetFutures},
		{"ES", "", types.AssetFutures},
		{"6EM5", "", types.AssetFutures},
		{"AAPL240119C00150000", "", types.AssetOptions},
		{"AAPL  240119P00150000", "", types.AssetOptions},
		{"SPY", "SPY Jan 19 450 Call", types.AssetOptions},
		{"TSLA", "Tesla puts", types.AssetOptions},
		{"MSFT", "Microsoft common stock", types.AssetStock},
		{"HES", "", types.AssetStock},
	}

	for _, tt := range tests {
		got := Classify(tt.symbol, tt.desc)
		if got != tt.want {
			t.Errorf("Classify(%q, %q): expected %s, got %s", tt.symbol, tt.desc, tt.want, got)
		}
	}
}

func TestResolveFuturesBase(t *testing.T) {
	tests := map[string]string{
		"MESH6":  "MES",
		"ESH6":   "ES",
		"NQZ24":  "NQ",
		"SILK5":  "SIL",
		"SIK5":   "SI",
		"M2KU5":  "M2K",
		"/CLF26": "CL",
		"nkd":    "NKD",
	}
	for in, want := range tests {
		got, ok := ResolveFuturesBase(in)
		if !ok {
			t.Errorf("ResolveFuturesBase(%q): expected ok", in)
			continue
		}
		if got != want {
			t.Errorf("ResolveFuturesBase(%q): expected %s, got %s", in, want, got)
		}
	}

	if _, ok := ResolveFuturesBase("AAPL"); ok {
		t.Error("Expected AAPL not to resolve to a futures base")
	}
}

func TestTableLookup(t *testing.T) {
	tbl := NewTable(map[string]TickInfo{
		"XYZ": {Tick: decimal.RequireFromString("0.5"), Value: decimal.RequireFromString("2")},
	})

	info, ok := tbl.Lookup("MESH6")
	if !ok {
		t.Fatal("Expected MESH6 to be found")
	}
	if !info.Value.Equal(decimal.RequireFromString("1.25")) {
		t.Errorf("Expected MES tick value 1.25, got %s", info.Value)
	}

	info, ok = tbl.Lookup("xyz")
	if !ok || !info.Tick.Equal(decimal.RequireFromString("0.5")) {
		t.Errorf("Expected override for XYZ, got %+v ok=%v", info, ok)
	}

	if _, ok := tbl.Lookup("QQQQ"); ok {
		t.Error("Expected unknown contract to be missing")
	}

	tbl = NewTable(map[string]TickInfo{
		"es": {Tick: decimal.RequireFromString("0.25"), Value: decimal.RequireFromString("50")},
	})
	info, _ = tbl.Lookup("ESH6")
	if !info.Value.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Expected override to win over built-in table, got %s", info.Value)
	}

	var nilTable *Table
	if _, ok := nilTable.Lookup("ES"); !ok {
		t.Error("Expected nil table to fall back to built-in ticks")
	}
}

func TestParseOptionSymbol(t *testing.T) {
	c, ok := ParseOptionSymbol("AAPL  240119C00150000")
	if !ok {
		t.Fatal("Expected OCC symbol to parse")
	}
	if c.Root != "AAPL" || c.Type != types.OptionCall || !c.Strike.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Unexpected contract %+v", c)
	}
	if c.Expiry.Year() != 2024 || c.Expiry.Month() != 1 || c.Expiry.Day() != 19 {
		t.Errorf("Expected expiry 2024-01-19, got %s", c.Expiry)
	}

	c, ok = ParseOptionSymbol("SPY240119P450")
	if !ok || c.Type != types.OptionPut || !c.Strike.Equal(decimal.NewFromInt(450)) {
		t.Errorf("Expected SPY 450 put, got %+v ok=%v", c, ok)
	}

	if _, ok := ParseOptionSymbol("AAPL"); ok {
		t.Error("Expected plain ticker not to parse as option")
	}
}
