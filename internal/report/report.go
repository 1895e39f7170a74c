package report

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"trade-reconciler/internal/interfaces"
	"trade-reconciler/internal/types"

	"github.com/shopspring/decimal"
)

// Row aggregates the closed trades of one symbol.
type Row struct {
	Symbol   string          `json:"symbol"`
	Trades   int             `json:"trades"`
	Wins     int             `json:"wins"`
	Losses   int             `json:"losses"`
	Unpriced int             `json:"unpriced"` // closed trades whose P&L could not be computed
	Quantity decimal.Decimal `json:"quantity"`
	Fees     decimal.Decimal `json:"fees"`
	PnL      decimal.Decimal `json:"pnl"`
}

var headers = []string{"symbol", "trades", "wins", "losses", "unpriced", "quantity", "fees", "realized_pnl"}

// Summarize groups closed trades per symbol, sorted by symbol. Open trades are ignored.
func Summarize(trades []types.Trade) []Row {
	aggs := map[string]*Row{}
	for _, t := range trades {
		if t.Status != types.StatusClosed {
			continue
		}
		r := aggs[t.Ticker]
		if r == nil {
			r = &Row{Symbol: t.Ticker}
			aggs[t.Ticker] = r
		}
		r.Trades++
		if t.Quantity != nil {
			r.Quantity = r.Quantity.Add(*t.Quantity)
		}
		r.Fees = r.Fees.Add(t.Fees)
		switch {
		case t.PnL == nil:
			r.Unpriced++
		case t.PnL.IsPositive():
			r.Wins++
			r.PnL = r.PnL.Add(*t.PnL)
		default:
			if t.PnL.IsNegative() {
				r.Losses++
			}
			r.PnL = r.PnL.Add(*t.PnL)
		}
	}

	keys := make([]string, 0, len(aggs))
	for k := range aggs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]Row, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, *aggs[k])
	}
	return rows
}

// Total adds up rows into one TOTAL row.
func Total(rows []Row) Row {
	total := Row{Symbol: "TOTAL"}
	for _, r := range rows {
		total.Trades += r.Trades
		total.Wins += r.Wins
		total.Losses += r.Losses
		total.Unpriced += r.Unpriced
		total.Quantity = total.Quantity.Add(r.Quantity)
		total.Fees = total.Fees.Add(r.Fees)
		total.PnL = total.PnL.Add(r.PnL)
	}
	return total
}

// WriteCSV writes rows followed by a TOTAL row.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(record(r)); err != nil {
			return err
		}
	}
	if err := cw.Write(record(Total(rows))); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func record(r Row) []string {
	return []string{
		r.Symbol,
		strconv.Itoa(r.Trades),
		strconv.Itoa(r.Wins),
		strconv.Itoa(r.Losses),
		strconv.Itoa(r.Unpriced),
		r.Quantity.String(),
		r.Fees.StringFixed(2),
		r.PnL.StringFixed(2),
	}
}

type summarizer struct {
	dir string
}

var _ interfaces.Summarizer = (*summarizer)(nil)

// NewSummarizer writes summary files under dir.
func NewSummarizer(dir string) interfaces.Summarizer {
	return &summarizer{dir: dir}
}

// WriteSummary writes name.csv under the summarizer's directory. With no
// closed trades nothing is written and the path is empty.
func (s *summarizer) WriteSummary(_ context.Context, name string, trades []types.Trade) (string, error) {
	rows := Summarize(trades)
	if len(rows) == 0 {
		return "", nil
	}

	outPath := filepath.Join(s.dir, "summary", name+".csv")
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if err := WriteCSV(out, rows); err != nil {
		return "", err
	}
	return outPath, nil
}
