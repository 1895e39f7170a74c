package engine

import (
	"sort"
	"strconv"

	"trade-reconciler/internal/calc"
	"trade-reconciler/internal/instrument"
	"trade-reconciler/internal/types"

	"github.com/shopspring/decimal"
)

// matcher reconstructs round-trip trades from fills, first in first out.
// It keeps no state between calls.
type matcher struct {
	ticks *instrument.Table
}

func newMatcher(ticks *instrument.Table) *matcher {
	return &matcher{ticks: ticks}
}

// PairFills matches fills with the built-in futures tick table.
func PairFills(fills []types.Fill) types.MatchResult {
	return newMatcher(nil).pairFills(fills)
}

func (m *matcher) pairFills(fills []types.Fill) types.MatchResult {
	symbols, groups := GroupBySymbol(fills)
	parts := make([]types.MatchResult, 0, len(symbols))
	for _, sym := range symbols {
		parts = append(parts, m.pairSymbol(groups[sym]))
	}
	return MergeResults(parts)
}

// GroupBySymbol splits fills per symbol, keeping input order inside each
// group. symbols lists each symbol once, in order of first appearance.
func GroupBySymbol(fills []types.Fill) (symbols []string, groups map[string][]types.Fill) {
	groups = make(map[string][]types.Fill)
	for _, f := range fills {
		if _, seen := groups[f.Symbol]; !seen {
			symbols = append(symbols, f.Symbol)
		}
		groups[f.Symbol] = append(groups[f.Symbol], f)
	}
	return symbols, groups
}

// MergeResults concatenates per-symbol results and orders closed and open
// trades by date, newest first. Ties keep their concatenated order.
func MergeResults(parts []types.MatchResult) types.MatchResult {
	var out types.MatchResult
	for _, p := range parts {
		out.Closed = append(out.Closed, p.Closed...)
		out.Open = append(out.Open, p.Open...)
	}
	sortNewestFirst(out.Closed)
	sortNewestFirst(out.Open)
	return out
}

func sortNewestFirst(trades []types.Trade) {
	sort.SliceStable(trades, func(i, j int) bool {
		if !trades[i].Date.Equal(trades[j].Date) {
			return trades[i].Date.After(trades[j].Date)
		}
		return trades[i].EntryTime > trades[j].EntryTime
	})
}

// pairSymbol runs the FIFO pass over one symbol's fills.
func (m *matcher) pairSymbol(fills []types.Fill) types.MatchResult {
	ordered := chronological(fills)

	var (
		q      lotQueue
		result types.MatchResult
	)
	for seq := range ordered {
		f := &ordered[seq]
		remaining := f.Quantity

		if q.empty() || q.front().side == f.Side {
			q.push(&openLot{fill: f, seq: seq, side: f.Side, remaining: remaining})
			continue
		}

		for remaining.IsPositive() && !q.empty() && q.front().side != f.Side {
			head := q.front()
			qty := decimal.Min(remaining, head.remaining)

			result.Closed = append(result.Closed, m.closedTrade(head, f, seq, qty))

			head.remaining = head.remaining.Sub(qty)
			remaining = remaining.Sub(qty)
			if !head.remaining.IsPositive() {
				q.pop()
			}
		}

		// the fill outlived the opposite side and now opens a position the other way
		if remaining.IsPositive() {
			q.push(&openLot{fill: f, seq: seq, side: f.Side, remaining: remaining})
		}
	}

	for _, lot := range q.rest() {
		result.Open = append(result.Open, m.openTrade(lot))
	}
	return result
}

// chronological returns a copy of fills ordered by date, then time of day.
// Fills without a time sort as start of day; ties keep input order.
func chronological(fills []types.Fill) []types.Fill {
	ordered := make([]types.Fill, len(fills))
	copy(ordered, fills)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Date.Before(ordered[j].Date)
		}
		return ordered[i].Time < ordered[j].Time
	})
	return ordered
}

func (m *matcher) closedTrade(head *openLot, exit *types.Fill, exitSeq int, qty decimal.Decimal) types.Trade {
	entry := head.fill
	entryDate, entryTime := head.opened()
	exitDate := exit.Date

	t := types.Trade{
		ID:         types.NewTradeID(entry.Symbol, "closed", strconv.Itoa(head.seq), strconv.Itoa(exitSeq), qty.String()),
		Date:       entryDate,
		EntryTime:  entryTime,
		ExitDate:   &exitDate,
		ExitTime:   exit.Time,
		Ticker:     entry.Symbol,
		AssetClass: entry.AssetClass,
		Direction:  head.side,
		Status:     types.StatusClosed,
		EntryPrice: types.Dec(entry.Price),
		ExitPrice:  types.Dec(exit.Price),
		Quantity:   types.Dec(qty),
		Fees:       head.feeShare(qty).Add(proRate(exit, qty)),
		Account:    entry.Account,
		Name:       entry.Description,
	}
	m.price(&t)
	return t
}

func (m *matcher) openTrade(lot *openLot) types.Trade {
	entry := lot.fill
	date, clock := lot.opened()

	t := types.Trade{
		ID:         types.NewTradeID(entry.Symbol, "open", strconv.Itoa(lot.seq), lot.remaining.String()),
		Date:       date,
		EntryTime:  clock,
		Ticker:     entry.Symbol,
		AssetClass: entry.AssetClass,
		Direction:  lot.side,
		Status:     types.StatusOpen,
		EntryPrice: types.Dec(entry.Price),
		Quantity:   types.Dec(lot.remaining),
		Fees:       lot.feeShare(lot.remaining),
		Account:    entry.Account,
		Name:       entry.Description,
	}
	m.price(&t)
	return t
}

// price fills in the asset-specific shape and, for closed trades, realized P&L.
// Futures without known tick info keep a nil P&L.
func (m *matcher) price(t *types.Trade) {
	ticksKnown := true
	switch t.AssetClass {
	case types.AssetFutures:
		info, ok := m.ticks.Lookup(t.Ticker)
		if ok {
			t.TickSize = types.Dec(info.Tick)
			t.TickValue = types.Dec(info.Value)
		}
		ticksKnown = ok
	case types.AssetOptions:
		t.Strategy = types.StrategySingleLeg
		t.Legs = []types.Leg{instrument.SingleLeg(t.Ticker, t.Name, t.Direction, *t.Quantity, types.CloneDec(t.EntryPrice), types.CloneDec(t.ExitPrice))}
	}

	if t.Status == types.StatusClosed && ticksKnown {
		t.PnL = calc.CalcPnL(*t)
	}
}
