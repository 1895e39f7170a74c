package normalize

import (
	"strconv"
	"strings"
	"time"

	"trade-reconciler/internal/calc"
	"trade-reconciler/internal/instrument"
	"trade-reconciler/internal/types"
)

// Record is the outcome of normalizing one row: a Fill for order-based
// sources, a Trade for trade-based ones.
type Record struct {
	Fill  *types.Fill
	Trade *types.Trade
}

// Normalizer turns raw rows into typed records. It holds no per-row state.
type Normalizer struct {
	ticks *instrument.Table
	now   func() time.Time
}

type Option func(*Normalizer)

// WithClock sets the clock used when a date cell cannot be parsed.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) { n.now = now }
}

// New builds a Normalizer. ticks may be nil, in which case only the built-in
// futures table is consulted.
func New(ticks *instrument.Table, opts ...Option) *Normalizer {
	n := &Normalizer{ticks: ticks, now: time.Now}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NormalizeRow converts one row. A non-empty DropReason means the row was left out.
func (n *Normalizer) NormalizeRow(row []string, cm types.ColumnMap, format types.Format, rowIndex int) (Record, types.DropReason) {
	if isBlank(row) {
		return Record{}, types.DropEmptyRow
	}
	if IsInactiveStatus(cm.Cell(row, types.FieldStatus)) {
		return Record{}, types.DropStatus
	}
	ticker := strings.ToUpper(cm.Cell(row, types.FieldTicker))
	if ticker == "" {
		return Record{}, types.DropNoTicker
	}

	if format == types.FormatOrderBased {
		f, reason := n.fill(row, cm, ticker, rowIndex)
		if reason != types.DropNone {
			return Record{}, reason
		}
		return Record{Fill: f}, types.DropNone
	}

	t, reason := n.trade(row, cm, ticker, rowIndex)
	if reason != types.DropNone {
		return Record{}, reason
	}
	return Record{Trade: t}, types.DropNone
}

// Batch is every usable record of a table plus the import counts.
type Batch struct {
	Fills  []types.Fill
	Trades []types.Trade
	Stats  types.ImportStats
}

// NormalizeRows runs NormalizeRow over rows. A bad row never aborts the batch.
func (n *Normalizer) NormalizeRows(rows [][]string, cm types.ColumnMap, format types.Format) Batch {
	b := Batch{Stats: types.ImportStats{Dropped: map[types.DropReason]int{}}}
	for i, row := range rows {
		b.Stats.RowsSeen++
		rec, reason := n.NormalizeRow(row, cm, format, i)
		if reason != types.DropNone {
			b.Stats.Dropped[reason]++
			continue
		}
		b.Stats.RowsUsed++
		if rec.Fill != nil {
			b.Fills = append(b.Fills, *rec.Fill)
		}
		if rec.Trade != nil {
			b.Trades = append(b.Trades, *rec.Trade)
		}
	}
	return b
}

func (n *Normalizer) fill(row []string, cm types.ColumnMap, ticker string, rowIndex int) (*types.Fill, types.DropReason) {
	priceCell := cm.Cell(row, types.FieldEntryPrice)
	if priceCell == "" {
		priceCell = cm.Cell(row, types.FieldExitPrice)
	}
	price, ok := CleanNumber(priceCell)
	if !ok || !price.IsPositive() {
		return nil, types.DropBadPrice
	}

	qty, ok := CleanNumber(cm.Cell(row, types.FieldQuantity))
	if !ok {
		return nil, types.DropBadQty
	}

	dirCell := cm.Cell(row, types.FieldDirection)
	side, known := ParseDirection(dirCell)
	// signed quantities carry the side when the export has no side column
	if qty.IsNegative() {
		qty = qty.Abs()
		if !known {
			side = types.SideShort
		}
	}
	if !qty.IsPositive() {
		return nil, types.DropBadQty
	}

	date, clock := n.date(cm.Cell(row, types.FieldDate))
	if c := ParseClock(firstNonEmpty(cm.Cell(row, types.FieldTime), cm.Cell(row, types.FieldEntryTime))); c != "" {
		clock = c
	}

	desc := firstNonEmpty(cm.Cell(row, types.FieldName), cm.Cell(row, types.FieldNotes))
	f := &types.Fill{
		Symbol:      ticker,
		Side:        side,
		Price:       price,
		Quantity:    qty,
		Date:        date,
		Time:        clock,
		AssetClass:  n.assetClass(cm.Cell(row, types.FieldAssetType), ticker, desc),
		Description: desc,
		Account:     cm.Cell(row, types.FieldAccount),
		Row:         rowIndex,
	}
	if fees, ok := CleanNumber(cm.Cell(row, types.FieldFees)); ok {
		f.Fees = fees.Abs()
	}
	return f, types.DropNone
}

func (n *Normalizer) trade(row []string, cm types.ColumnMap, ticker string, rowIndex int) (*types.Trade, types.DropReason) {
	entry, ok := CleanNumber(cm.Cell(row, types.FieldEntryPrice))
	if !ok || !entry.IsPositive() {
		return nil, types.DropBadPrice
	}
	qty, ok := CleanNumber(cm.Cell(row, types.FieldQuantity))
	if !ok {
		return nil, types.DropBadQty
	}
	qty = qty.Abs()
	if !qty.IsPositive() {
		return nil, types.DropBadQty
	}

	side, _ := ParseDirection(cm.Cell(row, types.FieldDirection))
	date, clock := n.date(cm.Cell(row, types.FieldDate))
	if c := ParseClock(cm.Cell(row, types.FieldEntryTime)); c != "" {
		clock = c
	}

	desc := firstNonEmpty(cm.Cell(row, types.FieldName), cm.Cell(row, types.FieldNotes))
	t := &types.Trade{
		Date:       date,
		EntryTime:  clock,
		Ticker:     ticker,
		AssetClass: n.assetClass(cm.Cell(row, types.FieldAssetType), ticker, desc),
		Direction:  side,
		Status:     types.StatusOpen,
		EntryPrice: types.Dec(entry),
		Quantity:   types.Dec(qty),
		StopLoss:   OptionalNumber(cm.Cell(row, types.FieldStopLoss)),
		TakeProfit: OptionalNumber(cm.Cell(row, types.FieldTakeProfit)),
		Setup:      cm.Cell(row, types.FieldStrategy),
		Notes:      cm.Cell(row, types.FieldNotes),
		Account:    cm.Cell(row, types.FieldAccount),
		Grade:      cm.Cell(row, types.FieldGrade),
		Name:       cm.Cell(row, types.FieldName),
	}
	if fees, ok := CleanNumber(cm.Cell(row, types.FieldFees)); ok {
		t.Fees = fees.Abs()
	}

	if exit, ok := CleanNumber(cm.Cell(row, types.FieldExitPrice)); ok && !exit.IsNegative() {
		t.ExitPrice = types.Dec(exit)
		t.Status = types.StatusClosed
		exitDate := date
		if cell := cm.Cell(row, types.FieldExitDate); cell != "" {
			exitDate, _ = n.date(cell)
		}
		t.ExitDate = &exitDate
		t.ExitTime = ParseClock(cm.Cell(row, types.FieldExitTime))
	}

	ticksKnown := true
	switch t.AssetClass {
	case types.AssetFutures:
		info, ok := n.ticks.Lookup(ticker)
		if ok {
			t.TickSize = types.Dec(info.Tick)
			t.TickValue = types.Dec(info.Value)
		}
		ticksKnown = ok
	case types.AssetOptions:
		t.Strategy = types.StrategySingleLeg
		if s := cm.Cell(row, types.FieldOptionsStrategyType); s != "" {
			t.Strategy = types.ParseStrategy(s)
		}
		t.Legs = []types.Leg{instrument.SingleLeg(ticker, desc, side, qty, types.CloneDec(t.EntryPrice), types.CloneDec(t.ExitPrice))}
	}

	t.ID = types.NewTradeID("row", strconv.Itoa(rowIndex), ticker, t.Date.Format("2006-01-02"), entry.String(), qty.String())

	if pnl, ok := CleanNumber(cm.Cell(row, types.FieldPnL)); ok {
		t.PnL = types.Dec(pnl.Round(2))
	} else if t.Status == types.StatusClosed && ticksKnown {
		t.PnL = calc.CalcPnL(*t)
	}
	return t, types.DropNone
}

func (n *Normalizer) date(cell string) (time.Time, string) {
	d, clock, _ := ParseDate(cell, n.now())
	return d, clock
}

func (n *Normalizer) assetClass(assetCell, ticker, desc string) types.AssetClass {
	if ac, ok := types.ParseAssetClass(assetCell); ok {
		return ac
	}
	return instrument.Classify(ticker, desc)
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
