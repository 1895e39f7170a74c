package engine

import (
	"time"

	"trade-reconciler/internal/types"

	"github.com/shopspring/decimal"
)

// openLot is the not-yet-closed remainder of one fill.
type openLot struct {
	fill      *types.Fill     // source fill, never modified
	seq       int             // position in the symbol's sorted order
	side      types.Side      // side that opened the lot
	remaining decimal.Decimal // quantity still open
}

// date and clock of the fill that opened the lot.
func (l *openLot) opened() (time.Time, string) {
	return l.fill.Date, l.fill.Time
}

// feeShare pro-rates the source fill's fees onto qty units.
func (l *openLot) feeShare(qty decimal.Decimal) decimal.Decimal {
	return proRate(l.fill, qty)
}

func proRate(f *types.Fill, qty decimal.Decimal) decimal.Decimal {
	if f.Fees.IsZero() || f.Quantity.IsZero() {
		return decimal.Zero
	}
	if qty.Equal(f.Quantity) {
		return f.Fees
	}
	return f.Fees.Mul(qty).Div(f.Quantity)
}

// lotQueue is a FIFO of open lots for a single symbol. It lives only for the
// duration of one matching pass and is never shared.
type lotQueue struct {
	lots []*openLot
	head int
}

func (q *lotQueue) empty() bool {
	return q.head >= len(q.lots)
}

// front returns the oldest open lot. Callers check empty first.
func (q *lotQueue) front() *openLot {
	return q.lots[q.head]
}

func (q *lotQueue) push(l *openLot) {
	q.lots = append(q.lots, l)
}

// pop drops the oldest lot once it is fully consumed.
func (q *lotQueue) pop() {
	q.lots[q.head] = nil
	q.head++
}

// rest returns the lots still open, oldest first.
func (q *lotQueue) rest() []*openLot {
	return q.lots[q.head:]
}
