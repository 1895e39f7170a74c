package calc

import (
	"sort"

	"trade-reconciler/internal/types"

	"github.com/shopspring/decimal"
)

// CalcRiskReward returns max risk, max reward and their ratio. A nil bound is
// unbounded or unknown; it never reads as zero. The whole result is nil when
// the trade cannot be sized at all (no entry/quantity, or no leg premiums).
func CalcRiskReward(t types.Trade) *types.RiskReward {
	if isOptions(t) {
		return optionsRiskReward(t)
	}
	return priceRiskReward(t)
}

func priceRiskReward(t types.Trade) *types.RiskReward {
	if t.EntryPrice == nil || t.Quantity == nil {
		return nil
	}
	// Futures distances are converted to ticks before the tick value applies.
	worth := func(distance decimal.Decimal) decimal.Decimal { return distance }
	if t.AssetClass == types.AssetFutures {
		size, value := tickOrDefault(t)
		worth = func(distance decimal.Decimal) decimal.Decimal { return distance.Div(size).Mul(value) }
	}

	bound := func(level *decimal.Decimal) *decimal.Decimal {
		if level == nil {
			return nil
		}
		v := worth(t.EntryPrice.Sub(*level).Abs()).Mul(*t.Quantity).Round(2)
		return &v
	}

	rr := &types.RiskReward{
		MaxRisk:   bound(t.StopLoss),
		MaxReward: bound(t.TakeProfit),
	}
	rr.Ratio = ratio(rr.MaxRisk, rr.MaxReward)
	return rr
}

// optionBook is what every strategy handler works from.
type optionBook struct {
	net          decimal.Decimal
	strikes      []decimal.Decimal // sorted, duplicates kept
	minContracts decimal.Decimal
	allHaveEntry bool
}

type strategyHandler func(b optionBook) (risk, reward *decimal.Decimal)

var strategyHandlers = map[types.StrategyType]strategyHandler{
	types.StrategySingleLeg:        singleLegBounds,
	types.StrategyVerticalSpread:   verticalBounds,
	types.StrategyButterfly:        verticalBounds,
	types.StrategyIronCondor:       ironBounds,
	types.StrategyIronButterfly:    ironBounds,
	types.StrategyCondor:           condorBounds,
	types.StrategyStraddleStrangle: straddleBounds,
}

func optionsRiskReward(t types.Trade) *types.RiskReward {
	b, ok := bookOf(t.Legs)
	if !ok {
		return nil
	}

	handler, known := strategyHandlers[t.Strategy]
	if !known {
		handler = fallbackBounds
	}
	risk, reward := handler(b)

	net := b.net.Round(2)
	return &types.RiskReward{
		MaxRisk:    round2(risk),
		MaxReward:  round2(reward),
		Ratio:      ratio(risk, reward),
		NetPremium: &net,
	}
}

func bookOf(legs []types.Leg) (optionBook, bool) {
	b := optionBook{allHaveEntry: len(legs) > 0}
	priced := 0
	for i, leg := range legs {
		b.strikes = append(b.strikes, leg.Strike)
		if i == 0 || leg.Contracts.LessThan(b.minContracts) {
			b.minContracts = leg.Contracts
		}
		if leg.EntryPremium == nil {
			b.allHaveEntry = false
			continue
		}
		b.net = b.net.Add(leg.EntryPremium.Mul(actionSign(leg.Action)).Mul(leg.Contracts).Mul(multiplier))
		priced++
	}
	sort.Slice(b.strikes, func(i, j int) bool { return b.strikes[i].LessThan(b.strikes[j]) })
	return b, priced > 0
}

// A zero net premium counts as a debit.
func (b optionBook) debit() bool {
	return !b.net.IsNegative()
}

func singleLegBounds(b optionBook) (risk, reward *decimal.Decimal) {
	if b.debit() {
		return types.Dec(b.net), nil
	}
	return nil, types.Dec(b.net.Neg())
}

func spreadBounds(b optionBook, width decimal.Decimal) (risk, reward *decimal.Decimal) {
	if b.debit() {
		return types.Dec(b.net), types.Dec(width.Sub(b.net))
	}
	return types.Dec(width.Add(b.net)), types.Dec(b.net.Neg())
}

func verticalBounds(b optionBook) (risk, reward *decimal.Decimal) {
	s := uniqueStrikes(b.strikes)
	if len(s) < 2 {
		return singleLegBounds(b)
	}
	width := s[1].Sub(s[0]).Mul(b.minContracts).Mul(multiplier)
	return spreadBounds(b, width)
}

func ironBounds(b optionBook) (risk, reward *decimal.Decimal) {
	s := b.strikes
	if len(s) < 4 {
		return verticalBounds(b)
	}
	width := decimal.Max(s[1].Sub(s[0]), s[3].Sub(s[2])).Mul(b.minContracts).Mul(multiplier)
	return spreadBounds(b, width)
}

func condorBounds(b optionBook) (risk, reward *decimal.Decimal) {
	s := uniqueStrikes(b.strikes)
	if len(s) < 4 {
		return verticalBounds(b)
	}
	outer := s[3].Sub(s[0])
	inner := s[2].Sub(s[1])
	width := outer.Sub(inner).Div(decimal.NewFromInt(2)).Mul(b.minContracts).Mul(multiplier)
	return spreadBounds(b, width)
}

func straddleBounds(b optionBook) (risk, reward *decimal.Decimal) {
	if b.debit() {
		return types.Dec(b.net), nil
	}
	return nil, nil
}

// fallbackBounds covers custom, calendar, diagonal and unrecognised shapes.
func fallbackBounds(b optionBook) (risk, reward *decimal.Decimal) {
	if !b.allHaveEntry {
		return nil, nil
	}
	return singleLegBounds(b)
}

func uniqueStrikes(sorted []decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(sorted))
	for _, s := range sorted {
		if len(out) == 0 || !out[len(out)-1].Equal(s) {
			out = append(out, s)
		}
	}
	return out
}

func ratio(risk, reward *decimal.Decimal) *decimal.Decimal {
	if risk == nil || reward == nil || !risk.IsPositive() {
		return nil
	}
	r := reward.Div(*risk).Round(2)
	return &r
}

func round2(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	r := d.Round(2)
	return &r
}
