package calc

import (
	"trade-reconciler/internal/types"

	"github.com/shopspring/decimal"
)

// ContractMultiplier is the number of shares one equity option contract covers.
const ContractMultiplier = 100

var (
	multiplier       = decimal.NewFromInt(ContractMultiplier)
	defaultTickSize  = decimal.RequireFromString("0.25")
	defaultTickValue = decimal.NewFromInt(1)
)

// CalcPnL returns realized P&L rounded to 2 decimals, or nil when the trade
// does not carry enough data. A nil result is never a stand-in for zero.
func CalcPnL(t types.Trade) *decimal.Decimal {
	switch {
	case isOptions(t):
		return optionsPnL(t)
	case t.AssetClass == types.AssetFutures:
		return futuresPnL(t)
	default:
		return simplePnL(t)
	}
}

func simplePnL(t types.Trade) *decimal.Decimal {
	if t.EntryPrice == nil || t.ExitPrice == nil || t.Quantity == nil {
		return nil
	}
	move := priceMove(t.Direction, *t.EntryPrice, *t.ExitPrice)
	pnl := move.Mul(*t.Quantity).Sub(t.Fees).Round(2)
	return &pnl
}

func futuresPnL(t types.Trade) *decimal.Decimal {
	if t.EntryPrice == nil || t.ExitPrice == nil || t.Quantity == nil {
		return nil
	}
	size, value := tickOrDefault(t)
	ticks := priceMove(t.Direction, *t.EntryPrice, *t.ExitPrice).Div(size)
	pnl := ticks.Mul(value).Mul(*t.Quantity).Sub(t.Fees).Round(2)
	return &pnl
}

func optionsPnL(t types.Trade) *decimal.Decimal {
	total := decimal.Zero
	contributed := false

	for _, leg := range t.Legs {
		if leg.EntryPremium != nil && leg.ExitPremium != nil {
			legPnL := leg.ExitPremium.Sub(*leg.EntryPremium).
				Mul(actionSign(leg.Action)).
				Mul(leg.Contracts).
				Mul(multiplier)
			total = total.Add(legPnL)
			contributed = true
		}
		if leg.Action != types.ActionSell {
			continue
		}
		for _, r := range leg.Rolls {
			credit := r.SellPremium.Sub(r.BuybackPremium).Mul(leg.Contracts).Mul(multiplier)
			total = total.Add(credit)
			contributed = true
		}
	}

	if !contributed {
		return nil
	}
	pnl := total.Sub(t.Fees).Round(2)
	return &pnl
}

// RolledBuyLegs returns the indexes of Buy legs that carry rolls. Those rolls
// are not priced by CalcPnL, so callers should surface them for review.
func RolledBuyLegs(t types.Trade) []int {
	var idx []int
	for i, leg := range t.Legs {
		if leg.Action == types.ActionBuy && len(leg.Rolls) > 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

// UnrealizedPnL marks an open position at currentPrice using the same sign
// convention as CalcPnL. Fees are not deducted. For options, currentPrice is
// the per-share premium of a single-leg position.
func UnrealizedPnL(t types.Trade, currentPrice decimal.Decimal) *decimal.Decimal {
	if isOptions(t) {
		if len(t.Legs) != 1 || t.Legs[0].EntryPremium == nil {
			return nil
		}
		leg := t.Legs[0]
		pnl := currentPrice.Sub(*leg.EntryPremium).
			Mul(actionSign(leg.Action)).
			Mul(leg.Contracts).
			Mul(multiplier).
			Round(2)
		return &pnl
	}

	if t.EntryPrice == nil || t.Quantity == nil {
		return nil
	}
	move := priceMove(t.Direction, *t.EntryPrice, currentPrice)
	if t.AssetClass == types.AssetFutures {
		size, value := tickOrDefault(t)
		move = move.Div(size).Mul(value)
	}
	pnl := move.Mul(*t.Quantity).Round(2)
	return &pnl
}

func isOptions(t types.Trade) bool {
	return t.AssetClass == types.AssetOptions || len(t.Legs) > 0
}

// priceMove is exit-entry for longs and entry-exit for shorts.
func priceMove(side types.Side, entry, exit decimal.Decimal) decimal.Decimal {
	return exit.Sub(entry).Mul(side.Sign())
}

func actionSign(a types.OptionAction) decimal.Decimal {
	if a == types.ActionSell {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

func tickOrDefault(t types.Trade) (size, value decimal.Decimal) {
	size, value = defaultTickSize, defaultTickValue
	if t.TickSize != nil && t.TickSize.IsPositive() {
		size = *t.TickSize
	}
	if t.TickValue != nil && t.TickValue.IsPositive() {
		value = *t.TickValue
	}
	return size, value
}
