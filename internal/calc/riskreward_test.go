package calc

import (
	"testing"

	"trade-reconciler/internal/types"
)

func TestRiskRewardStock(t *testing.T) {
	tr := types.Trade{
		AssetClass: types.AssetStock,
		Direction:  types.SideLong,
		EntryPrice: dp("50"),
		StopLoss:   dp("48"),
		TakeProfit: dp("56"),
		Quantity:   dp("100"),
	}
	rr := CalcRiskReward(tr)
	if rr == nil {
		t.Fatal("Expected a result")
	}
	assertDec(t, "risk", rr.MaxRisk, "200")
	assertDec(t, "reward", rr.MaxReward, "600")
	assertDec(t, "ratio", rr.Ratio, "3")
}

func TestRiskRewardMissingTarget(t *testing.T) {
	tr := types.Trade{
		AssetClass: types.AssetStock,
		Direction:  types.SideShort,
		EntryPrice: dp("50"),
		StopLoss:   dp("52"),
		Quantity:   dp("10"),
	}
	rr := CalcRiskReward(tr)
	if rr == nil {
		t.Fatal("Expected a partial result")
	}
	assertDec(t, "risk", rr.MaxRisk, "20")
	if rr.MaxReward != nil {
		t.Errorf("Expected nil max reward, got %s", rr.MaxReward)
	}
	if rr.Ratio != nil {
		t.Errorf("Expected nil ratio, got %s", rr.Ratio)
	}
}

func TestRiskRewardStockWithoutEntry(t *testing.T) {
	if rr := CalcRiskReward(types.Trade{AssetClass: types.AssetStock, Quantity: dp("1")}); rr != nil {
		t.Errorf("Expected nil result without entry price, got %+v", rr)
	}
}

func TestRiskRewardFutures(t *testing.T) {
	tr := types.Trade{
		AssetClass: types.AssetFutures,
		Direction:  types.SideLong,
		EntryPrice: dp("5000"),
		StopLoss:   dp("4995"),
		TakeProfit: dp("5010"),
		Quantity:   dp("2"),
		TickSize:   dp("0.25"),
		TickValue:  dp("12.50"),
	}
	rr := CalcRiskReward(tr)
	// 20 ticks * 12.50 * 2 and 40 ticks * 12.50 * 2
	assertDec(t, "risk", rr.MaxRisk, "500")
	assertDec(t, "reward", rr.MaxReward, "1000")
	assertDec(t, "ratio", rr.Ratio, "2")
}

func TestRiskRewardFuturesUnevenTick(t *testing.T) {
	// 1/0.03 has no finite decimal form; going through ticks first keeps whole tick counts exact
	tr := types.Trade{
		AssetClass: types.AssetFutures,
		Direction:  types.SideLong,
		EntryPrice: dp("100"),
		StopLoss:   dp("99.97"),
		TakeProfit: dp("100.09"),
		Quantity:   dp("10000000000000000"),
		TickSize:   dp("0.03"),
		TickValue:  dp("1"),
	}
	rr := CalcRiskReward(tr)
	assertDec(t, "risk", rr.MaxRisk, "10000000000000000")
	assertDec(t, "reward", rr.MaxReward, "30000000000000000")
	assertDec(t, "ratio", rr.Ratio, "3")
}

func TestRiskRewardZeroStopHasNoRatio(t *testing.T) {
	tr := types.Trade{
		AssetClass: types.AssetStock,
		EntryPrice: dp("10"),
		StopLoss:   dp("10"),
		TakeProfit: dp("12"),
		Quantity:   dp("1"),
	}
	rr := CalcRiskReward(tr)
	assertDec(t, "risk", rr.MaxRisk, "0")
	if rr.Ratio != nil {
		t.Errorf("Expected nil ratio for zero risk, got %s", rr.Ratio)
	}
}

func TestRiskRewardSingleLeg(t *testing.T) {
	debit := types.Trade{
		AssetClass: types.AssetOptions,
		Strategy:   types.StrategySingleLeg,
		Legs:       []types.Leg{{Action: types.ActionBuy, OptionType: types.OptionCall, Strike: d("100"), Contracts: d("2"), EntryPremium: dp("1.50")}},
	}
	rr := CalcRiskReward(debit)
	assertDec(t, "net", rr.NetPremium, "300")
	assertDec(t, "risk", rr.MaxRisk, "300")
	if rr.MaxReward != nil {
		t.Errorf("Expected unbounded reward for a long call, got %s", rr.MaxReward)
	}

	credit := debit
	credit.Legs = []types.Leg{{Action: types.ActionSell, OptionType: types.OptionPut, Strike: d("90"), Contracts: d("1"), EntryPremium: dp("2")}}
	rr = CalcRiskReward(credit)
	assertDec(t, "net", rr.NetPremium, "-200")
	assertDec(t, "reward", rr.MaxReward, "200")
	if rr.MaxRisk != nil {
		t.Errorf("Expected unbounded risk for a short put, got %s", rr.MaxRisk)
	}
}

func TestRiskRewardVerticalCredit(t *testing.T) {
	tr := types.Trade{
		AssetClass: types.AssetOptions,
		Strategy:   types.StrategyVerticalSpread,
		Legs: []types.Leg{
			{Action: types.ActionSell, OptionType: types.OptionPut, Strike: d("100"), Contracts: d("1"), EntryPremium: dp("3")},
			{Action: types.ActionBuy, OptionType: types.OptionPut, Strike: d("95"), Contracts: d("1"), EntryPremium: dp("1")},
		},
	}
	rr := CalcRiskReward(tr)
	// net -200, width 500
	assertDec(t, "net", rr.NetPremium, "-200")
	assertDec(t, "risk", rr.MaxRisk, "300")
	assertDec(t, "reward", rr.MaxReward, "200")
	assertDec(t, "ratio", rr.Ratio, "0.67")
}

func TestRiskRewardVerticalDebit(t *testing.T) {
	tr := types.Trade{
		AssetClass: types.AssetOptions,
		Strategy:   types.StrategyVerticalSpread,
		Legs: []types.Leg{
			{Action: types.ActionBuy, OptionType: types.OptionCall, Strike: d("100"), Contracts: d("2"), EntryPremium: dp("4")},
			{Action: types.ActionSell, OptionType: types.OptionCall, Strike: d("110"), Contracts: d("2"), EntryPremium: dp("1")},
		},
	}
	rr := CalcRiskReward(tr)
	// net 600, width 10*2*100 = 2000
	assertDec(t, "risk", rr.MaxRisk, "600")
	assertDec(t, "reward", rr.MaxReward, "1400")
}

func TestRiskRewardIronCondor(t *testing.T) {
	tr := types.Trade{
		AssetClass: types.AssetOptions,
		Strategy:   types.StrategyIronCondor,
		Legs: []types.Leg{
			{Action: types.ActionBuy, OptionType: types.OptionPut, Strike: d("90"), Contracts: d("1"), EntryPremium: dp("0.50")},
			{Action: types.ActionSell, OptionType: types.OptionPut, Strike: d("95"), Contracts: d("1"), EntryPremium: dp("1.50")},
			{Action: types.ActionSell, OptionType: types.OptionCall, Strike: d("105"), Contracts: d("1"), EntryPremium: dp("1.40")},
			{Action: types.ActionBuy, OptionType: types.OptionCall, Strike: d("115"), Contracts: d("1"), EntryPremium: dp("0.40")},
		},
	}
	rr := CalcRiskReward(tr)
	// net -200, width max(5, 10) * 100 = 1000
	assertDec(t, "net", rr.NetPremium, "-200")
	assertDec(t, "risk", rr.MaxRisk, "800")
	assertDec(t, "reward", rr.MaxReward, "200")
	assertDec(t, "ratio", rr.Ratio, "0.25")
}

func TestRiskRewardIronButterflyKeepsDuplicateStrike(t *testing.T) {
	tr := types.Trade{
		AssetClass: types.AssetOptions,
		Strategy:   types.StrategyIronButterfly,
		Legs: []types.Leg{
			{Action: types.ActionBuy, OptionType: types.OptionPut, Strike: d("95"), Contracts: d("1"), EntryPremium: dp("1")},
			{Action: types.ActionSell, OptionType: types.OptionPut, Strike: d("100"), Contracts: d("1"), EntryPremium: dp("3")},
			{Action: types.ActionSell, OptionType: types.OptionCall, Strike: d("100"), Contracts: d("1"), EntryPremium: dp("3")},
			{Action: types.ActionBuy, OptionType: types.OptionCall, Strike: d("105"), Contracts: d("1"), EntryPremium: dp("1")},
		},
	}
	rr := CalcRiskReward(tr)
	// net -400, width 500
	assertDec(t, "risk", rr.MaxRisk, "100")
	assertDec(t, "reward", rr.MaxReward, "400")
	assertDec(t, "ratio", rr.Ratio, "4")
}

func TestRiskRewardCondor(t *testing.T) {
	tr := types.Trade{
		AssetClass: types.AssetOptions,
		Strategy:   types.StrategyCondor,
		Legs: []types.Leg{
			{Action: types.ActionBuy, OptionType: types.OptionCall, Strike: d("100"), Contracts: d("1"), EntryPremium: dp("10")},
			{Action: types.ActionSell, OptionType: types.OptionCall, Strike: d("105"), Contracts: d("1"), EntryPremium: dp("6.5")},
			{Action: types.ActionSell, OptionType: types.OptionCall, Strike: d("110"), Contracts: d("1"), EntryPremium: dp("3.5")},
			{Action: types.ActionBuy, OptionType: types.OptionCall, Strike: d("115"), Contracts: d("1"), EntryPremium: dp("1.5")},
		},
	}
	rr := CalcRiskReward(tr)
	// net 150, width ((15)-(5))/2*100 = 500
	assertDec(t, "net", rr.NetPremium, "150")
	assertDec(t, "risk", rr.MaxRisk, "150")
	assertDec(t, "reward", rr.MaxReward, "350")
}

func TestRiskRewardStraddle(t *testing.T) {
	tr := types.Trade{
		AssetClass: types.AssetOptions,
		Strategy:   types.StrategyStraddleStrangle,
		Legs: []types.Leg{
			{Action: types.ActionBuy, OptionType: types.OptionCall, Strike: d("100"), Contracts: d("1"), EntryPremium: dp("3")},
			{Action: types.ActionBuy, OptionType: types.OptionPut, Strike: d("100"), Contracts: d("1"), EntryPremium: dp("2")},
		},
	}
	rr := CalcRiskReward(tr)
	assertDec(t, "risk", rr.MaxRisk, "500")
	if rr.MaxReward != nil || rr.Ratio != nil {
		t.Errorf("Expected open-ended reward, got reward=%v ratio=%v", rr.MaxReward, rr.Ratio)
	}
}

func TestRiskRewardCustomFallsBackToSingleLeg(t *testing.T) {
	tr := types.Trade{
		AssetClass: types.AssetOptions,
		Strategy:   types.StrategyCalendar,
		Legs: []types.Leg{
			{Action: types.ActionSell, OptionType: types.OptionCall, Strike: d("100"), Contracts: d("1"), EntryPremium: dp("2")},
			{Action: types.ActionBuy, OptionType: types.OptionCall, Strike: d("100"), Contracts: d("1"), EntryPremium: dp("3")},
		},
	}
	rr := CalcRiskReward(tr)
	assertDec(t, "risk", rr.MaxRisk, "100")
	if rr.MaxReward != nil {
		t.Errorf("Expected nil reward, got %s", rr.MaxReward)
	}

	tr.Legs[1].EntryPremium = nil
	rr = CalcRiskReward(tr)
	if rr == nil {
		t.Fatal("Expected net premium with unknown bounds")
	}
	if rr.MaxRisk != nil || rr.MaxReward != nil {
		t.Errorf("Expected nil bounds when a leg premium is missing, got %+v", rr)
	}
}

func TestRiskRewardOptionsWithoutPremiums(t *testing.T) {
	tr := types.Trade{
		AssetClass: types.AssetOptions,
		Strategy:   types.StrategySingleLeg,
		Legs:       []types.Leg{{Action: types.ActionBuy, Contracts: d("1")}},
	}
	if rr := CalcRiskReward(tr); rr != nil {
		t.Errorf("Expected nil result, got %+v", rr)
	}
}
