package types

import "strings"

// StrategyType names an options strategy shape.
type StrategyType string

const (
	StrategySingleLeg        StrategyType = "single_leg"
	StrategyVerticalSpread   StrategyType = "vertical_spread"
	StrategyIronCondor       StrategyType = "iron_condor"
	StrategyIronButterfly    StrategyType = "iron_butterfly"
	StrategyButterfly        StrategyType = "butterfly"
	StrategyCondor           StrategyType = "condor"
	StrategyStraddleStrangle StrategyType = "straddle_strangle"
	StrategyCalendar         StrategyType = "calendar"
	StrategyDiagonal         StrategyType = "diagonal"
	StrategyCustom           StrategyType = "custom"
)

var strategyLabels = map[string]StrategyType{
	"single leg":        StrategySingleLeg,
	"single":            StrategySingleLeg,
	"long call":         StrategySingleLeg,
	"long put":          StrategySingleLeg,
	"short call":        StrategySingleLeg,
	"short put":         StrategySingleLeg,
	"naked":             StrategySingleLeg,
	"vertical spread":   StrategyVerticalSpread,
	"vertical":          StrategyVerticalSpread,
	"credit spread":     StrategyVerticalSpread,
	"debit spread":      StrategyVerticalSpread,
	"iron condor":       StrategyIronCondor,
	"iron butterfly":    StrategyIronButterfly,
	"iron fly":          StrategyIronButterfly,
	"butterfly":         StrategyButterfly,
	"condor":            StrategyCondor,
	"straddle/strangle": StrategyStraddleStrangle,
	"straddle":          StrategyStraddleStrangle,
	"strangle":          StrategyStraddleStrangle,
	"calendar":          StrategyCalendar,
	"calendar spread":   StrategyCalendar,
	"diagonal":          StrategyDiagonal,
	"diagonal spread":   StrategyDiagonal,
	"custom":            StrategyCustom,
}

// ParseStrategy accepts either the canonical value or a human label such as
// "Iron Condor". Anything unrecognised is Custom.
func ParseStrategy(s string) StrategyType {
	k := strings.ToLower(strings.TrimSpace(s))
	k = strings.ReplaceAll(k, "_", " ")
	k = strings.ReplaceAll(k, "-", " ")
	if st, ok := strategyLabels[k]; ok {
		return st
	}
	return StrategyCustom
}
