package instrument

import (
	"regexp"
	"strings"
	"time"

	"trade-reconciler/internal/types"

	"github.com/shopspring/decimal"
)

// OptionContract is what can be read back out of an OCC-style option symbol.
type OptionContract struct {
	Root   string
	Expiry time.Time
	Type   types.OptionType
	Strike decimal.Decimal
}

var occPartsRe = regexp.MustCompile(`^([A-Z.]+)\s*(\d{6})([CP])(\d+(?:\.\d+)?)$`)

// ParseOptionSymbol reads root, expiry, call/put and strike from symbols such as
// "AAPL  240119C00150000" (strike x1000, 8 digits) or "SPY240119P450".
func ParseOptionSymbol(symbol string) (OptionContract, bool) {
	m := occPartsRe.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(symbol)))
	if m == nil {
		return OptionContract{}, false
	}
	expiry, err := time.Parse("060102", m[2])
	if err != nil {
		return OptionContract{}, false
	}
	strike, err := decimal.NewFromString(m[4])
	if err != nil {
		return OptionContract{}, false
	}
	if len(m[4]) == 8 && !strings.Contains(m[4], ".") {
		strike = strike.Div(decimal.NewFromInt(1000))
	}
	ot := types.OptionCall
	if m[3] == "P" {
		ot = types.OptionPut
	}
	return OptionContract{Root: m[1], Expiry: expiry, Type: ot, Strike: strike}, true
}

var putWordRe = regexp.MustCompile(`(?i)\bputs?\b`)

// SingleLeg builds the one-leg shape of an option position: bought contracts
// for a long position, written contracts for a short one. Strike and call/put
// come from the symbol when it is OCC-style, otherwise call/put is read from
// the description.
func SingleLeg(symbol, description string, side types.Side, contracts decimal.Decimal, entry, exit *decimal.Decimal) types.Leg {
	leg := types.Leg{
		Action:       types.ActionBuy,
		OptionType:   types.OptionCall,
		Contracts:    contracts,
		EntryPremium: entry,
		ExitPremium:  exit,
	}
	if side == types.SideShort {
		leg.Action = types.ActionSell
	}
	if c, ok := ParseOptionSymbol(symbol); ok {
		leg.OptionType = c.Type
		leg.Strike = c.Strike
	} else if putWordRe.MatchString(description) {
		leg.OptionType = types.OptionPut
	}
	return leg
}
