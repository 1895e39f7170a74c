package instrument

import (
	"regexp"
	"strings"

	"trade-reconciler/internal/types"

	"github.com/shopspring/decimal"
)

// TickInfo is the minimum price increment of a futures contract and the
// dollar value of one increment per contract.
type TickInfo struct {
	Tick  decimal.Decimal `yaml:"tick" json:"tick"`
	Value decimal.Decimal `yaml:"value" json:"value"`
}

func tick(size, value string) TickInfo {
	return TickInfo{Tick: decimal.RequireFromString(size), Value: decimal.RequireFromString(value)}
}

// FuturesTickTable is the built-in contract table keyed by base symbol.
var FuturesTickTable = map[string]TickInfo{
	"ES":  tick("0.25", "12.50"),
	"MES": tick("0.25", "1.25"),
	"NQ":  tick("0.25", "5.00"),
	"MNQ": tick("0.25", "0.50"),
	"YM":  tick("1", "5.00"),
	"MYM": tick("1", "0.50"),
	"RTY": tick("0.10", "5.00"),
	"M2K": tick("0.10", "0.50"),
	"CL":  tick("0.01", "10.00"),
	"MCL": tick("0.01", "1.00"),
	"GC":  tick("0.10", "10.00"),
	"MGC": tick("0.10", "1.00"),
	"SI":  tick("0.005", "25.00"),
	"SIL": tick("0.005", "5.00"),
	"ZB":  tick("0.03125", "31.25"),
	"ZN":  tick("0.015625", "15.625"),
	"ZF":  tick("0.0078125", "7.8125"),
	"ZT":  tick("0.00390625", "7.8125"),
	"HG":  tick("0.0005", "12.50"),
	"NG":  tick("0.001", "10.00"),
	"6E":  tick("0.00005", "6.25"),
	"6J":  tick("0.0000005", "6.25"),
	"6B":  tick("0.0001", "6.25"),
	"6A":  tick("0.00005", "5.00"),
	"6C":  tick("0.00005", "5.00"),
	"ZC":  tick("0.25", "12.50"),
	"ZS":  tick("0.25", "12.50"),
	"ZW":  tick("0.25", "12.50"),
	"ZL":  tick("0.01", "6.00"),
	"ZM":  tick("0.10", "10.00"),
	"HE":  tick("0.025", "10.00"),
	"LE":  tick("0.025", "10.00"),
	"NKD": tick("5", "25.00"),
	"EMD": tick("0.10", "10.00"),
}

// futuresPrefixes is ordered longest first so MES wins over ES and SIL over SI.
var futuresPrefixes = []string{
	"MES", "MNQ", "MYM", "RTY", "M2K", "MCL", "MGC", "SIL", "NKD", "EMD",
	"ES", "NQ", "YM", "CL", "GC", "SI", "ZB", "ZN", "ZF", "ZT", "HG", "NG",
	"6E", "6J", "6B", "6A", "6C", "ZC", "ZS", "ZW", "ZL", "ZM", "HE", "LE",
}

var (
	occOptionRe   = regexp.MustCompile(`\d{6}[CP]\d+`)
	callPutWordRe = regexp.MustCompile(`(?i)\b(call|put)s?\b`)
)

// Classify infers the asset class from a ticker and optional descriptive text.
func Classify(symbol, description string) types.AssetClass {
	if IsFutures(symbol) {
		return types.AssetFutures
	}
	sym := normalizeSymbol(symbol)
	if occOptionRe.MatchString(strings.ReplaceAll(sym, " ", "")) {
		return types.AssetOptions
	}
	if description != "" && callPutWordRe.MatchString(description) {
		return types.AssetOptions
	}
	return types.AssetStock
}

// IsFutures reports whether symbol resolves to a known futures base.
func IsFutures(symbol string) bool {
	_, ok := ResolveFuturesBase(symbol)
	return ok
}

// ResolveFuturesBase strips an optional leading slash and a trailing
// month-code/year suffix, e.g. MESH6 -> MES, /ESZ24 -> ES.
func ResolveFuturesBase(symbol string) (string, bool) {
	sym := normalizeSymbol(symbol)
	if sym == "" {
		return "", false
	}
	for _, p := range futuresPrefixes {
		if !strings.HasPrefix(sym, p) {
			continue
		}
		rest := sym[len(p):]
		if rest == "" || isContractSuffix(rest) {
			return p, true
		}
	}
	return "", false
}

func isContractSuffix(s string) bool {
	if len(s) < 2 || len(s) > 3 {
		return false
	}
	if !strings.ContainsRune("FGHJKMNQUVXZ", rune(s[0])) {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func normalizeSymbol(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.TrimPrefix(s, "/")
}
