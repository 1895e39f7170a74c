package instrument

import "strings"

// Table resolves futures tick info from the built-in table with
// caller-supplied overrides layered on top. Overrides are fixed at
// construction, so a Table is safe for concurrent use.
type Table struct {
	overrides map[string]TickInfo
}

// NewTable returns a table that prefers overrides over FuturesTickTable.
func NewTable(overrides map[string]TickInfo) *Table {
	t := &Table{overrides: make(map[string]TickInfo, len(overrides))}
	for k, v := range overrides {
		t.overrides[strings.ToUpper(k)] = v
	}
	return t
}

// Lookup resolves symbol to its base and returns the tick info. ok is false for
// unknown contracts; callers must then ask the user for tick size and value.
func (t *Table) Lookup(symbol string) (TickInfo, bool) {
	base, known := ResolveFuturesBase(symbol)
	if !known {
		base = stripContractSuffix(normalizeSymbol(symbol))
	}
	if t != nil {
		if info, ok := t.overrides[base]; ok {
			return info, true
		}
	}
	info, ok := FuturesTickTable[base]
	return info, ok
}

// stripContractSuffix drops a trailing month code and year from a symbol
// outside the built-in prefix set, e.g. QQZ5 -> QQ.
func stripContractSuffix(sym string) string {
	for _, n := range []int{3, 2} {
		if len(sym) > n && isContractSuffix(sym[len(sym)-n:]) {
			return sym[:len(sym)-n]
		}
	}
	return sym
}
