package detect

import (
	"strings"

	"trade-reconciler/internal/normalize"
	"trade-reconciler/internal/types"
)

// Detection is a best guess at a table's shape. It is never authoritative:
// callers may override Format and re-run normalization.
type Detection struct {
	Format    types.Format    `json:"format"`
	ColumnMap types.ColumnMap `json:"column_map"`
	// SampledDirection is set when the side column was found from its values
	// rather than its header.
	SampledDirection bool `json:"sampled_direction,omitempty"`
}

// WithFormat returns a copy of d with the format replaced.
func (d Detection) WithFormat(f types.Format) Detection {
	d.Format = f
	return d
}

var headerNoise = strings.NewReplacer("_", " ", "-", " ", "(", " ", ")", " ", "$", " ", "#", " ", ":", " ", ".", " ")

// NormalizeHeader lower-cases and trims a header, folds separators to spaces
// and collapses runs of whitespace.
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = headerNoise.Replace(strings.ToLower(h))
	return strings.Join(strings.Fields(h), " ")
}

// BuildColumnMap maps every field with a matching alias to its column. A
// column already claimed by an earlier field is not reused.
func BuildColumnMap(headers []string) types.ColumnMap {
	norm := make([]string, len(headers))
	for i, h := range headers {
		norm[i] = NormalizeHeader(h)
	}

	cm := types.ColumnMap{}
	claimed := make([]bool, len(headers))
	for _, fa := range aliasTable {
	aliases:
		for _, alias := range fa.aliases {
			for i, h := range norm {
				if !claimed[i] && h == alias {
					cm[fa.key] = i
					claimed[i] = true
					break aliases
				}
			}
		}
	}
	return cm
}

// DetectFormat infers the column map and whether rows are fills (order-based)
// or closed round trips (trade-based). It never fails.
func DetectFormat(headers []string, sampleRows [][]string) Detection {
	det := Detection{ColumnMap: BuildColumnMap(headers), Format: types.FormatTradeBased}

	hasEntry, hasExit, hasSide := false, false, false
	for _, h := range headers {
		n := NormalizeHeader(h)
		switch {
		case strings.HasPrefix(n, "entry"):
			hasEntry = true
		case strings.HasPrefix(n, "exit"), strings.HasPrefix(n, "close"):
			hasExit = true
		}
		if isSideHeader(n) {
			hasSide = true
		}
	}

	// "type" and "position" headers usually hold asset classes or sizes; they
	// only count as a side column when the sampled values are buy/sell words.
	if col, ok := det.ColumnMap[types.FieldDirection]; ok && weakSideHeaders[NormalizeHeader(headers[col])] {
		if !directionValues(sampleRows, col) {
			delete(det.ColumnMap, types.FieldDirection)
		}
	}

	switch {
	case hasEntry && hasExit:
		det.Format = types.FormatTradeBased
	case hasSide || det.ColumnMap.Has(types.FieldDirection):
		det.Format = types.FormatOrderBased
	default:
		if col, ok := sampleDirectionColumn(det.ColumnMap, len(headers), sampleRows); ok {
			det.ColumnMap[types.FieldDirection] = col
			det.SampledDirection = true
			det.Format = types.FormatOrderBased
		}
	}
	return det
}

var sideHeaders = map[string]bool{
	"side": true, "action": true, "direction": true, "buy/sell": true, "buy sell": true,
	"b/s": true, "transaction type": true, "trade type": true, "order side": true,
	"long/short": true,
}

var weakSideHeaders = map[string]bool{"type": true, "position": true}

// isSideHeader matches whole normalized headers only, so "transaction date"
// does not count just because it contains "action".
func isSideHeader(n string) bool {
	return sideHeaders[n]
}

// sampleDirectionColumn looks for an unclaimed column whose non-empty sample
// values all read as buy/sell words.
func sampleDirectionColumn(cm types.ColumnMap, width int, rows [][]string) (int, bool) {
	claimed := make(map[int]bool, len(cm))
	for _, i := range cm {
		claimed[i] = true
	}

	for col := 0; col < width; col++ {
		if !claimed[col] && directionValues(rows, col) {
			return col, true
		}
	}
	return 0, false
}

// directionValues reports whether column col has at least one non-empty
// sample value and every such value is a buy/sell word.
func directionValues(rows [][]string, col int) bool {
	seen := 0
	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		v := strings.TrimSpace(row[col])
		if v == "" {
			continue
		}
		seen++
		if !normalize.IsDirectionWord(v) {
			return false
		}
	}
	return seen > 0
}
