package normalize

import (
	"strings"

	"trade-reconciler/internal/types"
)

var directionWords = map[string]types.Side{
	"buy":           types.SideLong,
	"long":          types.SideLong,
	"bought":        types.SideLong,
	"buy to open":   types.SideLong,
	"buy to close":  types.SideLong,
	"bot":           types.SideLong,
	"sell":          types.SideShort,
	"short":         types.SideShort,
	"sold":          types.SideShort,
	"sell to open":  types.SideShort,
	"sell to close": types.SideShort,
	"sld":           types.SideShort,
	"sell short":    types.SideShort,
}

// ParseDirection maps a side cell to Long/Short. Unknown values default to
// Long; known reports whether the value was in the vocabulary.
func ParseDirection(s string) (side types.Side, known bool) {
	k := strings.Join(strings.Fields(strings.ToLower(strings.ReplaceAll(s, "_", " "))), " ")
	if side, ok := directionWords[k]; ok {
		return side, true
	}
	return types.SideLong, false
}

// IsDirectionWord reports whether s belongs to the direction vocabulary.
func IsDirectionWord(s string) bool {
	_, known := ParseDirection(s)
	return known
}

var inactiveStatusStems = []string{"cancel", "fail", "reject", "expire", "pending"}

// IsInactiveStatus reports whether an order status means nothing was executed.
func IsInactiveStatus(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return false
	}
	for _, stem := range inactiveStatusStems {
		if strings.Contains(s, stem) {
			return true
		}
	}
	return false
}
