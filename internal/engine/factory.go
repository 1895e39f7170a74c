package engine

import (
	"context"

	"trade-reconciler/internal/instrument"
	"trade-reconciler/internal/interfaces"
	"trade-reconciler/internal/types"
)

// New returns a Matcher that resolves futures ticks through ticks. A nil
// table falls back to the built-in contract table.
func New(ticks *instrument.Table) interfaces.Matcher {
	return newMatcher(ticks)
}

func (m *matcher) Match(_ context.Context, fills []types.Fill) types.MatchResult {
	return m.pairFills(fills)
}

// MatchSymbol expects every fill to belong to symbol.
func (m *matcher) MatchSymbol(_ context.Context, _ string, fills []types.Fill) types.MatchResult {
	return m.pairSymbol(fills)
}
