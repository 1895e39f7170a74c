package interfaces

import (
	"context"

	"trade-reconciler/internal/types"
)

// Matcher rebuilds round-trip trades from fills.
type Matcher interface {
	Match(ctx context.Context, fills []types.Fill) types.MatchResult
	MatchSymbol(ctx context.Context, symbol string, fills []types.Fill) types.MatchResult
}
