package engineobs

import (
	"context"
	"time"

	"trade-reconciler/internal/interfaces"
	"trade-reconciler/internal/logger"
	"trade-reconciler/internal/trace"
	"trade-reconciler/internal/types"
)

type observableMatcher struct {
	matcher interfaces.Matcher
}

var _ interfaces.Matcher = (*observableMatcher)(nil)

func Wrap(m interfaces.Matcher) interfaces.Matcher {
	return &observableMatcher{
		matcher: m,
	}
}

func (om *observableMatcher) Match(ctx context.Context, fills []types.Fill) types.MatchResult {
	ctx, span := trace.StartSpan(ctx, "engine.Match")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Matching fills",
		"fills", len(fills),
	)

	result := om.matcher.Match(ctx, fills)

	logger.InfoSkip(ctx, 1, "Matching completed",
		"fills", len(fills),
		"closed", len(result.Closed),
		"open", len(result.Open),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result
}

func (om *observableMatcher) MatchSymbol(ctx context.Context, symbol string, fills []types.Fill) types.MatchResult {
	ctx, span := trace.StartSpan(ctx, "engine.MatchSymbol")
	defer span.End()

	start := time.Now()

	result := om.matcher.MatchSymbol(ctx, symbol, fills)

	logger.DebugSkip(ctx, 1, "Symbol matched",
		"symbol", symbol,
		"fills", len(fills),
		"closed", len(result.Closed),
		"open", len(result.Open),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result
}
