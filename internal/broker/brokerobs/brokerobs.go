package brokerobs

import (
	"context"

	"trade-reconciler/internal/interfaces"
	"trade-reconciler/internal/logger"
	"trade-reconciler/internal/trace"
	"trade-reconciler/internal/types"
)

// observableSource wraps a TableSource with observability (logging & tracing)
type observableSource struct {
	source interfaces.TableSource
}

// Compile-time interface check
var _ interfaces.TableSource = (*observableSource)(nil)

// Wrap wraps a table source with observability middleware
func Wrap(source interfaces.TableSource) interfaces.TableSource {
	return &observableSource{
		source: source,
	}
}

func (ob *observableSource) Name() string { return ob.source.Name() }

// Fetch pulls the table with observability
func (ob *observableSource) Fetch(ctx context.Context) (*types.Table, error) {
	ctx, span := trace.StartSpan(ctx, "broker.Fetch")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching tradebook", "source", ob.source.Name())

	table, err := ob.source.Fetch(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch tradebook", err, "source", ob.source.Name())
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Tradebook fetched successfully", "source", ob.source.Name(), "rows", len(table.Rows))
	return table, nil
}
