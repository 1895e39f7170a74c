package interfaces

import (
	"context"

	"trade-reconciler/internal/types"
)

type Summarizer interface {
	WriteSummary(ctx context.Context, name string, trades []types.Trade) (csvPath string, err error)
}
