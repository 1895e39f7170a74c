package interfaces

import (
	"context"

	"trade-reconciler/internal/types"
)

// TableSource produces a raw fill table from somewhere other than a file.
type TableSource interface {
	Name() string
	Fetch(ctx context.Context) (*types.Table, error)
}
