package ingest

import (
	"context"
	"io"

	"trade-reconciler/internal/detect"
	"trade-reconciler/internal/engine"
	"trade-reconciler/internal/interfaces"
	"trade-reconciler/internal/logger"
	"trade-reconciler/internal/normalize"
	"trade-reconciler/internal/types"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Result is everything one import produced.
type Result struct {
	Source    string          `json:"source,omitempty"`
	Format    types.Format    `json:"format"`
	ColumnMap types.ColumnMap `json:"column_map"`
	types.MatchResult
	Stats types.ImportStats `json:"stats"`
}

// Pipeline wires detection, normalization and matching for one table at a time.
type Pipeline struct {
	normalizer *normalize.Normalizer
	matcher    interfaces.Matcher
	workers    int
	sampleRows int
}

func NewPipeline(n *normalize.Normalizer, m interfaces.Matcher, workers, sampleRows int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	if sampleRows < 1 {
		sampleRows = 20
	}
	return &Pipeline{normalizer: n, matcher: m, workers: workers, sampleRows: sampleRows}
}

// RunReader reads a delimited export and runs it through the pipeline.
func (p *Pipeline) RunReader(ctx context.Context, source string, r io.Reader, enc string, override types.Format) (*Result, error) {
	table, err := ReadTable(r, enc)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, source, table, override)
}

// Run detects the table's shape (unless override is set), normalizes every
// row and matches fills per symbol in parallel. Bad rows are counted, never fatal.
func (p *Pipeline) Run(ctx context.Context, source string, table *types.Table, override types.Format) (*Result, error) {
	timer := logger.StartOperation(ctx, "ingest.Run", "source", source, "rows", len(table.Rows))
	ctx = timer.GetContext()

	sample := table.Rows
	if len(sample) > p.sampleRows {
		sample = sample[:p.sampleRows]
	}
	det := detect.DetectFormat(table.Headers, sample)
	if override != "" {
		det = det.WithFormat(override)
	}

	batch := p.normalizer.NormalizeRows(table.Rows, det.ColumnMap, det.Format)
	logger.Import(ctx, source, batch.Stats.RowsSeen, batch.Stats.RowsUsed,
		"format", string(det.Format),
		"dropped", batch.Stats.Dropped,
	)

	res := &Result{
		Source:    source,
		Format:    det.Format,
		ColumnMap: det.ColumnMap,
		Stats:     batch.Stats,
	}

	if det.Format == types.FormatOrderBased {
		matched, err := p.matchParallel(ctx, batch.Fills)
		if err != nil {
			timer.EndWithError(err)
			return nil, err
		}
		res.MatchResult = matched
	} else {
		res.MatchResult = splitByStatus(batch.Trades)
	}

	if logger.IsDebugEnabled() {
		for _, t := range res.Closed {
			logger.Trade(ctx, t.Ticker, string(t.Direction), decString(t.Quantity, -1), decString(t.PnL, 2))
		}
	}

	timer.End("closed", len(res.Closed), "open", len(res.Open))
	return res, nil
}

// matchParallel runs one matching task per symbol. Each task owns its own
// queue, so no coordination is needed beyond collecting the parts in order.
func (p *Pipeline) matchParallel(ctx context.Context, fills []types.Fill) (types.MatchResult, error) {
	symbols, groups := engine.GroupBySymbol(fills)
	parts := make([]types.MatchResult, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, sym := range symbols {
		i, sym := i, sym
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			parts[i] = p.matcher.MatchSymbol(gctx, sym, groups[sym])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return types.MatchResult{}, err
	}
	return engine.MergeResults(parts), nil
}

func splitByStatus(trades []types.Trade) types.MatchResult {
	var part types.MatchResult
	for _, t := range trades {
		if t.Status == types.StatusClosed {
			part.Closed = append(part.Closed, t)
		} else {
			part.Open = append(part.Open, t)
		}
	}
	return engine.MergeResults([]types.MatchResult{part})
}

func decString(d *decimal.Decimal, places int32) string {
	if d == nil {
		return "n/a"
	}
	if places < 0 {
		return d.String()
	}
	return d.StringFixed(places)
}
