package reportobs

import (
	"context"

	"trade-reconciler/internal/interfaces"
	"trade-reconciler/internal/logger"
	"trade-reconciler/internal/trace"
	"trade-reconciler/internal/types"
)

type observableSummarizer struct {
	summarizer interfaces.Summarizer
}

var _ interfaces.Summarizer = (*observableSummarizer)(nil)

func Wrap(summarizer interfaces.Summarizer) interfaces.Summarizer {
	return &observableSummarizer{
		summarizer: summarizer,
	}
}

func (s *observableSummarizer) WriteSummary(ctx context.Context, name string, trades []types.Trade) (string, error) {
	ctx, span := trace.StartSpan(ctx, "report.WriteSummary")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Starting summary generation",
		"name", name,
		"trades", len(trades),
	)

	csvPath, err := s.summarizer.WriteSummary(ctx, name, trades)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Summary generation failed", err,
			"name", name,
		)
		return "", err
	}

	if csvPath == "" {
		logger.InfoSkip(ctx, 1, "No closed trades for summary",
			"name", name,
		)
		return "", nil
	}

	logger.InfoSkip(ctx, 1, "Summary generated successfully",
		"name", name,
		"csv_path", csvPath,
	)

	return csvPath, nil
}
