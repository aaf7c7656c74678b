package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/kadence-learn/kadence/internal/refit"
)

// refitConcurrency bounds parallel item groups during a refit run.
const refitConcurrency = 4

// Refit reads the attempt-log window [from, to] and recomputes aggregate
// item statistics. The report's timestamp comes from the engine clock, not
// an implicit read inside the job.
func (e *Engine) Refit(ctx context.Context, from, to time.Time) (*refit.Report, error) {
	events, err := e.attempts.Range(ctx, from.UnixMilli(), to.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("read attempt log: %w", err)
	}
	items, err := e.content.PublishedItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	report, err := refit.Run(ctx, refit.Params{
		Items:       items,
		Events:      events,
		Now:         e.clock(),
		Concurrency: refitConcurrency,
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("refit complete",
		"report_id", report.ID,
		"events", report.EventCount,
		"items", len(report.Rows),
		"from", from,
		"to", to,
	)
	return report, nil
}
