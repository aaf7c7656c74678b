package engine

import (
	"context"
	"fmt"

	"github.com/kadence-learn/kadence/internal/thompson"
	"github.com/kadence-learn/kadence/internal/valid"
)

// NextObjective samples the next learning objective for the learner.
// A nil choice with a nil error means there is nothing to schedule — an
// expected state when the pool is empty, not a failure.
func (e *Engine) NextObjective(ctx context.Context, learnerID string) (*thompson.Choice, error) {
	if learnerID == "" {
		return nil, &valid.FieldError{Field: "learnerId", Reason: "must not be empty"}
	}

	st, err := e.learners.Load(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	items, err := e.content.PublishedItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	arms := thompson.BuildArms(st, items, e.clock().UnixMilli(), e.cfg.Thompson)
	choice := thompson.ScheduleNextLO(arms, e.entropy())
	if choice == nil {
		e.log.Debug("no objective eligible", "learner", learnerID)
		return nil, nil
	}

	e.log.Debug("objective sampled",
		"learner", learnerID,
		"lo", choice.LOID,
		"score", choice.Score,
		"sample", choice.Sample,
	)
	return choice, nil
}
