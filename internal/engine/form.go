package engine

import (
	"context"
	"fmt"

	"github.com/kadence-learn/kadence/internal/blueprint"
	"github.com/kadence-learn/kadence/internal/content"
)

// FormResult is the outcome of a build-form request. An infeasible
// blueprint is an expected outcome: Feasible is false, Shortfalls names
// the unmet objective targets, and Items is empty.
type FormResult struct {
	Feasible   bool
	Items      []content.Item
	Shortfalls map[string]int
}

// BuildForm runs the feasibility pre-flight and, when the pool suffices,
// assembles the form deterministically under the given seed.
func (e *Engine) BuildForm(ctx context.Context, blueprintID string, formLength int, seed int64) (*FormResult, error) {
	bp, err := e.content.Blueprint(ctx, blueprintID)
	if err != nil {
		return nil, fmt.Errorf("resolve blueprint: %w", err)
	}
	items, err := e.content.PublishedItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	short, err := blueprint.Shortfalls(*bp, items, formLength)
	if err != nil {
		return nil, err
	}
	if len(short) > 0 {
		e.log.Info("blueprint infeasible",
			"blueprint", blueprintID,
			"form_length", formLength,
			"shortfalls", short,
		)
		return &FormResult{Feasible: false, Shortfalls: short}, nil
	}

	form, err := blueprint.BuildFormGreedy(blueprint.Params{
		Blueprint:  *bp,
		Items:      items,
		FormLength: formLength,
		Seed:       seed,
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("form assembled",
		"blueprint", blueprintID,
		"form_length", formLength,
		"items", len(form),
		"seed", seed,
	)
	return &FormResult{Feasible: true, Items: form}, nil
}
