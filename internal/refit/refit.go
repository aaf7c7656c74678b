// Package refit recomputes aggregate item statistics from ranges of the
// immutable attempt log. The job is a pure function of its inputs plus an
// explicit timestamp; it reads no clock, holds no learner-state lock, and
// can be cancelled between item groups.
package refit

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kadence-learn/kadence/internal/content"
	"github.com/kadence-learn/kadence/internal/store"
)

// betaClamp bounds the refit difficulty estimate to the live beta range.
const betaClamp = 3.0

// Params bundles the refit inputs.
type Params struct {
	Items  []content.Item
	Events []store.AttemptEvent
	Now    time.Time
	// Concurrency bounds parallel item groups; 0 means sequential.
	Concurrency int
}

// Row is one refitted item's aggregate statistics.
type Row struct {
	ItemID       string  `json:"item_id"`
	Total        int     `json:"total"`
	Correct      int     `json:"correct"`
	LearnTotal   int     `json:"learn_total"`
	ExamTotal    int     `json:"exam_total"`
	ObservedRate float64 `json:"observed_rate"`
	// Difficulty is the smoothed re-estimate on the live beta scale.
	Difficulty float64 `json:"difficulty"`
	// PriorDifficulty is the item's difficulty before the refit, when the
	// item was present in the supplied pool.
	PriorDifficulty float64 `json:"prior_difficulty"`
}

// Report is the refit output: one row per item with attempts in the window,
// sorted by item id.
type Report struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	EventCount  int       `json:"event_count"`
	Rows        []Row     `json:"rows"`
}

// Run computes the refit report. Identical inputs (including Now) produce
// identical reports except for the report's random id.
func Run(ctx context.Context, p Params) (*Report, error) {
	groups := make(map[string][]store.AttemptEvent)
	for _, ev := range p.Events {
		groups[ev.ItemID] = append(groups[ev.ItemID], ev)
	}

	itemIDs := make([]string, 0, len(groups))
	for id := range groups {
		itemIDs = append(itemIDs, id)
	}
	sort.Strings(itemIDs)

	priors := make(map[string]float64, len(p.Items))
	for _, it := range p.Items {
		priors[it.ID] = it.Difficulty
	}

	rows := make([]Row, len(itemIDs))

	if p.Concurrency > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.Concurrency)
		var mu sync.Mutex
		for i, id := range itemIDs {
			if err := gctx.Err(); err != nil {
				break
			}
			i, id := i, id
			g.Go(func() error {
				row := fitItem(id, groups[id], priors[id])
				mu.Lock()
				rows[i] = row
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	} else {
		for i, id := range itemIDs {
			// Cancellation point between item groups.
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			rows[i] = fitItem(id, groups[id], priors[id])
		}
	}

	return &Report{
		ID:          uuid.NewString(),
		GeneratedAt: p.Now,
		EventCount:  len(p.Events),
		Rows:        rows,
	}, nil
}

// fitItem aggregates one item's events and re-estimates its difficulty via
// the inverse logistic of the Laplace-smoothed correct rate: an item the
// population mostly misses drifts harder, one it mostly passes drifts
// easier, clamped to the live beta range.
func fitItem(itemID string, events []store.AttemptEvent, prior float64) Row {
	row := Row{ItemID: itemID, PriorDifficulty: prior}
	for _, ev := range events {
		row.Total++
		if ev.Correct {
			row.Correct++
		}
		switch ev.Mode {
		case "exam":
			row.ExamTotal++
		default:
			row.LearnTotal++
		}
	}

	row.ObservedRate = float64(row.Correct) / float64(row.Total)

	smoothed := (float64(row.Correct) + 1) / (float64(row.Total) + 2)
	beta := math.Log((1 - smoothed) / smoothed)
	row.Difficulty = math.Max(-betaClamp, math.Min(betaClamp, beta))
	return row
}
