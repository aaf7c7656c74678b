// Package blueprint assembles fixed-length exam forms against weighted
// learning-objective targets.
//
// Slot apportionment uses the largest-remainder method: each objective gets
// the floor of its proportional quota, and leftover slots go to the largest
// fractional remainders, ties broken by larger weight then lexicographically
// smaller objective id. Assembly is greedy and fully deterministic for a
// given (pool, seed); the seed only orders ties among equally eligible items.
package blueprint

import (
	"math"
	"math/rand"
	"sort"

	"github.com/kadence-learn/kadence/internal/content"
	"github.com/kadence-learn/kadence/internal/valid"
)

// DeriveTargets allocates formLength slots across the blueprint's
// objectives. The returned allocations sum to exactly formLength.
func DeriveTargets(bp content.Blueprint, formLength int) (map[string]int, error) {
	if formLength <= 0 {
		return nil, &valid.FieldError{Field: "formLength", Reason: "must be > 0"}
	}
	if len(bp.Weights) == 0 {
		return nil, &valid.FieldError{Field: "blueprint.weights", Reason: "must not be empty"}
	}

	ids := make([]string, 0, len(bp.Weights))
	total := 0.0
	for id, w := range bp.Weights {
		if err := valid.NonNegative("blueprint.weights["+id+"]", w); err != nil {
			return nil, err
		}
		ids = append(ids, id)
		total += w
	}
	if total <= 0 {
		return nil, &valid.FieldError{Field: "blueprint.weights", Reason: "must have positive total weight"}
	}
	sort.Strings(ids)

	type quota struct {
		id        string
		weight    float64
		floor     int
		remainder float64
	}
	quotas := make([]quota, 0, len(ids))
	allocated := 0
	for _, id := range ids {
		exact := bp.Weights[id] / total * float64(formLength)
		fl := int(math.Floor(exact))
		quotas = append(quotas, quota{
			id:        id,
			weight:    bp.Weights[id],
			floor:     fl,
			remainder: exact - float64(fl),
		})
		allocated += fl
	}

	// Hand the leftover slots to the largest remainders.
	sort.Slice(quotas, func(i, j int) bool {
		if quotas[i].remainder != quotas[j].remainder {
			return quotas[i].remainder > quotas[j].remainder
		}
		if quotas[i].weight != quotas[j].weight {
			return quotas[i].weight > quotas[j].weight
		}
		return quotas[i].id < quotas[j].id
	})

	targets := make(map[string]int, len(quotas))
	leftover := formLength - allocated
	for i, q := range quotas {
		n := q.floor
		if i < leftover {
			n++
		}
		targets[q.id] = n
	}
	return targets, nil
}

// IsFeasible reports whether the published pool can satisfy every nonzero
// derived target. Insufficient supply is an expected outcome, not an error.
func IsFeasible(bp content.Blueprint, items []content.Item, formLength int) (bool, error) {
	short, err := Shortfalls(bp, items, formLength)
	if err != nil {
		return false, err
	}
	return len(short) == 0, nil
}

// Shortfalls returns, for each objective whose derived target exceeds the
// published supply, how many items are missing. An empty map means the
// blueprint is feasible.
func Shortfalls(bp content.Blueprint, items []content.Item, formLength int) (map[string]int, error) {
	targets, err := DeriveTargets(bp, formLength)
	if err != nil {
		return nil, err
	}
	supply := content.PublishedByLO(items)

	short := make(map[string]int)
	for lo, want := range targets {
		if want == 0 {
			continue
		}
		if have := supply[lo]; have < want {
			short[lo] = want - have
		}
	}
	return short, nil
}

// Params bundles the inputs to BuildFormGreedy.
type Params struct {
	Blueprint  content.Blueprint
	Items      []content.Item
	FormLength int
	Seed       int64
}

// BuildFormGreedy assembles a form of at most FormLength published items
// covering the blueprint's derived targets. Items tagged with several
// objectives count toward each of them. The same params always yield the
// same ordered form; the seed only breaks ties among items whose remaining
// coverage gain is equal.
//
// Callers should check IsFeasible first; with a feasible pool no targeted
// objective is left under-filled.
func BuildFormGreedy(p Params) ([]content.Item, error) {
	targets, err := DeriveTargets(p.Blueprint, p.FormLength)
	if err != nil {
		return nil, err
	}

	pool := content.Published(p.Items)
	if len(pool) == 0 {
		return nil, &valid.FieldError{Field: "items", Reason: "pool has no published items"}
	}

	// Stable base order, then a seeded tie rank. The rank decides nothing
	// unless two candidates have identical coverage gain.
	sort.Slice(pool, func(i, j int) bool { return pool[i].ID < pool[j].ID })
	rng := rand.New(rand.NewSource(p.Seed))
	rank := make(map[string]int, len(pool))
	for i, idx := range rng.Perm(len(pool)) {
		rank[pool[idx].ID] = i
	}

	remaining := make(map[string]int, len(targets))
	for lo, n := range targets {
		remaining[lo] = n
	}

	var form []content.Item
	used := make(map[string]bool, len(pool))

	for len(form) < p.FormLength {
		best := -1
		bestGain := 0
		for i := range pool {
			if used[pool[i].ID] {
				continue
			}
			gain := coverageGain(&pool[i], remaining)
			switch {
			case gain > bestGain:
				best, bestGain = i, gain
			case gain == bestGain && gain > 0 && best >= 0 && rank[pool[i].ID] < rank[pool[best].ID]:
				best = i
			}
		}
		if best < 0 {
			break // no item advances any remaining target
		}

		it := pool[best]
		used[it.ID] = true
		form = append(form, it)
		for _, lo := range it.LOs {
			if remaining[lo] > 0 {
				remaining[lo]--
			}
		}
	}

	// Targets met with slots to spare: pad with leftover eligible items so
	// the form reaches its fixed length, same tie order.
	if len(form) < p.FormLength {
		var leftovers []content.Item
		for i := range pool {
			if !used[pool[i].ID] && coversAnyTarget(&pool[i], targets) {
				leftovers = append(leftovers, pool[i])
			}
		}
		sort.Slice(leftovers, func(i, j int) bool {
			return rank[leftovers[i].ID] < rank[leftovers[j].ID]
		})
		for _, it := range leftovers {
			if len(form) >= p.FormLength {
				break
			}
			form = append(form, it)
		}
	}

	return form, nil
}

// coverageGain counts how many still-unfilled targets the item advances.
func coverageGain(it *content.Item, remaining map[string]int) int {
	gain := 0
	for _, lo := range it.LOs {
		if remaining[lo] > 0 {
			gain++
		}
	}
	return gain
}

func coversAnyTarget(it *content.Item, targets map[string]int) bool {
	for _, lo := range it.LOs {
		if targets[lo] > 0 {
			return true
		}
	}
	return false
}
