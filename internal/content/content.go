// Package content holds the immutable content entities the engine reads:
// items and blueprints. Items are authored elsewhere; the engine never
// mutates them.
package content

// Status is an item's publication state.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusReview    Status = "review"
	StatusPublished Status = "published"
)

// Item is a single assessment item.
type Item struct {
	ID         string   `json:"id"`
	LOs        []string `json:"los"`
	Difficulty float64  `json:"difficulty"`
	Bloom      string   `json:"bloom"`
	Evidence   string   `json:"evidence"`
	Status     Status   `json:"status"`
}

// HasLO reports whether the item is tagged with the given learning objective.
func (it *Item) HasLO(loID string) bool {
	for _, lo := range it.LOs {
		if lo == loID {
			return true
		}
	}
	return false
}

// Blueprint specifies target learning-objective proportions for an exam
// form. Weights need not sum to 1; they are normalized where consumed.
type Blueprint struct {
	ID      string             `json:"id"`
	Weights map[string]float64 `json:"weights"`
}

// Published filters a pool down to published items.
func Published(items []Item) []Item {
	var out []Item
	for _, it := range items {
		if it.Status == StatusPublished {
			out = append(out, it)
		}
	}
	return out
}

// PublishedByLO counts published items per learning objective.
// Multi-objective items count toward every objective they are tagged with.
func PublishedByLO(items []Item) map[string]int {
	counts := make(map[string]int)
	for _, it := range items {
		if it.Status != StatusPublished {
			continue
		}
		for _, lo := range it.LOs {
			counts[lo]++
		}
	}
	return counts
}
