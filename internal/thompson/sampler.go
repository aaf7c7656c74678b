// Package thompson picks the next learning objective to practice by
// Thompson sampling: each candidate objective is a bandit arm with a Normal
// sampling distribution derived from the learner's ability estimate. A wide
// standard error means the engine is unsure and explores; a tight one means
// it exploits what it knows.
//
// This is the one place in the engine where randomness is legitimate, and
// it enters only through the caller-supplied rand.Source.
package thompson

import (
	"math"
	"math/rand"
	"sort"

	"github.com/kadence-learn/kadence/internal/content"
	"github.com/kadence-learn/kadence/internal/learner"
)

// Config holds the arm-construction tuning constants.
type Config struct {
	// NeedWeight scales how strongly a low ability estimate raises an
	// arm's mean.
	NeedWeight float64 `yaml:"need_weight"`
	// ExposurePenalty scales how recent practice volume lowers the mean.
	ExposurePenalty float64 `yaml:"exposure_penalty"`
	// OverdueBoost scales how due reviews raise the mean.
	OverdueBoost float64 `yaml:"overdue_boost"`
	// ExposureHalfCount is the attempt count at which the exposure
	// fraction reaches one half.
	ExposureHalfCount float64 `yaml:"exposure_half_count"`
	// MinStdDev floors each arm's sampling spread.
	MinStdDev float64 `yaml:"min_std_dev"`
	// PriorSigma is the spread used for objectives the learner has never
	// practiced.
	PriorSigma float64 `yaml:"prior_sigma"`
}

// DefaultConfig returns sensible defaults for the sampler.
func DefaultConfig() Config {
	return Config{
		NeedWeight:        1.0,
		ExposurePenalty:   0.5,
		OverdueBoost:      0.75,
		ExposureHalfCount: 10,
		MinStdDev:         0.05,
		PriorSigma:        1.0,
	}
}

// Arm is one candidate objective with its sampling distribution and the
// deterministic utility behind it.
type Arm struct {
	LOID   string
	Mean   float64
	StdDev float64
}

// Choice is the sampler's decision. Score is the arm's deterministic mean
// utility and Sample the stochastic draw that won; both are surfaced so the
// caller can explain "why this next" with real numbers.
type Choice struct {
	LOID   string
	Score  float64
	Sample float64
}

// BuildArms constructs one arm per objective that has at least one
// published item. Arms are returned sorted by objective id so the draw
// order is reproducible under an injected source.
func BuildArms(st *learner.State, items []content.Item, nowMs int64, cfg Config) []Arm {
	supply := content.PublishedByLO(items)
	if len(supply) == 0 {
		return nil
	}

	loIDs := make([]string, 0, len(supply))
	for lo, n := range supply {
		if n > 0 {
			loIDs = append(loIDs, lo)
		}
	}
	sort.Strings(loIDs)

	arms := make([]Arm, 0, len(loIDs))
	for _, lo := range loIDs {
		arms = append(arms, Arm{
			LOID:   lo,
			Mean:   armMean(st, items, lo, nowMs, cfg),
			StdDev: armStdDev(st, lo, cfg),
		})
	}
	return arms
}

// armMean folds three signals: need (low ability), freshness (exposure
// penalty), and review pressure (fraction of the objective's items due).
func armMean(st *learner.State, items []content.Item, loID string, nowMs int64, cfg Config) float64 {
	var theta float64
	var attempted float64
	if ls, ok := st.LOs[loID]; ok {
		theta = ls.ThetaHat
		attempted = float64(ls.ItemsAttempted)
	}

	need := -cfg.NeedWeight * theta
	exposure := attempted / (attempted + cfg.ExposureHalfCount)
	due := duePressure(st, items, loID, nowMs)

	return need - cfg.ExposurePenalty*exposure + cfg.OverdueBoost*due
}

func armStdDev(st *learner.State, loID string, cfg Config) float64 {
	sd := cfg.PriorSigma
	if ls, ok := st.LOs[loID]; ok {
		sd = ls.SE
	}
	return math.Max(sd, cfg.MinStdDev)
}

// duePressure is the fraction of the objective's published items whose
// retention state says they are due at nowMs. Items never attempted do not
// count as due.
func duePressure(st *learner.State, items []content.Item, loID string, nowMs int64) float64 {
	total, due := 0, 0
	for i := range items {
		if items[i].Status != content.StatusPublished || !items[i].HasLO(loID) {
			continue
		}
		total++
		if rt, ok := st.Retention[items[i].ID]; ok && rt.NextReviewMs <= nowMs {
			due++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(due) / float64(total)
}

// ScheduleNextLO draws one sample per arm from the given source and returns
// the arm with the highest draw, or nil when there are no arms — an
// expected "nothing to schedule" state, not an error.
func ScheduleNextLO(arms []Arm, src rand.Source) *Choice {
	if len(arms) == 0 {
		return nil
	}

	rng := rand.New(src)
	var best *Choice
	for _, arm := range arms {
		sample := arm.Mean + arm.StdDev*rng.NormFloat64()
		if best == nil || sample > best.Sample {
			best = &Choice{LOID: arm.LOID, Score: arm.Mean, Sample: sample}
		}
	}
	return best
}
