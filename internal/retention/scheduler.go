// Package retention implements the forgetting-curve half-life scheduler.
//
// Each (learner, item) pair carries a half-life: the time for recall
// probability to decay to 50%. A correct answer stretches the half-life,
// scaled by how surprising the success was; a miss shrinks it, and a run of
// fast-incorrect answers (guessing under fatigue) shrinks it harder still.
// The next review lands where recall is predicted to hit the target
// retention probability, never sooner than the configured floor.
package retention

import (
	"math"

	"github.com/kadence-learn/kadence/internal/valid"
)

// Update is the result of a half-life update.
type Update struct {
	HalfLifeHours   float64
	CooldownApplied bool
}

// Schedule is the result of computing the next review time.
type Schedule struct {
	NextReviewMs int64
	IntervalMs   int64
}

// UpdateHalfLife returns the half-life after one attempt.
//
// On a correct answer the half-life grows by a surprise-scaled multiplier:
// an unexpected success (low expected probability) stretches it close to
// MaxGrowthFactor, a routine success barely moves it. On a miss the
// half-life shrinks by ShrinkFactor; once fatigueStrikes reaches the
// configured threshold the cooldown multiplier is applied on top and
// CooldownApplied is set.
func UpdateHalfLife(halfLifeHours, expected float64, correct bool, fatigueStrikes int, cfg Config) (Update, error) {
	if err := cfg.Validate(); err != nil {
		return Update{}, err
	}
	if err := valid.Positive("halfLifeHours", halfLifeHours); err != nil {
		return Update{}, err
	}
	if err := valid.Finite("expected", expected); err != nil {
		return Update{}, err
	}
	if expected < 0 || expected > 1 {
		return Update{}, &valid.FieldError{Field: "expected", Reason: "must be in [0, 1]"}
	}
	if fatigueStrikes < 0 {
		return Update{}, &valid.FieldError{Field: "fatigueStrikes", Reason: "must be >= 0"}
	}

	if correct {
		growth := 1 + (cfg.MaxGrowthFactor-1)*(1-expected)
		next := math.Min(halfLifeHours*growth, cfg.MaxHalfLifeHours)
		return Update{HalfLifeHours: next}, nil
	}

	next := halfLifeHours * cfg.ShrinkFactor
	cooldown := fatigueStrikes >= cfg.FatigueStrikeThreshold
	if cooldown {
		next *= cfg.FatigueCooldownMultiplier
	}
	return Update{HalfLifeHours: next, CooldownApplied: cooldown}, nil
}

// ScheduleNextReview computes when the item should next be reviewed.
//
// Recall decays as R(t) = 2^(-t/halfLife); the interval solves
// R(t) = TargetRetention. Zero or negative half-life input is clamped to
// MinHalfLifeHours rather than rejected (documented policy for the
// degenerate case), and the interval itself never drops below
// MinHalfLifeHours expressed in milliseconds.
func ScheduleNextReview(halfLifeHours float64, nowMs int64, cfg Config) (Schedule, error) {
	if err := cfg.Validate(); err != nil {
		return Schedule{}, err
	}
	if err := valid.Finite("halfLifeHours", halfLifeHours); err != nil {
		return Schedule{}, err
	}
	if nowMs < 0 {
		return Schedule{}, &valid.FieldError{Field: "nowMs", Reason: "must be >= 0"}
	}

	h := math.Max(halfLifeHours, cfg.MinHalfLifeHours)
	intervalHours := h * math.Log2(1/cfg.TargetRetention)

	floorMs := int64(cfg.MinHalfLifeHours * float64(millisPerHour))
	intervalMs := int64(intervalHours * float64(millisPerHour))
	if intervalMs < floorMs {
		intervalMs = floorMs
	}

	return Schedule{
		NextReviewMs: nowMs + intervalMs,
		IntervalMs:   intervalMs,
	}, nil
}

// IsFastIncorrect reports whether an attempt counts as a fatigue strike:
// incorrect and submitted faster than the fast-answer threshold.
func IsFastIncorrect(durationMs int64, correct bool, cfg Config) bool {
	if correct || durationMs < 0 {
		return false
	}
	return durationMs < cfg.FastAnswerMs
}

const millisPerHour = 60 * 60 * 1000
