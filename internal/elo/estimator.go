// Package elo implements the Elo-lite ability/difficulty estimator.
//
// A learner's per-objective ability (theta) and an item's difficulty (beta)
// live on the same logistic scale. Each attempt moves both estimates toward
// the observed outcome proportional to the surprise (actual minus expected),
// clamped so a single outlier observation cannot swing an estimate.
//
// Every function here is a pure function of its arguments: no clock reads,
// no randomness, bit-for-bit reproducible.
package elo

import (
	"math"

	"github.com/kadence-learn/kadence/internal/valid"
)

// Mode distinguishes practice attempts from exam attempts.
type Mode string

const (
	ModeLearn Mode = "learn"
	ModeExam  Mode = "exam"
)

// ExpectedProbability returns the probability of a correct response for a
// learner of ability theta on an item of difficulty beta.
// Symmetric: ExpectedProbability(x, x) == 0.5 for all finite x.
func ExpectedProbability(theta, beta float64) float64 {
	return 1.0 / (1.0 + math.Exp(beta-theta))
}

// UpdateAbility returns the learner's ability after one attempt.
// The delta is k(mode) * (actual - expected), clamped to ±MaxDeltaUser.
func UpdateAbility(theta, beta float64, correct bool, mode Mode, cfg Config) (float64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if err := valid.Finite("theta", theta); err != nil {
		return 0, err
	}
	if err := valid.Finite("beta", beta); err != nil {
		return 0, err
	}
	if mode != ModeLearn && mode != ModeExam {
		return 0, &valid.FieldError{Field: "mode", Reason: "must be learn or exam"}
	}

	k := cfg.KUserLearn
	if mode == ModeExam {
		k = cfg.KUserExam
	}

	delta := k * (actual(correct) - ExpectedProbability(theta, beta))
	return theta + clamp(delta, -cfg.MaxDeltaUser, cfg.MaxDeltaUser), nil
}

// UpdateItemDifficulty returns the item's difficulty after one attempt.
// It moves opposite to the ability update: a correct answer nudges the item
// easier, and by more the harder the item was relative to the learner.
func UpdateItemDifficulty(theta, beta float64, correct bool, cfg Config) (float64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if err := valid.Finite("theta", theta); err != nil {
		return 0, err
	}
	if err := valid.Finite("beta", beta); err != nil {
		return 0, err
	}

	delta := cfg.KItem * (actual(correct) - ExpectedProbability(theta, beta))
	return beta - clamp(delta, -cfg.MaxDeltaItem, cfg.MaxDeltaItem), nil
}

// UpdateSE returns the learner's standard error after one attempt. Each
// observation carries Fisher information p*(1-p); more informative attempts
// shrink the error faster. The result never drops below MinSE.
func UpdateSE(se, expected float64, cfg Config) (float64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if err := valid.Positive("se", se); err != nil {
		return 0, err
	}
	if err := valid.Finite("expected", expected); err != nil {
		return 0, err
	}

	info := expected * (1 - expected)
	next := se / math.Sqrt(1+info)
	return math.Max(next, cfg.MinSE), nil
}

func actual(correct bool) float64 {
	if correct {
		return 1.0
	}
	return 0.0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
