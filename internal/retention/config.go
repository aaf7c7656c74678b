package retention

import "github.com/kadence-learn/kadence/internal/valid"

// FastAnswerThresholdMs is the maximum response time (exclusive) for a
// wrong answer to count as a fast-incorrect fatigue strike.
const FastAnswerThresholdMs = 2000

// Config holds the scheduler's tuning constants.
type Config struct {
	// MaxGrowthFactor is the half-life multiplier ceiling on a correct
	// answer; the realized multiplier scales with surprise.
	MaxGrowthFactor float64 `yaml:"max_growth_factor"`
	// ShrinkFactor is the half-life multiplier on an incorrect answer.
	ShrinkFactor float64 `yaml:"shrink_factor"`
	// FatigueStrikeThreshold is the consecutive fast-incorrect count at
	// which the cooldown multiplier kicks in.
	FatigueStrikeThreshold int `yaml:"fatigue_strike_threshold"`
	// FatigueCooldownMultiplier shrinks the half-life beyond a normal miss
	// when the learner is guessing under fatigue.
	FatigueCooldownMultiplier float64 `yaml:"fatigue_cooldown_multiplier"`
	// MinHalfLifeHours floors the half-life used for interval computation
	// and the interval itself. Load-bearing: a near-zero half-life must
	// never schedule a review sooner than this.
	MinHalfLifeHours float64 `yaml:"min_half_life_hours"`
	// MaxHalfLifeHours caps half-life growth.
	MaxHalfLifeHours float64 `yaml:"max_half_life_hours"`
	// TargetRetention is the recall probability the next review aims for.
	TargetRetention float64 `yaml:"target_retention"`
	// FastAnswerMs is the fast-incorrect threshold in milliseconds.
	FastAnswerMs int64 `yaml:"fast_answer_ms"`
	// InitialHalfLifeHours seeds retention state for a first attempt.
	InitialHalfLifeHours float64 `yaml:"initial_half_life_hours"`
}

// DefaultConfig returns sensible defaults for the scheduler.
func DefaultConfig() Config {
	return Config{
		MaxGrowthFactor:           2.5,
		ShrinkFactor:              0.5,
		FatigueStrikeThreshold:    3,
		FatigueCooldownMultiplier: 0.5,
		MinHalfLifeHours:          2.0,
		MaxHalfLifeHours:          24 * 120,
		TargetRetention:           0.90,
		FastAnswerMs:              FastAnswerThresholdMs,
		InitialHalfLifeHours:      12.0,
	}
}

// Validate checks the config's internal consistency.
func (c Config) Validate() error {
	if err := valid.Positive("maxGrowthFactor", c.MaxGrowthFactor); err != nil {
		return err
	}
	if c.MaxGrowthFactor < 1 {
		return &valid.FieldError{Field: "maxGrowthFactor", Reason: "must be >= 1"}
	}
	if err := valid.Positive("shrinkFactor", c.ShrinkFactor); err != nil {
		return err
	}
	if c.ShrinkFactor >= 1 {
		return &valid.FieldError{Field: "shrinkFactor", Reason: "must be < 1"}
	}
	if c.FatigueStrikeThreshold < 1 {
		return &valid.FieldError{Field: "fatigueStrikeThreshold", Reason: "must be >= 1"}
	}
	if err := valid.Positive("fatigueCooldownMultiplier", c.FatigueCooldownMultiplier); err != nil {
		return err
	}
	if c.FatigueCooldownMultiplier >= 1 {
		return &valid.FieldError{Field: "fatigueCooldownMultiplier", Reason: "must be < 1"}
	}
	if err := valid.Positive("minHalfLifeHours", c.MinHalfLifeHours); err != nil {
		return err
	}
	if err := valid.Positive("maxHalfLifeHours", c.MaxHalfLifeHours); err != nil {
		return err
	}
	if err := valid.Positive("targetRetention", c.TargetRetention); err != nil {
		return err
	}
	if c.TargetRetention >= 1 {
		return &valid.FieldError{Field: "targetRetention", Reason: "must be < 1"}
	}
	if c.FastAnswerMs <= 0 {
		return &valid.FieldError{Field: "fastAnswerMs", Reason: "must be > 0"}
	}
	return valid.Positive("initialHalfLifeHours", c.InitialHalfLifeHours)
}
