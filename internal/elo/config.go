package elo

import "github.com/kadence-learn/kadence/internal/valid"

// Config holds the estimator's tuning constants.
type Config struct {
	// KUserLearn is the ability learning rate for practice attempts.
	KUserLearn float64 `yaml:"k_user_learn"`
	// KUserExam is the ability learning rate for exam attempts.
	// Must be strictly smaller than KUserLearn: an exam attempt perturbs
	// ability less than a practice attempt of equal surprise.
	KUserExam float64 `yaml:"k_user_exam"`
	// KItem is the item difficulty learning rate.
	KItem float64 `yaml:"k_item"`
	// MaxDeltaUser caps the magnitude of a single ability update.
	MaxDeltaUser float64 `yaml:"max_delta_user"`
	// MaxDeltaItem caps the magnitude of a single difficulty update.
	MaxDeltaItem float64 `yaml:"max_delta_item"`
	// MinSE is the floor for a learner's standard error.
	MinSE float64 `yaml:"min_se"`
}

// DefaultConfig returns sensible defaults for the estimator.
func DefaultConfig() Config {
	return Config{
		KUserLearn:   0.40,
		KUserExam:    0.20,
		KItem:        0.30,
		MaxDeltaUser: 0.50,
		MaxDeltaItem: 0.25,
		MinSE:        0.10,
	}
}

// Validate checks the config's internal consistency.
func (c Config) Validate() error {
	if err := valid.Positive("kUserLearn", c.KUserLearn); err != nil {
		return err
	}
	if err := valid.Positive("kUserExam", c.KUserExam); err != nil {
		return err
	}
	if c.KUserExam >= c.KUserLearn {
		return &valid.FieldError{Field: "kUserExam", Reason: "must be strictly smaller than kUserLearn"}
	}
	if err := valid.Positive("kItem", c.KItem); err != nil {
		return err
	}
	if err := valid.Positive("maxDeltaUser", c.MaxDeltaUser); err != nil {
		return err
	}
	if err := valid.Positive("maxDeltaItem", c.MaxDeltaItem); err != nil {
		return err
	}
	return valid.Positive("minSE", c.MinSE)
}
