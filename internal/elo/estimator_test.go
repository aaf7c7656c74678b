package elo

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestExpectedProbability_Symmetry(t *testing.T) {
	for _, x := range []float64{-3.7, -1, 0, 0.5, 2, 100} {
		if p := ExpectedProbability(x, x); !almostEqual(p, 0.5) {
			t.Errorf("ExpectedProbability(%v, %v) = %v, want 0.5", x, x, p)
		}
	}
}

func TestExpectedProbability_Complement(t *testing.T) {
	pairs := [][2]float64{{0, 0.2}, {-1.5, 2.3}, {0.01, -0.01}, {4, -4}}
	for _, pr := range pairs {
		a, b := pr[0], pr[1]
		sum := ExpectedProbability(a, b) + ExpectedProbability(b, a)
		if !almostEqual(sum, 1.0) {
			t.Errorf("p(%v,%v) + p(%v,%v) = %v, want 1", a, b, b, a, sum)
		}
	}
}

func TestExpectedProbability_Midpoint(t *testing.T) {
	if p := ExpectedProbability(0, 0); p != 0.5 {
		t.Errorf("ExpectedProbability(0, 0) = %v, want exactly 0.5", p)
	}
}

func TestUpdateAbility_Monotonicity(t *testing.T) {
	cfg := DefaultConfig()
	cases := []struct {
		theta, beta float64
	}{
		{0, 0}, {-2, 1}, {3, -3}, {0.5, 0.5},
	}
	for _, tc := range cases {
		up, err := UpdateAbility(tc.theta, tc.beta, true, ModeLearn, cfg)
		if err != nil {
			t.Fatalf("UpdateAbility: %v", err)
		}
		if up < tc.theta {
			t.Errorf("correct answer decreased theta: %v -> %v", tc.theta, up)
		}
		down, err := UpdateAbility(tc.theta, tc.beta, false, ModeLearn, cfg)
		if err != nil {
			t.Fatalf("UpdateAbility: %v", err)
		}
		if down > tc.theta {
			t.Errorf("incorrect answer increased theta: %v -> %v", tc.theta, down)
		}
	}
}

func TestUpdateItemDifficulty_Monotonicity(t *testing.T) {
	cfg := DefaultConfig()
	beta := 0.7
	up, err := UpdateItemDifficulty(0, beta, true, cfg)
	if err != nil {
		t.Fatalf("UpdateItemDifficulty: %v", err)
	}
	if up > beta {
		t.Errorf("correct answer increased beta: %v -> %v", beta, up)
	}
	down, err := UpdateItemDifficulty(0, beta, false, cfg)
	if err != nil {
		t.Fatalf("UpdateItemDifficulty: %v", err)
	}
	if down < beta {
		t.Errorf("incorrect answer decreased beta: %v -> %v", beta, down)
	}
}

func TestUpdateItemDifficulty_HarderItemsMoveMore(t *testing.T) {
	cfg := DefaultConfig()
	hard, _ := UpdateItemDifficulty(0, 2.0, true, cfg)
	easy, _ := UpdateItemDifficulty(0, -2.0, true, cfg)
	if (2.0 - hard) <= (-2.0 - easy) {
		t.Errorf("hard-item drop %v not larger than easy-item drop %v", 2.0-hard, -2.0-easy)
	}
}

func TestUpdateAbility_ExamDeltaStrictlySmaller(t *testing.T) {
	cfg := DefaultConfig()
	theta, beta := 0.0, 0.2
	learn, err := UpdateAbility(theta, beta, true, ModeLearn, cfg)
	if err != nil {
		t.Fatalf("learn update: %v", err)
	}
	exam, err := UpdateAbility(theta, beta, true, ModeExam, cfg)
	if err != nil {
		t.Fatalf("exam update: %v", err)
	}
	if math.Abs(exam-theta) >= math.Abs(learn-theta) {
		t.Errorf("exam delta %v not strictly smaller than learn delta %v", exam-theta, learn-theta)
	}
}

func TestUpdateAbility_Clamped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KUserLearn = 100 // force a delta far beyond the cap
	cfg.KUserExam = 50
	theta, err := UpdateAbility(0, 10, true, ModeLearn, cfg)
	if err != nil {
		t.Fatalf("UpdateAbility: %v", err)
	}
	if math.Abs(theta) > cfg.MaxDeltaUser+epsilon {
		t.Errorf("ability delta %v exceeds MaxDeltaUser %v", theta, cfg.MaxDeltaUser)
	}
}

func TestUpdateItemDifficulty_Clamped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KItem = 100
	beta, err := UpdateItemDifficulty(10, 0, true, cfg)
	if err != nil {
		t.Fatalf("UpdateItemDifficulty: %v", err)
	}
	if math.Abs(beta) > cfg.MaxDeltaItem+epsilon {
		t.Errorf("difficulty delta %v exceeds MaxDeltaItem %v", beta, cfg.MaxDeltaItem)
	}
}

func TestUpdateAbility_Scenario(t *testing.T) {
	// theta=0, beta=0.2, correct, learn mode.
	cfg := DefaultConfig()
	theta, err := UpdateAbility(0, 0.2, true, ModeLearn, cfg)
	if err != nil {
		t.Fatalf("UpdateAbility: %v", err)
	}
	if theta <= 0 {
		t.Errorf("theta' = %v, want > 0", theta)
	}
	beta, err := UpdateItemDifficulty(0, 0.2, true, cfg)
	if err != nil {
		t.Fatalf("UpdateItemDifficulty: %v", err)
	}
	if beta >= 0.2+cfg.MaxDeltaItem {
		t.Errorf("beta' = %v, want < %v", beta, 0.2+cfg.MaxDeltaItem)
	}
}

func TestUpdateAbility_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	a, _ := UpdateAbility(0.123, -0.456, true, ModeLearn, cfg)
	b, _ := UpdateAbility(0.123, -0.456, true, ModeLearn, cfg)
	if a != b {
		t.Errorf("identical inputs produced different outputs: %v vs %v", a, b)
	}
}

func TestUpdateAbility_RejectsNonFinite(t *testing.T) {
	cfg := DefaultConfig()
	cases := []struct {
		name        string
		theta, beta float64
	}{
		{"nan theta", math.NaN(), 0},
		{"inf theta", math.Inf(1), 0},
		{"nan beta", 0, math.NaN()},
		{"inf beta", 0, math.Inf(-1)},
	}
	for _, tc := range cases {
		if _, err := UpdateAbility(tc.theta, tc.beta, true, ModeLearn, cfg); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestConfigValidate_ExamRateMustBeSmaller(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KUserExam = cfg.KUserLearn
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when kUserExam == kUserLearn")
	}
}

func TestUpdateSE_ShrinksAndFloors(t *testing.T) {
	cfg := DefaultConfig()
	se, err := UpdateSE(1.0, 0.5, cfg)
	if err != nil {
		t.Fatalf("UpdateSE: %v", err)
	}
	if se >= 1.0 {
		t.Errorf("SE did not shrink: %v", se)
	}
	floored, err := UpdateSE(cfg.MinSE, 0.5, cfg)
	if err != nil {
		t.Fatalf("UpdateSE: %v", err)
	}
	if floored < cfg.MinSE {
		t.Errorf("SE %v fell below floor %v", floored, cfg.MinSE)
	}
}
