package retention

import (
	"math"
	"testing"
)

func TestUpdateHalfLife_GrowsOnCorrect(t *testing.T) {
	cfg := DefaultConfig()
	up, err := UpdateHalfLife(12, 0.6, true, 0, cfg)
	if err != nil {
		t.Fatalf("UpdateHalfLife: %v", err)
	}
	if up.HalfLifeHours <= 12 {
		t.Errorf("half-life did not grow: %v", up.HalfLifeHours)
	}
	if up.CooldownApplied {
		t.Error("cooldown applied on a correct answer")
	}
}

func TestUpdateHalfLife_SurpriseScalesGrowth(t *testing.T) {
	cfg := DefaultConfig()
	surprising, _ := UpdateHalfLife(12, 0.2, true, 0, cfg)
	routine, _ := UpdateHalfLife(12, 0.9, true, 0, cfg)
	if surprising.HalfLifeHours <= routine.HalfLifeHours {
		t.Errorf("surprising success grew %v, routine grew %v; want surprising larger",
			surprising.HalfLifeHours, routine.HalfLifeHours)
	}
}

func TestUpdateHalfLife_ShrinksOnIncorrect(t *testing.T) {
	cfg := DefaultConfig()
	up, err := UpdateHalfLife(12, 0.6, false, 0, cfg)
	if err != nil {
		t.Fatalf("UpdateHalfLife: %v", err)
	}
	if up.HalfLifeHours >= 12 {
		t.Errorf("half-life did not shrink: %v", up.HalfLifeHours)
	}
	if up.CooldownApplied {
		t.Error("cooldown applied below strike threshold")
	}
}

func TestUpdateHalfLife_FatigueCooldown(t *testing.T) {
	cfg := DefaultConfig()
	plainMiss, err := UpdateHalfLife(12, 0.6, false, 0, cfg)
	if err != nil {
		t.Fatalf("plain miss: %v", err)
	}
	fatigued, err := UpdateHalfLife(12, 0.6, false, cfg.FatigueStrikeThreshold, cfg)
	if err != nil {
		t.Fatalf("fatigued miss: %v", err)
	}
	if !fatigued.CooldownApplied {
		t.Error("CooldownApplied = false at strike threshold")
	}
	if fatigued.HalfLifeHours >= plainMiss.HalfLifeHours {
		t.Errorf("fatigued half-life %v not strictly smaller than plain miss %v",
			fatigued.HalfLifeHours, plainMiss.HalfLifeHours)
	}
}

func TestUpdateHalfLife_CapsAtMax(t *testing.T) {
	cfg := DefaultConfig()
	up, err := UpdateHalfLife(cfg.MaxHalfLifeHours, 0.1, true, 0, cfg)
	if err != nil {
		t.Fatalf("UpdateHalfLife: %v", err)
	}
	if up.HalfLifeHours > cfg.MaxHalfLifeHours {
		t.Errorf("half-life %v exceeds cap %v", up.HalfLifeHours, cfg.MaxHalfLifeHours)
	}
}

func TestUpdateHalfLife_RejectsBadInput(t *testing.T) {
	cfg := DefaultConfig()
	cases := []struct {
		name    string
		hl, exp float64
		strikes int
	}{
		{"negative half-life", -1, 0.5, 0},
		{"zero half-life", 0, 0.5, 0},
		{"nan half-life", math.NaN(), 0.5, 0},
		{"expected above 1", 12, 1.5, 0},
		{"expected below 0", 12, -0.1, 0},
		{"nan expected", 12, math.NaN(), 0},
		{"negative strikes", 12, 0.5, -1},
	}
	for _, tc := range cases {
		if _, err := UpdateHalfLife(tc.hl, tc.exp, false, tc.strikes, cfg); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestScheduleNextReview_FloorClamp(t *testing.T) {
	cfg := DefaultConfig()
	floorMs := int64(cfg.MinHalfLifeHours * 60 * 60 * 1000)

	for _, hl := range []float64{0, -5, 0.0001, cfg.MinHalfLifeHours / 10} {
		sched, err := ScheduleNextReview(hl, 1_000_000, cfg)
		if err != nil {
			t.Fatalf("ScheduleNextReview(%v): %v", hl, err)
		}
		if sched.IntervalMs < floorMs {
			t.Errorf("half-life %v: interval %v below floor %v", hl, sched.IntervalMs, floorMs)
		}
		if sched.IntervalMs <= 0 {
			t.Errorf("half-life %v: non-positive interval %v", hl, sched.IntervalMs)
		}
		if sched.NextReviewMs != 1_000_000+sched.IntervalMs {
			t.Errorf("NextReviewMs %v != now + interval", sched.NextReviewMs)
		}
	}
}

func TestScheduleNextReview_LongerHalfLifeLongerInterval(t *testing.T) {
	cfg := DefaultConfig()
	short, _ := ScheduleNextReview(24, 0, cfg)
	long, _ := ScheduleNextReview(240, 0, cfg)
	if long.IntervalMs <= short.IntervalMs {
		t.Errorf("interval for 240h half-life (%v) not longer than 24h (%v)",
			long.IntervalMs, short.IntervalMs)
	}
}

func TestScheduleNextReview_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	a, _ := ScheduleNextReview(36.5, 42, cfg)
	b, _ := ScheduleNextReview(36.5, 42, cfg)
	if a != b {
		t.Errorf("identical inputs produced different schedules: %+v vs %+v", a, b)
	}
}

func TestScheduleNextReview_RejectsNonFinite(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := ScheduleNextReview(math.NaN(), 0, cfg); err == nil {
		t.Error("expected error for NaN half-life")
	}
	if _, err := ScheduleNextReview(math.Inf(1), 0, cfg); err == nil {
		t.Error("expected error for infinite half-life")
	}
}

func TestIsFastIncorrect(t *testing.T) {
	cfg := DefaultConfig()
	cases := []struct {
		name       string
		durationMs int64
		correct    bool
		want       bool
	}{
		{"fast wrong", 900, false, true},
		{"fast right", 900, true, false},
		{"slow wrong", 5000, false, false},
		{"at threshold", cfg.FastAnswerMs, false, false},
		{"negative duration", -1, false, false},
	}
	for _, tc := range cases {
		if got := IsFastIncorrect(tc.durationMs, tc.correct, cfg); got != tc.want {
			t.Errorf("%s: IsFastIncorrect = %v, want %v", tc.name, got, tc.want)
		}
	}
}
