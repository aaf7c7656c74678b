package engine

import (
	"context"
	"fmt"

	"github.com/kadence-learn/kadence/internal/elo"
	"github.com/kadence-learn/kadence/internal/learner"
	"github.com/kadence-learn/kadence/internal/retention"
	"github.com/kadence-learn/kadence/internal/store"
	"github.com/kadence-learn/kadence/internal/valid"
)

// AttemptResult reports the state an attempt produced, for display.
type AttemptResult struct {
	// ThetaByLO and SEByLO hold the updated ability estimate per
	// objective the item was tagged with.
	ThetaByLO map[string]float64
	SEByLO    map[string]float64
	// ItemDifficulty is the item's re-estimated difficulty. Item records
	// themselves are immutable here; publishing the new value is the
	// content pipeline's job.
	ItemDifficulty float64
	// NextReviewMs is when the item should next be reviewed.
	NextReviewMs int64
	// CooldownApplied reports whether the fatigue cooldown fired.
	CooldownApplied bool
}

// RecordAttempt runs one attempt through the estimator and the retention
// scheduler, mutates the learner's state, and appends the event to the
// attempt log. Persistence failures surface unmodified; the caller must
// not replay the attempt on retry.
func (e *Engine) RecordAttempt(ctx context.Context, ev store.AttemptEvent) (*AttemptResult, error) {
	if err := validateAttempt(&ev); err != nil {
		return nil, err
	}

	item, err := e.content.Item(ctx, ev.ItemID)
	if err != nil {
		return nil, fmt.Errorf("resolve item: %w", err)
	}
	if err := valid.Finite("item.difficulty", item.Difficulty); err != nil {
		return nil, err
	}

	mode := elo.Mode(ev.Mode)
	result := &AttemptResult{
		ThetaByLO: make(map[string]float64, len(ev.LOIDs)),
		SEByLO:    make(map[string]float64, len(ev.LOIDs)),
	}

	// Ability update per tagged objective. The pre-update estimates also
	// feed the retention scheduler's expectation below.
	var thetaSum float64
	for _, loID := range ev.LOIDs {
		var updateErr error
		err := e.learners.UpdateLoState(ctx, ev.UserID, loID, func(ls *learner.LoState) {
			thetaSum += ls.ThetaHat

			expected := elo.ExpectedProbability(ls.ThetaHat, item.Difficulty)
			theta, err := elo.UpdateAbility(ls.ThetaHat, item.Difficulty, ev.Correct, mode, e.cfg.Elo)
			if err != nil {
				updateErr = err
				return
			}
			se, err := elo.UpdateSE(ls.SE, expected, e.cfg.Elo)
			if err != nil {
				updateErr = err
				return
			}

			ls.ThetaHat = theta
			ls.SE = se
			ls.ItemsAttempted++
			ls.PushSE(se)

			result.ThetaByLO[loID] = theta
			result.SEByLO[loID] = se
		})
		if err != nil {
			return nil, err
		}
		if updateErr != nil {
			return nil, updateErr
		}
	}

	meanTheta := thetaSum / float64(len(ev.LOIDs))
	expected := elo.ExpectedProbability(meanTheta, item.Difficulty)

	beta, err := elo.UpdateItemDifficulty(meanTheta, item.Difficulty, ev.Correct, e.cfg.Elo)
	if err != nil {
		return nil, err
	}
	result.ItemDifficulty = beta

	if err := e.learners.RecordItemExposure(ctx, ev.UserID, ev.ItemID, ev.Correct, ev.TsSubmitMs); err != nil {
		return nil, err
	}

	var retErr error
	err = e.learners.UpdateRetention(ctx, ev.UserID, ev.ItemID, func(rt *learner.Retention) {
		if retention.IsFastIncorrect(ev.DurationMs, ev.Correct, e.cfg.Retention) {
			rt.FatigueStrikes++
		} else {
			rt.FatigueStrikes = 0
		}

		up, err := retention.UpdateHalfLife(rt.HalfLifeHours, expected, ev.Correct, rt.FatigueStrikes, e.cfg.Retention)
		if err != nil {
			retErr = err
			return
		}
		sched, err := retention.ScheduleNextReview(up.HalfLifeHours, ev.TsSubmitMs, e.cfg.Retention)
		if err != nil {
			retErr = err
			return
		}

		rt.HalfLifeHours = up.HalfLifeHours
		rt.NextReviewMs = sched.NextReviewMs

		result.NextReviewMs = sched.NextReviewMs
		result.CooldownApplied = up.CooldownApplied
	})
	if err != nil {
		return nil, err
	}
	if retErr != nil {
		return nil, retErr
	}

	if err := e.attempts.Append(ctx, &ev); err != nil {
		return nil, fmt.Errorf("append attempt: %w", err)
	}

	e.log.Debug("attempt recorded",
		"learner", ev.UserID,
		"item", ev.ItemID,
		"correct", ev.Correct,
		"mode", ev.Mode,
		"next_review_ms", result.NextReviewMs,
	)
	return result, nil
}

func validateAttempt(ev *store.AttemptEvent) error {
	if ev.UserID == "" {
		return &valid.FieldError{Field: "userId", Reason: "must not be empty"}
	}
	if ev.ItemID == "" {
		return &valid.FieldError{Field: "itemId", Reason: "must not be empty"}
	}
	if len(ev.LOIDs) == 0 {
		return &valid.FieldError{Field: "loIds", Reason: "must not be empty"}
	}
	if ev.Mode != string(elo.ModeLearn) && ev.Mode != string(elo.ModeExam) {
		return &valid.FieldError{Field: "mode", Reason: "must be learn or exam"}
	}
	if ev.TsSubmitMs < ev.TsStartMs {
		return &valid.FieldError{Field: "tsSubmit", Reason: "must not precede tsStart"}
	}
	if ev.DurationMs < 0 {
		return &valid.FieldError{Field: "durationMs", Reason: "must be >= 0"}
	}
	return nil
}
