// Package learner holds the authoritative per-learner state: per-objective
// ability estimates, per-item exposure, and per-item retention schedules.
// State is mutated only through the Store's named update operations.
package learner

const (
	// RecentSECap bounds the per-objective standard-error history.
	RecentSECap = 10
	// RecentAttemptsCap bounds the per-item outcome history.
	RecentAttemptsCap = 10
)

// LoState is a learner's ability estimate for one learning objective.
type LoState struct {
	ThetaHat       float64   `json:"theta_hat"`
	SE             float64   `json:"se"`
	ItemsAttempted int       `json:"items_attempted"`
	RecentSEs      []float64 `json:"recent_ses"`
	PriorMu        float64   `json:"prior_mu"`
	PriorSigma     float64   `json:"prior_sigma"`
}

// PushSE appends a standard error to the bounded history, dropping the
// oldest entry on overflow.
func (ls *LoState) PushSE(se float64) {
	ls.RecentSEs = append(ls.RecentSEs, se)
	if len(ls.RecentSEs) > RecentSECap {
		ls.RecentSEs = ls.RecentSEs[len(ls.RecentSEs)-RecentSECap:]
	}
}

// ItemExposure tracks a learner's attempt history on one item.
type ItemExposure struct {
	Attempts       int    `json:"attempts"`
	Correct        int    `json:"correct"`
	LastAttemptMs  int64  `json:"last_attempt_ms"`
	RecentAttempts []bool `json:"recent_attempts"`
}

func (ie *ItemExposure) push(correct bool) {
	ie.RecentAttempts = append(ie.RecentAttempts, correct)
	if len(ie.RecentAttempts) > RecentAttemptsCap {
		ie.RecentAttempts = ie.RecentAttempts[len(ie.RecentAttempts)-RecentAttemptsCap:]
	}
}

// Retention is a learner's forgetting-curve state for one item.
type Retention struct {
	HalfLifeHours  float64 `json:"half_life_hours"`
	NextReviewMs   int64   `json:"next_review_ms"`
	FatigueStrikes int     `json:"fatigue_strikes"`
}

// State is the aggregate root for one learner. Maps are always non-nil.
type State struct {
	LearnerID string                   `json:"learner_id"`
	LOs       map[string]*LoState      `json:"los"`
	Items     map[string]*ItemExposure `json:"items"`
	Retention map[string]*Retention    `json:"retention"`
}

// NewState returns an empty, fully-initialized state for a learner.
func NewState(learnerID string) *State {
	return &State{
		LearnerID: learnerID,
		LOs:       make(map[string]*LoState),
		Items:     make(map[string]*ItemExposure),
		Retention: make(map[string]*Retention),
	}
}

// ensureMaps repairs nil maps on states loaded from persistence.
func (st *State) ensureMaps() {
	if st.LOs == nil {
		st.LOs = make(map[string]*LoState)
	}
	if st.Items == nil {
		st.Items = make(map[string]*ItemExposure)
	}
	if st.Retention == nil {
		st.Retention = make(map[string]*Retention)
	}
}
