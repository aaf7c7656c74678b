package learner

import (
	"context"
	"fmt"
	"sync"
)

// Persistence is the narrow durable-storage interface the store writes
// through. Load returns (nil, nil) when the learner has no saved state.
type Persistence interface {
	Load(ctx context.Context, learnerID string) (*State, error)
	Save(ctx context.Context, learnerID string, st *State) error
}

// Defaults seeds fresh per-objective and per-item state.
type Defaults struct {
	PriorMu              float64
	PriorSigma           float64
	InitialHalfLifeHours float64
}

// DefaultDefaults returns the standard seed values.
func DefaultDefaults() Defaults {
	return Defaults{
		PriorMu:              0.0,
		PriorSigma:           1.0,
		InitialHalfLifeHours: 12.0,
	}
}

// Store is the in-process learner-state store. It is constructed once per
// process and injected into every caller; there is no package-level state.
//
// Updates are serialized per learner: a per-learner mutex covers the whole
// read-modify-write-persist cycle, so racing attempts from the same learner
// (multi-device use) cannot lose updates, while different learners proceed
// fully in parallel. Mutations are applied in memory first and then
// persisted; a persistence failure surfaces to the caller unmodified and
// the in-memory mutation stands, so a caller-side retry persists the same
// state rather than re-applying the mutation.
type Store struct {
	mu       sync.Mutex // guards learners map
	learners map[string]*entry
	persist  Persistence
	defaults Defaults
}

type entry struct {
	mu    sync.Mutex
	state *State
}

// NewStore creates a store over the given persistence layer.
func NewStore(p Persistence, d Defaults) *Store {
	return &Store{
		learners: make(map[string]*entry),
		persist:  p,
		defaults: d,
	}
}

func (s *Store) entryFor(learnerID string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.learners[learnerID]
	if !ok {
		e = &entry{}
		s.learners[learnerID] = e
	}
	return e
}

// loadLocked populates e.state from persistence or fresh. e.mu must be held.
func (s *Store) loadLocked(ctx context.Context, e *entry, learnerID string) error {
	if e.state != nil {
		return nil
	}
	if s.persist != nil {
		st, err := s.persist.Load(ctx, learnerID)
		if err != nil {
			return fmt.Errorf("load learner %s: %w", learnerID, err)
		}
		if st != nil {
			st.ensureMaps()
			e.state = st
			return nil
		}
	}
	e.state = NewState(learnerID)
	return nil
}

// Load returns the learner's state, initializing an empty one on first
// access. The returned maps are never nil.
func (s *Store) Load(ctx context.Context, learnerID string) (*State, error) {
	e := s.entryFor(learnerID)
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := s.loadLocked(ctx, e, learnerID); err != nil {
		return nil, err
	}
	return e.state, nil
}

// UpdateLoState applies fn to the learner's state for one objective,
// creating default state seeded from the priors if absent, then persists.
func (s *Store) UpdateLoState(ctx context.Context, learnerID, loID string, fn func(*LoState)) error {
	return s.update(ctx, learnerID, func(st *State) {
		ls, ok := st.LOs[loID]
		if !ok {
			ls = &LoState{
				ThetaHat:   s.defaults.PriorMu,
				SE:         s.defaults.PriorSigma,
				PriorMu:    s.defaults.PriorMu,
				PriorSigma: s.defaults.PriorSigma,
			}
			st.LOs[loID] = ls
		}
		fn(ls)
	})
}

// RecordItemExposure increments the learner's attempt counters for an item
// and appends the outcome to the bounded history. Retention state is not
// touched here; retention updates are a separate explicit call so callers
// can compose the estimator and the scheduler independently.
func (s *Store) RecordItemExposure(ctx context.Context, learnerID, itemID string, correct bool, tsMs int64) error {
	return s.update(ctx, learnerID, func(st *State) {
		ie, ok := st.Items[itemID]
		if !ok {
			ie = &ItemExposure{}
			st.Items[itemID] = ie
		}
		ie.Attempts++
		if correct {
			ie.Correct++
		}
		ie.LastAttemptMs = tsMs
		ie.push(correct)
	})
}

// UpdateRetention applies fn to the learner's retention state for one item,
// creating default state with the initial half-life if absent.
func (s *Store) UpdateRetention(ctx context.Context, learnerID, itemID string, fn func(*Retention)) error {
	return s.update(ctx, learnerID, func(st *State) {
		rt, ok := st.Retention[itemID]
		if !ok {
			rt = &Retention{HalfLifeHours: s.defaults.InitialHalfLifeHours}
			st.Retention[itemID] = rt
		}
		fn(rt)
	})
}

func (s *Store) update(ctx context.Context, learnerID string, mutate func(*State)) error {
	e := s.entryFor(learnerID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := s.loadLocked(ctx, e, learnerID); err != nil {
		return err
	}

	mutate(e.state)

	if s.persist == nil {
		return nil
	}
	if err := s.persist.Save(ctx, learnerID, e.state); err != nil {
		return fmt.Errorf("persist learner %s: %w", learnerID, err)
	}
	return nil
}
