// Package engine wires the deterministic kernels — estimator, retention
// scheduler, blueprint fitter, objective sampler — over the learner state
// store and the attempt log, and exposes the four entry points the
// transport layer calls: record attempt, next objective, build form, refit.
package engine

import (
	"context"
	"math/rand"
	"time"

	"github.com/kadence-learn/kadence/internal/config"
	"github.com/kadence-learn/kadence/internal/content"
	"github.com/kadence-learn/kadence/internal/learner"
	"github.com/kadence-learn/kadence/internal/logger"
	"github.com/kadence-learn/kadence/internal/store"
)

// ContentStore is the engine's read-only view of the external content
// service.
type ContentStore interface {
	PublishedItems(ctx context.Context) ([]content.Item, error)
	Item(ctx context.Context, id string) (*content.Item, error)
	Blueprint(ctx context.Context, id string) (*content.Blueprint, error)
}

// Deps are the engine's collaborators. Clock and Entropy are injectable so
// tests can pin time and randomness; nil selects the production sources.
type Deps struct {
	Learners *learner.Store
	Attempts store.AttemptLog
	Content  ContentStore
	Log      *logger.Logger
	Clock    func() time.Time
	Entropy  func() rand.Source
}

// Engine is constructed once per process and shared across request
// handlers; all of its methods are safe for concurrent use.
type Engine struct {
	cfg      config.Config
	learners *learner.Store
	attempts store.AttemptLog
	content  ContentStore
	log      *logger.Logger
	clock    func() time.Time
	entropy  func() rand.Source
}

// New validates the configuration and builds an engine.
func New(cfg config.Config, deps Deps) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:      cfg,
		learners: deps.Learners,
		attempts: deps.Attempts,
		content:  deps.Content,
		log:      deps.Log,
		clock:    deps.Clock,
		entropy:  deps.Entropy,
	}
	if e.log == nil {
		e.log = logger.Nop()
	}
	if e.clock == nil {
		e.clock = time.Now
	}
	if e.entropy == nil {
		e.entropy = func() rand.Source {
			return rand.NewSource(time.Now().UnixNano())
		}
	}
	return e, nil
}
