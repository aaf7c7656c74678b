package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kadence-learn/kadence/internal/learner"
)

// LearnerPersistence returns a learner.Persistence backed by this store.
// State is stored as one JSON row per learner; Load returns the
// most-recently-saved value or (nil, nil) for an unknown learner.
func (s *Store) LearnerPersistence() learner.Persistence {
	return &learnerPersistence{db: s}
}

type learnerPersistence struct {
	db *Store
}

func (p *learnerPersistence) Load(ctx context.Context, learnerID string) (*learner.State, error) {
	var data string
	err := p.db.db.GetContext(ctx, &data,
		`SELECT data FROM learner_states WHERE learner_id = ?`, learnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load learner state: %w", err)
	}

	var st learner.State
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return nil, fmt.Errorf("decode learner state: %w", err)
	}
	return &st, nil
}

func (p *learnerPersistence) Save(ctx context.Context, learnerID string, st *learner.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode learner state: %w", err)
	}
	_, err = p.db.db.ExecContext(ctx,
		`INSERT INTO learner_states (learner_id, data, updated_at_ms)
		 VALUES (?, ?, ?)
		 ON CONFLICT (learner_id) DO UPDATE SET data = excluded.data, updated_at_ms = excluded.updated_at_ms`,
		learnerID, string(data), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("save learner state: %w", err)
	}
	return nil
}
