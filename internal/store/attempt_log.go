package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// AttemptEvent is one immutable attempt-log record. The log is append-only;
// nothing in the engine ever mutates a written row.
type AttemptEvent struct {
	SessionID  string   `db:"session_id"`
	UserID     string   `db:"user_id"`
	ItemID     string   `db:"item_id"`
	LOIDs      []string `db:"-"`
	TsStartMs  int64    `db:"ts_start_ms"`
	TsSubmitMs int64    `db:"ts_submit_ms"`
	DurationMs int64    `db:"duration_ms"`
	Mode       string   `db:"mode"`
	Correct    bool     `db:"correct"`
}

// QueryOpts configures attempt-log range queries.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	From  time.Time // ts_submit_ms >= From
	To    time.Time // ts_submit_ms <= To
}

// AttemptLog is the engine-facing view of the attempt log: append by the
// record-attempt entry point, range reads by the refit job.
type AttemptLog interface {
	Append(ctx context.Context, ev *AttemptEvent) error
	ByItem(ctx context.Context, itemID string, opts QueryOpts) ([]AttemptEvent, error)
	Range(ctx context.Context, fromMs, toMs int64) ([]AttemptEvent, error)
}

// AttemptLog returns the attempt-log repository backed by this store.
func (s *Store) AttemptLog() AttemptLog {
	return &attemptLog{db: s}
}

type attemptLog struct {
	db *Store
}

type attemptRow struct {
	SessionID  string `db:"session_id"`
	UserID     string `db:"user_id"`
	ItemID     string `db:"item_id"`
	LOIDs      string `db:"lo_ids"`
	TsStartMs  int64  `db:"ts_start_ms"`
	TsSubmitMs int64  `db:"ts_submit_ms"`
	DurationMs int64  `db:"duration_ms"`
	Mode       string `db:"mode"`
	Correct    bool   `db:"correct"`
}

func (r *attemptRow) event() (AttemptEvent, error) {
	var los []string
	if err := json.Unmarshal([]byte(r.LOIDs), &los); err != nil {
		return AttemptEvent{}, fmt.Errorf("decode lo_ids: %w", err)
	}
	return AttemptEvent{
		SessionID:  r.SessionID,
		UserID:     r.UserID,
		ItemID:     r.ItemID,
		LOIDs:      los,
		TsStartMs:  r.TsStartMs,
		TsSubmitMs: r.TsSubmitMs,
		DurationMs: r.DurationMs,
		Mode:       r.Mode,
		Correct:    r.Correct,
	}, nil
}

func (l *attemptLog) Append(ctx context.Context, ev *AttemptEvent) error {
	los, err := json.Marshal(ev.LOIDs)
	if err != nil {
		return fmt.Errorf("encode lo_ids: %w", err)
	}
	_, err = l.db.db.ExecContext(ctx,
		`INSERT INTO attempt_events
			(session_id, user_id, item_id, lo_ids, ts_start_ms, ts_submit_ms, duration_ms, mode, correct)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.SessionID, ev.UserID, ev.ItemID, string(los),
		ev.TsStartMs, ev.TsSubmitMs, ev.DurationMs, ev.Mode, ev.Correct)
	if err != nil {
		return fmt.Errorf("append attempt event: %w", err)
	}
	return nil
}

func (l *attemptLog) ByItem(ctx context.Context, itemID string, opts QueryOpts) ([]AttemptEvent, error) {
	query := `SELECT session_id, user_id, item_id, lo_ids, ts_start_ms, ts_submit_ms, duration_ms, mode, correct
		FROM attempt_events WHERE item_id = ?`
	args := []any{itemID}
	if !opts.From.IsZero() {
		query += ` AND ts_submit_ms >= ?`
		args = append(args, opts.From.UnixMilli())
	}
	if !opts.To.IsZero() {
		query += ` AND ts_submit_ms <= ?`
		args = append(args, opts.To.UnixMilli())
	}
	query += ` ORDER BY id`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}
	return l.query(ctx, query, args...)
}

func (l *attemptLog) Range(ctx context.Context, fromMs, toMs int64) ([]AttemptEvent, error) {
	return l.query(ctx,
		`SELECT session_id, user_id, item_id, lo_ids, ts_start_ms, ts_submit_ms, duration_ms, mode, correct
		 FROM attempt_events WHERE ts_submit_ms >= ? AND ts_submit_ms <= ? ORDER BY id`,
		fromMs, toMs)
}

func (l *attemptLog) query(ctx context.Context, query string, args ...any) ([]AttemptEvent, error) {
	var rows []attemptRow
	if err := l.db.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query attempt events: %w", err)
	}
	events := make([]AttemptEvent, 0, len(rows))
	for i := range rows {
		ev, err := rows[i].event()
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}
