package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kadence-learn/kadence/internal/store"
)

// replayEvent is the JSONL wire form of an attempt event.
type replayEvent struct {
	SessionID  string   `json:"sessionId"`
	UserID     string   `json:"userId"`
	ItemID     string   `json:"itemId"`
	LOIDs      []string `json:"loIds"`
	TsStartMs  int64    `json:"tsStart"`
	TsSubmitMs int64    `json:"tsSubmit"`
	DurationMs int64    `json:"durationMs"`
	Mode       string   `json:"mode"`
	Correct    bool     `json:"correct"`
}

var replayCmd = &cobra.Command{
	Use:   "replay [file]",
	Short: "Replay attempt events from a JSONL file (or stdin) through the engine",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cleanup, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		var in io.Reader = os.Stdin
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open events file: %w", err)
			}
			defer f.Close()
			in = f
		}

		ctx := cmd.Context()
		sc := bufio.NewScanner(in)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		line, applied := 0, 0
		for sc.Scan() {
			line++
			raw := sc.Bytes()
			if len(raw) == 0 {
				continue
			}
			var ev replayEvent
			if err := json.Unmarshal(raw, &ev); err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
			if _, err := eng.RecordAttempt(ctx, store.AttemptEvent{
				SessionID:  ev.SessionID,
				UserID:     ev.UserID,
				ItemID:     ev.ItemID,
				LOIDs:      ev.LOIDs,
				TsStartMs:  ev.TsStartMs,
				TsSubmitMs: ev.TsSubmitMs,
				DurationMs: ev.DurationMs,
				Mode:       ev.Mode,
				Correct:    ev.Correct,
			}); err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
			applied++
		}
		if err := sc.Err(); err != nil {
			return fmt.Errorf("read events: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "replayed %d attempts\n", applied)
		return nil
	},
}
