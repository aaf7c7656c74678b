package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kadence-learn/kadence/internal/config"
	"github.com/kadence-learn/kadence/internal/content"
	"github.com/kadence-learn/kadence/internal/engine"
	"github.com/kadence-learn/kadence/internal/learner"
	"github.com/kadence-learn/kadence/internal/logger"
	"github.com/kadence-learn/kadence/internal/store"
)

var rootCmd = &cobra.Command{
	Use:          "kadence",
	Short:        "Adaptive assessment engine",
	Long:         "Kadence is a deterministic adaptive-assessment engine: ability estimation, retention scheduling, and blueprint-constrained form assembly.",
	SilenceUsage: true,
}

func Execute() error {
	// A local .env may carry KADENCE_DB and friends; absence is fine.
	_ = godotenv.Load()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides KADENCE_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config overriding built-in defaults")
	rootCmd.PersistentFlags().String("pool", "", "Path to item-pool JSON file")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(formCmd)
	rootCmd.AddCommand(refitCmd)
	rootCmd.AddCommand(refitdCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then KADENCE_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// newEngine opens the store, loads the pool and config, and wires the
// engine. The returned cleanup closes the store and flushes the logger.
func newEngine(cmd *cobra.Command) (*engine.Engine, func(), error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}

	poolPath, _ := cmd.Flags().GetString("pool")
	if poolPath == "" {
		return nil, nil, fmt.Errorf("no item pool: pass --pool")
	}
	pool, err := content.LoadPool(poolPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load pool: %w", err)
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	mode := "prod"
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		mode = "dev"
	}
	log, err := logger.New(mode)
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	defaults := learner.Defaults{
		PriorMu:              cfg.PriorMu,
		PriorSigma:           cfg.PriorSigma,
		InitialHalfLifeHours: cfg.Retention.InitialHalfLifeHours,
	}
	eng, err := engine.New(cfg, engine.Deps{
		Learners: learner.NewStore(st.LearnerPersistence(), defaults),
		Attempts: st.AttemptLog(),
		Content:  content.NewStaticStore(pool),
		Log:      log,
	})
	if err != nil {
		log.Sync()
		st.Close()
		return nil, nil, err
	}

	cleanup := func() {
		log.Sync()
		st.Close()
	}
	return eng, cleanup, nil
}
