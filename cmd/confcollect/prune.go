package main

import (
	"time"

	"confcollect/internal/config"
	"confcollect/internal/db"
	"confcollect/internal/logger"
	"confcollect/internal/model"

	"github.com/spf13/cobra"
)

var pruneDead bool

var pruneCmd = &cobra.Command{
	Use:   "prune [max_age]",
	Short: "Remove stale configs from the database",
	Long: `Deletes configs that have not been seen in any feed for longer than the
configured max age. An optional duration argument (e.g. 72h) overrides the
config value. Use --dead to also drop configs that failed their last check.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			logger.Log.Fatalf("Error loading config: %v", err)
		}

		maxAge := cfg.Database.MaxAge
		if len(args) > 0 {
			val, err := time.ParseDuration(args[0])
			if err != nil {
				logger.Log.Fatalf("Invalid max_age argument: %v", err)
			}
			maxAge = val
			logger.Log.Infof("🎯 Prune age manually set to: %s", maxAge)
		}

		database, err := db.Connect(cfg.Database.Path)
		if err != nil {
			logger.Log.Fatalf("Error connecting to DB: %v", err)
		}
		defer db.Close(database)

		cutoff := time.Now().Add(-maxAge)
		result := database.Where("last_seen < ?", cutoff).Delete(&model.Record{})
		if result.Error != nil {
			logger.Log.Fatalf("Pruning failed: %v", result.Error)
		}
		logger.Log.Infof("🗑️  Removed %d configs not seen since %s", result.RowsAffected, cutoff.Format(time.RFC3339))

		if pruneDead {
			result = database.Where("alive = ? AND checked_at > ?", false, time.Time{}).Delete(&model.Record{})
			if result.Error != nil {
				logger.Log.Fatalf("Dead pruning failed: %v", result.Error)
			}
			logger.Log.Infof("🗑️  Removed %d dead configs", result.RowsAffected)
		}

		logger.Log.Info("✅ Database maintenance complete.")
	},
}

func init() {
	pruneCmd.Flags().BoolVar(&pruneDead, "dead", false, "Also remove configs that failed their last check")
	rootCmd.AddCommand(pruneCmd)
}
