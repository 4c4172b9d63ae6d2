package main

import (
	"confcollect/internal/checker"
	"confcollect/internal/config"
	"confcollect/internal/db"
	"confcollect/internal/geoip"
	"confcollect/internal/logger"
	"confcollect/internal/model"

	"github.com/spf13/cobra"
)

var (
	checkWorkers int
	checkLimit   int
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Health check stored configs through Xray",
	Long: `Probes every stored config by routing a request through an embedded Xray
instance and records the verdict. Country codes are filled in from the
GeoIP database for configs that answer.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			logger.Log.Fatalf("Error loading config: %v", err)
		}

		if err := geoip.Init(cfg.Checker.GeoIPCountryPath); err != nil {
			logger.Log.Warnf("GeoIP unavailable, countries will be missing: %v", err)
		}
		defer geoip.Close()

		if checkWorkers > 0 {
			cfg.Checker.WorkerCount = checkWorkers
		}

		database, err := db.Connect(cfg.Database.Path)
		if err != nil {
			logger.Log.Fatalf("Error connecting to DB: %v", err)
		}
		defer db.Close(database)
		db.Migrate(database)

		query := database.Model(&model.Record{}).Order("last_seen DESC")
		if checkLimit > 0 {
			query = query.Limit(checkLimit)
		}

		var records []model.Record
		if err := query.Find(&records).Error; err != nil {
			logger.Log.Fatalf("Failed to load records: %v", err)
		}
		if len(records) == 0 {
			logger.Log.Warn("Nothing to check.")
			return
		}

		logger.Log.Infof("🔎 Checking %d configs...", len(records))
		checker.New(cfg.Checker).CheckAll(database, records)
	},
}

func init() {
	checkCmd.Flags().IntVar(&checkWorkers, "workers", 0, "Override worker count")
	checkCmd.Flags().IntVar(&checkLimit, "limit", 0, "Only check the N most recently seen configs")
	rootCmd.AddCommand(checkCmd)
}
