package main

import (
	"confcollect/internal/config"
	"confcollect/internal/db"
	"confcollect/internal/link"
	"confcollect/internal/logger"
	"confcollect/internal/model"
	"confcollect/internal/writer"

	"github.com/spf13/cobra"
)

var (
	exportAliveOnly bool
	exportOutDir    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write stored configs as JSON files",
	Long: `Exports every stored config as an individual JSON file plus a merged.json
into the output directory. Use --alive to restrict to configs that passed
the last check.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			logger.Log.Fatalf("Error loading config: %v", err)
		}

		database, err := db.Connect(cfg.Database.Path)
		if err != nil {
			logger.Log.Fatalf("Error connecting to DB: %v", err)
		}
		defer db.Close(database)

		query := database.Model(&model.Record{}).Order("id")
		if exportAliveOnly {
			query = query.Where("alive = ?", true)
		}

		var records []model.Record
		if err := query.Find(&records).Error; err != nil {
			logger.Log.Fatalf("Failed to load records: %v", err)
		}
		if len(records) == 0 {
			logger.Log.Warn("Nothing to export.")
			return
		}

		var configs []*link.Config
		for _, rec := range records {
			c, err := link.ParseLink(rec.Raw)
			if err != nil {
				logger.Log.Debugf("Skipping stale record %s: %v", rec.Key, err)
				continue
			}
			c.Source = rec.Source
			configs = append(configs, c)
		}

		outDir := cfg.Paths.OutputDir
		if exportOutDir != "" {
			outDir = exportOutDir
		}

		written, err := writer.WriteConfigs(outDir, configs)
		if err != nil {
			logger.Log.Fatalf("Export failed: %v", err)
		}
		logger.Log.Infof("✅ Exported %d configs to %s", written, outDir)
	},
}

func init() {
	exportCmd.Flags().BoolVar(&exportAliveOnly, "alive", false, "Only export configs that passed the last check")
	exportCmd.Flags().StringVarP(&exportOutDir, "out", "o", "", "Override output directory")
	rootCmd.AddCommand(exportCmd)
}
