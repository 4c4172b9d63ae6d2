package main

import (
	"strconv"

	"confcollect/internal/config"
	"confcollect/internal/db"
	"confcollect/internal/logger"
	"confcollect/internal/model"
	"confcollect/internal/publishers"
	"confcollect/internal/xray"

	"github.com/spf13/cobra"
)

var (
	publishParams    map[string]string
	publishAliveOnly bool
)

var publishCmd = &cobra.Command{
	Use:   "publish [publisher_names...]",
	Short: "Publish the stored configs as a subscription",
	Long:  `Run all publishers or specific ones. Use --param to override publisher configuration.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			logger.Log.Fatalf("Error loading config: %v", err)
		}

		if len(args) > 0 {
			cfg.FilterPublishers(args)
		}
		if len(cfg.Publishers) == 0 {
			logger.Log.Warn("No publishers matched.")
			return
		}

		for i := range cfg.Publishers {
			if cfg.Publishers[i].Params == nil {
				cfg.Publishers[i].Params = make(map[string]interface{})
			}
			for k, v := range publishParams {
				if intVal, err := strconv.Atoi(v); err == nil {
					cfg.Publishers[i].Params[k] = intVal
				} else {
					cfg.Publishers[i].Params[k] = v
				}
			}
		}

		database, err := db.Connect(cfg.Database.Path)
		if err != nil {
			logger.Log.Fatalf("Error connecting to DB: %v", err)
		}
		defer db.Close(database)

		var activeProxy string
		if cfg.SystemProxy.Enabled && !noProxy {
			logger.Log.Info("🛡️  Initializing internal proxy manager for publishing...")
			pm := xray.NewManager(database, cfg.SystemProxy.Fallback, cfg.Checker.ProbeURL, cfg.Checker.Timeout)

			proxyAddr, err := pm.GetProxy()
			if err != nil {
				logger.Log.Warnf("Failed to get proxy: %v", err)
			} else {
				activeProxy = proxyAddr
				defer pm.Stop()
			}
		}

		query := database.Model(&model.Record{}).Order("id")
		if publishAliveOnly {
			query = query.Where("alive = ?", true)
		}

		var records []model.Record
		if err := query.Find(&records).Error; err != nil {
			logger.Log.Fatalf("Failed to load records: %v", err)
		}
		if len(records) == 0 {
			logger.Log.Warn("Nothing to publish.")
			return
		}

		for _, pubCfg := range cfg.Publishers {
			logger.Log.Infof("📨 Running Publisher: %s (%s)...", pubCfg.Name, pubCfg.Type)

			plugin, err := publishers.Get(pubCfg.Type)
			if err != nil {
				logger.Log.Warnf("Plugin not found: %v", err)
				continue
			}

			if activeProxy != "" {
				pubCfg.Params["_proxy_url"] = activeProxy
			}

			if err := plugin.Publish(records, pubCfg.Params); err != nil {
				logger.Log.Errorf("Publish failed: %v", err)
			} else {
				logger.Log.Info("✅ Published successfully.")
			}
		}
	},
}

func init() {
	publishCmd.Flags().StringToStringVarP(&publishParams, "param", "p", nil, "Override publisher params (e.g. -p base64=true)")
	publishCmd.Flags().BoolVar(&publishAliveOnly, "alive", false, "Only publish configs that passed the last check")
	rootCmd.AddCommand(publishCmd)
}
