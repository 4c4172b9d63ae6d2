package main

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"confcollect/internal/aggregate"
	"confcollect/internal/collectors"
	"confcollect/internal/config"
	"confcollect/internal/db"
	"confcollect/internal/fetch"
	"confcollect/internal/logger"
	"confcollect/internal/xray"

	"github.com/spf13/cobra"
)

var collectParams map[string]string

var collectCmd = &cobra.Command{
	Use:   "collect [collector_names...]",
	Short: "Fetch subscriptions and run collectors",
	Long: `Downloads every subscription URL from the subscription file, runs the
collectors defined in config (or only the named ones), parses all feeds and
stores the deduplicated configs. Use --param to override collector parameters.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			logger.Log.Fatalf("Error loading config: %v", err)
		}

		if len(args) > 0 {
			cfg.FilterCollectors(args)
		}

		for i := range cfg.Collectors {
			if cfg.Collectors[i].Params == nil {
				cfg.Collectors[i].Params = make(map[string]interface{})
			}
			for k, v := range collectParams {
				if intVal, err := strconv.Atoi(v); err == nil {
					cfg.Collectors[i].Params[k] = intVal
				} else {
					cfg.Collectors[i].Params[k] = v
				}
			}
		}

		database, err := db.Connect(cfg.Database.Path)
		if err != nil {
			logger.Log.Fatalf("Error connecting to DB: %v", err)
		}
		defer db.Close(database)
		db.Migrate(database)

		var activeProxy string
		if cfg.SystemProxy.Enabled && !noProxy {
			logger.Log.Info("🛡️  Initializing internal proxy manager...")
			pm := xray.NewManager(database, cfg.SystemProxy.Fallback, cfg.Checker.ProbeURL, cfg.Checker.Timeout)

			proxyAddr, err := pm.GetProxy()
			if err != nil {
				logger.Log.Warnf("Failed to get proxy: %v. Proceeding without one.", err)
			} else {
				activeProxy = proxyAddr
				logger.Log.Infof("🚀 Using Proxy: %s", proxyAddr)
				defer pm.Stop()
			}
		}

		agg := aggregate.New(database)

		// 1. Subscription file
		urls := readSubscriptionFile(cfg.Paths.SubscriptionFile)
		if len(urls) > 0 {
			logger.Log.Infof("📡 Fetching %d subscriptions...", len(urls))
			opts := fetch.Options{
				Timeout:   cfg.Fetch.Timeout,
				UserAgent: cfg.Fetch.UserAgent,
				ProxyURL:  activeProxy,
			}
			agg.FetchAll(urls, opts, cfg.Fetch.MaxConcurrent)
		}

		// 2. Configured collectors
		for _, cCfg := range cfg.Collectors {
			logger.Log.Infof("🏃 Running collector: %s (%s)...", cCfg.Name, cCfg.Type)

			collector, err := collectors.Get(cCfg.Type)
			if err != nil {
				logger.Log.Warnf("Skipping: %v", err)
				continue
			}

			cCfg.Params["_timeout"] = cfg.Fetch.Timeout
			cCfg.Params["_user_agent"] = cfg.Fetch.UserAgent
			if activeProxy != "" {
				cCfg.Params["_proxy_url"] = activeProxy
			}

			feeds, err := collector.Collect(cCfg.Params)
			if err != nil {
				logger.Log.Errorf("Error running collector: %v", err)
				continue
			}
			for _, feed := range feeds {
				r := agg.Process(feed)
				logger.Log.Infof("✅ %s: parsed %d/%d, unique %d", feed.Source, r.Parsed, r.TotalLines, r.Unique)
			}
		}

		agg.Stats.PrintReport()
	},
}

// readSubscriptionFile returns the URLs from a newline-delimited list.
// Blank lines and # comments are skipped. A missing file is not an
// error, collectors may be the only source.
func readSubscriptionFile(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		logger.Log.Debugf("No subscription file at %s: %v", path, err)
		return nil
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls
}

func init() {
	collectCmd.Flags().StringToStringVarP(&collectParams, "param", "p", nil, "Override collector params")
	rootCmd.AddCommand(collectCmd)
}
