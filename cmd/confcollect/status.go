package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"confcollect/internal/config"
	"confcollect/internal/db"
	"confcollect/internal/logger"
	"confcollect/internal/model"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and database statistics",
	Long:  `Displays a dashboard of the current database state, including config counts, file sizes, protocol and country breakdowns, and subscription health.`,
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

		var totalRecords, aliveRecords int64
		database.Model(&model.Record{}).Count(&totalRecords)
		database.Model(&model.Record{}).Where("alive = ?", true).Count(&aliveRecords)

		dbSize := getFileSize(cfg.Database.Path)
		walSize := getFileSize(cfg.Database.Path + "-wal")

		type kindStat struct {
			Kind  string
			Count int
		}
		var kindStats []kindStat
		database.Model(&model.Record{}).
			Select("kind, count(*) as count").
			Group("kind").
			Order("count desc").
			Scan(&kindStats)

		type countryStat struct {
			Country string
			Count   int
		}
		var countryStats []countryStat
		database.Model(&model.Record{}).
			Select("country, count(*) as count").
			Where("country != ''").
			Group("country").
			Order("count desc").
			Limit(5).
			Scan(&countryStats)

		var subs []model.Subscription
		database.Order("fetched_at desc").Find(&subs)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

		fmt.Println("\n📊 \033[1mCONFCOLLECT STATUS DASHBOARD\033[0m")
		fmt.Println("────────────────────────────────────────")

		fmt.Fprintln(w, "\033[1;36m[ SYSTEM ]\033[0m\t")
		fmt.Fprintf(w, "  Database Path:\t%s\n", cfg.Database.Path)
		fmt.Fprintf(w, "  DB Size:\t%s\n", formatBytes(dbSize))
		if walSize > 0 {
			fmt.Fprintf(w, "  WAL Size:\t%s (pending checkpoint)\n", formatBytes(walSize))
		}
		fmt.Fprintf(w, "  Total Configs:\t%d\n", totalRecords)
		fmt.Fprintf(w, "  Alive Configs:\t%d\n", aliveRecords)
		fmt.Fprintln(w, "\t")

		fmt.Fprintln(w, "\033[1;36m[ INVENTORY ]\033[0m\t")
		if len(kindStats) == 0 {
			fmt.Fprintln(w, "  (empty)")
		}
		for _, k := range kindStats {
			fmt.Fprintf(w, "  %s:\t%d\n", k.Kind, k.Count)
		}
		fmt.Fprintln(w, "\t")

		fmt.Fprintln(w, "\033[1;36m[ TOP LOCATIONS ]\033[0m\t")
		for _, c := range countryStats {
			fmt.Fprintf(w, "  %s %s:\t%d\n", getFlagEmoji(c.Country), c.Country, c.Count)
		}
		fmt.Fprintln(w, "\t")

		fmt.Fprintln(w, "\033[1;36m[ SUBSCRIPTIONS ]\033[0m\t")
		if len(subs) == 0 {
			fmt.Fprintln(w, "  (none recorded)")
		}
		for _, s := range subs {
			fmt.Fprintf(w, "  %s\t%s\tparsed %d/%d\n", s.URL, s.Status, s.Parsed, s.TotalLines)
		}

		w.Flush()
		fmt.Println("")
	},
}

func getFileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

func getFlagEmoji(countryCode string) string {
	if len(countryCode) != 2 {
		return "🌐"
	}
	countryCode = strings.ToUpper(countryCode)
	return string(rune(countryCode[0])+127397) + string(rune(countryCode[1])+127397)
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
