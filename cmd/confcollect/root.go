package main

import (
	"fmt"
	"os"

	"confcollect/internal/logger"

	"github.com/spf13/cobra"
)

var cfgFile string
var noProxy bool
var verbose bool
var logFile string

var rootCmd = &cobra.Command{
	Use:   "confcollect",
	Short: "A proxy subscription collecting/checking/publishing pipeline",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(verbose, logFile)
	},
	PostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noProxy, "no-proxy", false, "Disable system proxy manager")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to file instead of stdout (overwrites file)")
}
