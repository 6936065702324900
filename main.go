package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"trendmoni/config"
	"trendmoni/utils"
)

var (
	cfg    *config.Config
	logger *utils.Logger

	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "trendmoni",
	Short: "Trend-Moni marketing analytics dashboard",
	Long: `Trend-Moni tracks trends, influencers and competitors for the niches a
company selects, and recommends where to focus next.

Run "trendmoni serve" to start the HTTP API, or "trendmoni report" to print
a one-off growth report.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		logger = utils.NewLoggerWithLevel(cfg.LogLevel)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")
	rootCmd.AddCommand(serveCmd, reportCmd, digestCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
