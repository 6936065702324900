package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"trendmoni/models"
	"trendmoni/services"
	"trendmoni/storage"
)

// csvFromConfig is the --csv value used when the flag is given without a path.
const csvFromConfig = "config"

var (
	reportNiches []string
	reportSeed   int64
	reportFormat string
	reportCSV    string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a dataset for the given niches and print a growth report",
	Example: `  trendmoni report --niche Tech --niche Food
  trendmoni report --niche Fashion --seed 42 --format yaml
  trendmoni report --niche Tech --csv ./output/tech.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd.OutOrStdout())
	},
}

func init() {
	reportCmd.Flags().StringSliceVarP(&reportNiches, "niche", "n", nil, "niche to report on (repeatable)")
	reportCmd.Flags().Int64Var(&reportSeed, "seed", 0, "random seed for reproducible output; overrides GENERATOR_SEED")
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "text", "output format: text, json or yaml")
	reportCmd.Flags().StringVar(&reportCSV, "csv", "", "also export growth series to this CSV file (CSV_OUTPUT_PATH if no path is given)")
	reportCmd.Flags().Lookup("csv").NoOptDefVal = csvFromConfig
}

func runReport(out io.Writer) error {
	switch reportFormat {
	case "text", "json", "yaml":
	default:
		return &models.InputValidationError{Field: "format", Problems: []string{fmt.Sprintf("unknown format %q", reportFormat)}}
	}

	cleaner := services.NewCleaner(logger)
	niches := cleaner.CleanNiches(reportNiches)
	if len(niches) == 0 {
		return &models.InputValidationError{Field: "niche", Problems: []string{"select at least one niche"}}
	}

	seed := cfg.GeneratorSeed
	if reportSeed != 0 {
		seed = reportSeed
	}
	ds := services.NewGenerator(logger, seed).Generate(niches)

	insights := services.NewInsightService(logger, services.NewRecommendationService(logger))
	report := insights.Generate(ds)

	if reportCSV != "" {
		path := reportCSV
		if path == csvFromConfig {
			path = cfg.CSVOutputPath
		}
		if err := exportCSV(path, ds); err != nil {
			return err
		}
		logger.Info("[report] Growth series saved to %s", path)
	}

	switch reportFormat {
	case "text":
		insights.Print(out, report)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	}
	return nil
}

func exportCSV(path string, ds *models.Dataset) error {
	w, err := storage.NewCSVWriter(path)
	if err != nil {
		return fmt.Errorf("create CSV writer: %w", err)
	}
	if err := w.WriteDataset(ds); err != nil {
		_ = w.Close()
		return fmt.Errorf("write CSV: %w", err)
	}
	return w.Close()
}
