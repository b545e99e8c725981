package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sparsemem/xbarcost/xbar"
	"github.com/sparsemem/xbarcost/xbar/compare"
	"github.com/sparsemem/xbarcost/xbar/presets"
)

var (
	compareConfigPath string // Comparison config YAML
	compareCSVPath    string // Optional CSV output path
)

// compareCmd normalizes every configured system against the reference across datasets
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare systems across datasets against a reference system",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		if compareConfigPath == "" {
			logrus.Fatalf("--config is required")
		}
		cfg, err := compare.LoadConfig(compareConfigPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		models := loadModels(costModelsPath)

		logrus.Infof("Comparing %d system(s) on %d dataset(s) against %q",
			len(cfg.Systems), len(cfg.Datasets), cfg.Reference)

		report := compare.Run(cfg, models)
		if err := report.WriteTable(cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("Writing table: %v", err)
		}
		if compareCSVPath != "" {
			if err := writeCSVFile(report, compareCSVPath); err != nil {
				logrus.Fatalf("%v", err)
			}
			logrus.Infof("Wrote %s", compareCSVPath)
		}
		if failed := report.Failed(); len(failed) > 0 {
			logrus.Warnf("%d of %d comparison cells failed", len(failed), len(report.Rows))
		}
	},
}

// loadModels returns the models from path, or the built-ins when path is empty.
func loadModels(path string) map[string]xbar.CostModel {
	if path == "" {
		return presets.Builtin()
	}
	models, err := presets.Load(path)
	if err != nil {
		logrus.Fatalf("Cost models: %v", err)
	}
	return models
}

func writeCSVFile(report *compare.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CSV file: %w", err)
	}
	if err := report.WriteCSV(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func init() {
	compareCmd.Flags().StringVar(&compareConfigPath, "config", "", "Comparison config YAML (datasets, systems, reference)")
	compareCmd.Flags().StringVar(&compareCSVPath, "csv", "", "Also write per-dataset results to this CSV file")
}
