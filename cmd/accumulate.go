package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sparsemem/xbarcost/xbar"
	"github.com/sparsemem/xbarcost/xbar/presets"
	"github.com/sparsemem/xbarcost/xbar/trace"
)

var (
	modelName   string // Cost model preset
	senseType   string // Sense type for headers that omit one
	readTiming  string // Overrides the preset's read timing
	writeTiming string // Overrides the preset's write timing
)

// errTracesFailed is returned when at least one trace could not be accumulated.
var errTracesFailed = errors.New("one or more traces failed")

// accumulateCmd reduces each trace to totals under one cost model
var accumulateCmd = &cobra.Command{
	Use:   "accumulate <trace>...",
	Short: "Compute time and energy totals for simulator traces",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()

		model, err := presets.Resolve(costModelsPath, modelName)
		if err != nil {
			logrus.Fatalf("Cost model: %v", err)
		}
		model, err = applyTimingOverrides(model, readTiming, writeTiming)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if senseType != "" && !xbar.IsValidSenseType(senseType) {
			logrus.Fatalf("Unknown sense type %q (want %q or %q)", senseType, xbar.SenseADC, xbar.SenseAmp)
		}

		logrus.Infof("Accumulating %d trace(s) with cost model %q (read timing %s, write timing %s)",
			len(args), model.Name, orDefault(string(model.ReadTiming), string(xbar.ReadTimingPerRow)),
			orDefault(string(model.WriteTiming), string(xbar.WriteTimingUnscaled)))

		failed := 0
		for _, path := range args {
			res, header, err := trace.AccumulateFile(path, model, trace.Options{DefaultSense: xbar.SenseType(senseType)})
			if err != nil {
				// One bad trace must not hide the others.
				logrus.Errorf("%v", err)
				failed++
				continue
			}
			for _, a := range res.Anomalies {
				logrus.Warnf("%s: %s", path, a)
			}
			printTotals(cmd.OutOrStdout(), path, header, model, res)
		}
		if failed > 0 {
			return fmt.Errorf("%w: %d of %d", errTracesFailed, failed, len(args))
		}
		return nil
	},
}

// applyTimingOverrides replaces the model's timing variants when the flags are set.
func applyTimingOverrides(m xbar.CostModel, read, write string) (xbar.CostModel, error) {
	if read != "" {
		m.ReadTiming = xbar.ReadTiming(read)
	}
	if write != "" {
		m.WriteTiming = xbar.WriteTiming(write)
	}
	if err := xbar.ValidateCostModel(m); err != nil {
		return xbar.CostModel{}, err
	}
	return m, nil
}

func printTotals(w io.Writer, path string, h xbar.TraceHeader, m xbar.CostModel, res xbar.Result) {
	t := res.Totals
	fmt.Fprintf(w, "=== %s ===\n", path)
	fmt.Fprintf(w, "Cost Model           : %s\n", m.Name)
	fmt.Fprintf(w, "Array                : %dx%d (%s)\n", h.RowCount, h.ColCount, h.SenseType)
	fmt.Fprintf(w, "Operations           : %d clear, %d read, %d write, %d sense activations\n",
		t.Counts.Clears, t.Counts.Reads, t.Counts.Writes, t.Counts.SenseActivations)
	fmt.Fprintf(w, "Total Time           : %.6g s\n", t.TotalTime)
	fmt.Fprintf(w, "Total Energy         : %.6g J\n", t.TotalEnergy)
	if m.Static != nil || m.Dynamic != nil {
		fmt.Fprintf(w, "Periphery Time       : %.6g s\n", t.PeripheryTime)
		fmt.Fprintf(w, "Periphery Energy     : %.6g J\n", t.PeripheryEnergy)
		fmt.Fprintf(w, "Combined Time        : %.6g s\n", t.CombinedTime())
		fmt.Fprintf(w, "Combined Energy      : %.6g J\n", t.CombinedEnergy())
	}
	fmt.Fprintf(w, "Efficiency           : %.6g\n", t.Efficiency)
	if len(res.Anomalies) > 0 {
		fmt.Fprintf(w, "Ignored Lines        : %d\n", len(res.Anomalies))
	}
}

func init() {
	accumulateCmd.Flags().StringVar(&modelName, "model", presets.SparseMEM, "Cost model name")
	accumulateCmd.Flags().StringVar(&senseType, "sense", "", "Sense type (adc, sa) for traces whose header omits it")
	accumulateCmd.Flags().StringVar(&readTiming, "read-timing", "", "Override read timing (per-row, flat)")
	accumulateCmd.Flags().StringVar(&writeTiming, "write-timing", "", "Override write timing (unscaled, per-input)")
}
