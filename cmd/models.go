package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sparsemem/xbarcost/xbar"
	"github.com/sparsemem/xbarcost/xbar/presets"
)

// modelsCmd lists the available cost models
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available cost models and their constants",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		printModels(cmd.OutOrStdout(), loadModels(costModelsPath))
	},
}

func printModels(w io.Writer, models map[string]xbar.CostModel) {
	for _, name := range presets.Names(models) {
		m := models[name]
		fmt.Fprintf(w, "=== %s ===\n", name)
		fmt.Fprintf(w, "Read                 : %.3g s, %.3g J (%s)\n", m.ReadLatency, m.ReadEnergy, orDefault(string(m.ReadTiming), string(xbar.ReadTimingPerRow)))
		fmt.Fprintf(w, "Write                : %.3g s, %.3g J (%s)\n", m.WriteLatency, m.WriteEnergy, orDefault(string(m.WriteTiming), string(xbar.WriteTimingUnscaled)))

		senseTypes := make([]string, 0, len(m.Sense))
		for t := range m.Sense {
			senseTypes = append(senseTypes, string(t))
		}
		sort.Strings(senseTypes)
		for _, t := range senseTypes {
			sc := m.Sense[xbar.SenseType(t)]
			fmt.Fprintf(w, "Sense %-15s: %.3g s, %.3g J per activation\n", t, sc.Latency, sc.Energy)
		}
		if m.Static != nil {
			fmt.Fprintf(w, "Static Periphery     : %.3g s per read, %.3g J per column\n", m.Static.Latency, m.Static.Energy)
		}
		if m.Dynamic != nil {
			fmt.Fprintf(w, "Dynamic Periphery    : %.3g s, %.3g J per element\n", m.Dynamic.Latency, m.Dynamic.Energy)
		}
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
