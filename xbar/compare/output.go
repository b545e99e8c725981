package compare

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
)

var csvColumns = []string{
	"dataset", "system", "total_time_s", "total_energy_j", "efficiency",
	"periphery_time_s", "periphery_energy_j", "time_ratio", "energy_ratio",
	"efficiency_ratio", "anomalies", "error",
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatRatio(ok bool, v float64) string {
	if !ok || v == 0 {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// WriteTable writes an aligned per-dataset table followed by the
// geometric-mean summary. Ratios are system / reference.
func (r *Report) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "dataset\tsystem\ttime (s)\tenergy (J)\tefficiency\ttime x\tenergy x\tefficiency x\n")
	for _, row := range r.Rows {
		if !row.OK() {
			fmt.Fprintf(tw, "%s\t%s\tFAILED: %v\t\t\t\t\t\n", row.Dataset, row.Label, row.Err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%.6g\t%.6g\t%.6g\t%s\t%s\t%s\n",
			row.Dataset, row.Label,
			row.Totals.CombinedTime(), row.Totals.CombinedEnergy(), row.Totals.Efficiency,
			formatRatio(row.Normalized, row.TimeRatio),
			formatRatio(row.Normalized, row.EnergyRatio),
			formatRatio(row.Normalized, row.EfficiencyRatio))
	}
	fmt.Fprintf(tw, "\n")
	fmt.Fprintf(tw, "geomean vs %s\tdatasets\tfailed\ttime x\tenergy x\tefficiency x\t\t\n", r.Reference)
	for _, s := range r.Summaries {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\t\t\n",
			s.Label, s.Datasets, s.Failed,
			formatRatio(s.Datasets > 0, s.TimeGeoMean),
			formatRatio(s.Datasets > 0, s.EnergyGeoMean),
			formatRatio(s.Datasets > 0, s.EfficiencyGeoMean))
	}
	return tw.Flush()
}

// WriteCSV writes one CSV row per (dataset, system) pair.
func (r *Report) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, row := range r.Rows {
		errText := ""
		if row.Err != nil {
			errText = row.Err.Error()
		}
		t := row.Totals
		record := []string{
			row.Dataset,
			row.System,
			formatFloat(t.TotalTime),
			formatFloat(t.TotalEnergy),
			formatFloat(t.Efficiency),
			formatFloat(t.PeripheryTime),
			formatFloat(t.PeripheryEnergy),
			formatFloat(row.TimeRatio),
			formatFloat(row.EnergyRatio),
			formatFloat(row.EfficiencyRatio),
			strconv.Itoa(row.Anomalies),
			errText,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing CSV row %s/%s: %w", row.Dataset, row.System, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
