package compare

import (
	"errors"
	"fmt"

	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"

	"github.com/sparsemem/xbarcost/xbar"
	"github.com/sparsemem/xbarcost/xbar/trace"
)

// Row is the outcome for one (dataset, system) pair.
type Row struct {
	Dataset string
	System  string
	Label   string

	Totals    xbar.Totals
	Anomalies int
	Err       error

	// Ratios against the reference system; valid only when Normalized is true.
	// EfficiencyRatio stays 0 when either side reported no efficiency.
	Normalized      bool
	TimeRatio       float64
	EnergyRatio     float64
	EfficiencyRatio float64
}

// OK reports whether the row's totals were obtained.
func (r *Row) OK() bool {
	return r.Err == nil
}

// Summary aggregates one system's ratios across datasets.
type Summary struct {
	System            string
	Label             string
	Datasets          int // datasets with a normalized row
	Failed            int
	TimeGeoMean       float64
	EnergyGeoMean     float64
	EfficiencyGeoMean float64
}

// Report is the result of Run.
type Report struct {
	Reference string
	Datasets  []string
	Rows      []*Row // dataset-major, systems in config order
	Summaries []Summary

	index map[[2]string]*Row
}

// Row returns the row for a system on a dataset, or nil.
func (r *Report) Row(system, dataset string) *Row {
	return r.index[[2]string{system, dataset}]
}

// Failed returns the rows whose totals could not be obtained.
func (r *Report) Failed() []*Row {
	var out []*Row
	for _, row := range r.Rows {
		if !row.OK() {
			out = append(out, row)
		}
	}
	return out
}

// Run prices every (dataset, system) pair of cfg. A failing pair is logged and
// recorded in its row; it never stops the rest of the run. cfg is assumed valid.
func Run(cfg Config, models map[string]xbar.CostModel) *Report {
	rep := &Report{
		Reference: cfg.Reference,
		Datasets:  cfg.Datasets,
		index:     make(map[[2]string]*Row),
	}

	for _, ds := range cfg.Datasets {
		for _, sys := range cfg.Systems {
			row := &Row{Dataset: ds, System: sys.Name, Label: sys.DisplayName()}
			row.Totals, row.Anomalies, row.Err = evaluate(cfg, models, sys, ds, rep)
			if row.Err != nil {
				logrus.Errorf("%s/%s: %v", ds, sys.Name, row.Err)
			}
			rep.Rows = append(rep.Rows, row)
			rep.index[[2]string{sys.Name, ds}] = row
		}
		normalize(rep, ds, cfg.Systems)
	}

	for _, sys := range cfg.Systems {
		rep.Summaries = append(rep.Summaries, summarize(rep, sys))
	}
	return rep
}

func evaluate(cfg Config, models map[string]xbar.CostModel, sys SystemConfig, dataset string, rep *Report) (xbar.Totals, int, error) {
	switch {
	case len(sys.Traces) > 0:
		return evaluateTraces(cfg, models, sys.Traces, dataset)

	case sys.Derived != nil:
		from := rep.Row(sys.Derived.From, dataset)
		if from == nil || !from.OK() {
			return xbar.Totals{}, 0, fmt.Errorf("derived from %q, which has no result", sys.Derived.From)
		}
		return from.Totals.Scale(sys.Derived.TimeFactor, sys.Derived.EnergyFactor), 0, nil

	case sys.External != nil:
		m, ok := sys.External[dataset]
		if !ok {
			return xbar.Totals{}, 0, errors.New("no external measurement for dataset")
		}
		return xbar.Totals{TotalTime: m.Time, TotalEnergy: m.Energy, Efficiency: m.Efficiency}, 0, nil
	}
	return xbar.Totals{}, 0, errors.New("system has no source")
}

func evaluateTraces(cfg Config, models map[string]xbar.CostModel, sources []TraceSource, dataset string) (xbar.Totals, int, error) {
	var sum xbar.Totals
	anomalies := 0
	for _, src := range sources {
		model, ok := models[src.Model]
		if !ok {
			return xbar.Totals{}, 0, fmt.Errorf("cost model %q not found", src.Model)
		}
		path := cfg.tracePath(src.Path, dataset)
		res, _, err := trace.AccumulateFile(path, model, trace.Options{DefaultSense: src.Sense})
		if err != nil {
			return xbar.Totals{}, 0, err
		}
		for _, a := range res.Anomalies {
			logrus.Warnf("%s: %s", path, a)
		}
		anomalies += len(res.Anomalies)
		sum = sum.Plus(res.Totals)
	}
	return sum, anomalies, nil
}

// normalize fills the ratio fields of every row of dataset against the reference row.
func normalize(rep *Report, dataset string, systems []SystemConfig) {
	ref := rep.Row(rep.Reference, dataset)
	if ref == nil || !ref.OK() {
		return
	}
	refTime, refEnergy := ref.Totals.CombinedTime(), ref.Totals.CombinedEnergy()
	if refTime <= 0 || refEnergy <= 0 {
		logrus.Warnf("%s: reference %q has zero time or energy; skipping normalization", dataset, rep.Reference)
		return
	}
	for _, sys := range systems {
		row := rep.Row(sys.Name, dataset)
		if !row.OK() {
			continue
		}
		row.Normalized = true
		row.TimeRatio = row.Totals.CombinedTime() / refTime
		row.EnergyRatio = row.Totals.CombinedEnergy() / refEnergy
		if ref.Totals.Efficiency != 0 && row.Totals.Efficiency != 0 {
			row.EfficiencyRatio = row.Totals.Efficiency / ref.Totals.Efficiency
		}
	}
}

func summarize(rep *Report, sys SystemConfig) Summary {
	s := Summary{System: sys.Name, Label: sys.DisplayName()}
	var times, energies, effs stats.Float64Data
	for _, ds := range rep.Datasets {
		row := rep.Row(sys.Name, ds)
		if !row.OK() {
			s.Failed++
			continue
		}
		if !row.Normalized {
			continue
		}
		s.Datasets++
		if row.TimeRatio > 0 {
			times = append(times, row.TimeRatio)
		}
		if row.EnergyRatio > 0 {
			energies = append(energies, row.EnergyRatio)
		}
		if row.EfficiencyRatio > 0 {
			effs = append(effs, row.EfficiencyRatio)
		}
	}
	s.TimeGeoMean = geoMean(times)
	s.EnergyGeoMean = geoMean(energies)
	s.EfficiencyGeoMean = geoMean(effs)
	return s
}

// geoMean returns the geometric mean of data, or 0 when data is empty.
func geoMean(data stats.Float64Data) float64 {
	if len(data) == 0 {
		return 0
	}
	gm, err := stats.GeometricMean(data)
	if err != nil {
		return 0
	}
	return gm
}
