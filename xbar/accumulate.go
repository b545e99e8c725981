package xbar

import (
	"fmt"
	"iter"
)

// Accumulate folds records, in order, into totals under model.
// It is AccumulateSeq over a slice.
func Accumulate(header TraceHeader, records []OperationRecord, model CostModel) (Result, error) {
	return AccumulateSeq(header, Records(records), model)
}

// Records adapts a slice to the sequence form consumed by AccumulateSeq.
func Records(records []OperationRecord) iter.Seq2[OperationRecord, error] {
	return func(yield func(OperationRecord, error) bool) {
		for _, r := range records {
			if !yield(r, nil) {
				return
			}
		}
	}
}

// AccumulateSeq consumes seq exactly once and reduces it to a Result.
//
// The header and model are validated before the first record is pulled. Any
// error, whether a bad record or one yielded by seq, stops the pass and
// returns a zero Result: partial totals are never observable.
func AccumulateSeq(header TraceHeader, seq iter.Seq2[OperationRecord, error], model CostModel) (Result, error) {
	if err := header.Validate(); err != nil {
		return Result{}, err
	}
	if err := ValidateCostModel(model); err != nil {
		return Result{}, err
	}
	sense, err := model.senseCost(header.SenseType)
	if err != nil {
		return Result{}, err
	}

	acc := accumulator{header: header, model: model, sense: sense}
	for rec, err := range seq {
		if err != nil {
			return Result{}, fmt.Errorf("reading trace: %w", err)
		}
		if err := acc.apply(rec); err != nil {
			return Result{}, err
		}
	}
	return Result{Totals: acc.totals, Anomalies: acc.anomalies}, nil
}

// accumulator owns the running totals for a single pass.
type accumulator struct {
	header    TraceHeader
	model     CostModel
	sense     SenseCost
	totals    Totals
	anomalies []Anomaly
}

func (a *accumulator) apply(r OperationRecord) error {
	if err := r.validate(); err != nil {
		return err
	}
	m, t := a.model, &a.totals

	switch r.Kind {
	case KindClear:
		rows := float64(a.header.RowCount)
		t.TotalTime += rows * m.WriteLatency
		t.TotalEnergy += rows * m.WriteEnergy
		t.Counts.Clears++

	case KindRead:
		acts, inputs := float64(r.SenseActivations), float64(r.InputCount)
		readTime := m.ReadLatency
		if m.readTiming() == ReadTimingPerRow {
			readTime *= float64(r.RowReads)
		}
		t.TotalTime += (readTime + acts*a.sense.Latency) * inputs
		t.TotalEnergy += (float64(r.RowReads)*m.ReadEnergy + acts*a.sense.Energy) * inputs
		if m.Static != nil {
			t.PeripheryTime += m.Static.Latency
			t.PeripheryEnergy += m.Static.Energy * float64(a.header.ColCount)
		}
		t.Counts.Reads++
		t.Counts.SenseActivations += r.SenseActivations

	case KindWrite:
		acts, inputs := float64(r.SenseActivations), float64(r.InputCount)
		writeTime := m.WriteLatency + acts*a.sense.Latency
		if m.writeTiming() == WriteTimingPerInput {
			writeTime *= inputs
		}
		t.TotalTime += writeTime
		t.TotalEnergy += (float64(r.RowWrites)*m.WriteEnergy + acts*a.sense.Energy) * inputs
		t.Counts.Writes++
		t.Counts.SenseActivations += r.SenseActivations

	case KindEfficiency:
		t.Efficiency = r.Value
		t.Counts.Efficiencies++

	case KindElementCount:
		if m.Dynamic != nil {
			n := float64(r.Count)
			t.PeripheryTime += n * m.Dynamic.Latency
			t.PeripheryEnergy += n * m.Dynamic.Energy
		}
		t.Counts.Elements++

	default:
		name := r.Name
		if name == "" {
			name = string(r.Kind)
		}
		a.anomalies = append(a.anomalies, Anomaly{Line: r.Line, Name: name})
		t.Counts.Unknown++
	}
	return nil
}
