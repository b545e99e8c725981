package xbar

// Counts tallies the records folded into a Totals value.
type Counts struct {
	Clears           int64
	Reads            int64
	Writes           int64
	Efficiencies     int64
	Elements         int64
	Unknown          int64
	SenseActivations int64
}

// Totals is the reduction of one trace under one cost model.
// Times are in seconds, energies in joules.
type Totals struct {
	TotalTime       float64
	TotalEnergy     float64
	Efficiency      float64 // last efficiency record, 0 if none
	PeripheryTime   float64
	PeripheryEnergy float64

	Counts Counts
}

// CombinedTime returns array time plus periphery time.
func (t Totals) CombinedTime() float64 {
	return t.TotalTime + t.PeripheryTime
}

// CombinedEnergy returns array energy plus periphery energy.
func (t Totals) CombinedEnergy() float64 {
	return t.TotalEnergy + t.PeripheryEnergy
}

// Plus sums two traces belonging to the same system run, e.g. a main trace and
// its offsets trace. Efficiency is not additive: the receiver's value is kept
// unless it is zero.
func (t Totals) Plus(o Totals) Totals {
	sum := Totals{
		TotalTime:       t.TotalTime + o.TotalTime,
		TotalEnergy:     t.TotalEnergy + o.TotalEnergy,
		Efficiency:      t.Efficiency,
		PeripheryTime:   t.PeripheryTime + o.PeripheryTime,
		PeripheryEnergy: t.PeripheryEnergy + o.PeripheryEnergy,
		Counts: Counts{
			Clears:           t.Counts.Clears + o.Counts.Clears,
			Reads:            t.Counts.Reads + o.Counts.Reads,
			Writes:           t.Counts.Writes + o.Counts.Writes,
			Efficiencies:     t.Counts.Efficiencies + o.Counts.Efficiencies,
			Elements:         t.Counts.Elements + o.Counts.Elements,
			Unknown:          t.Counts.Unknown + o.Counts.Unknown,
			SenseActivations: t.Counts.SenseActivations + o.Counts.SenseActivations,
		},
	}
	if sum.Efficiency == 0 {
		sum.Efficiency = o.Efficiency
	}
	return sum
}

// Scale multiplies time and energy terms by the given factors, leaving
// efficiency and counts untouched. Used to derive a baseline from another one.
func (t Totals) Scale(timeFactor, energyFactor float64) Totals {
	t.TotalTime *= timeFactor
	t.PeripheryTime *= timeFactor
	t.TotalEnergy *= energyFactor
	t.PeripheryEnergy *= energyFactor
	return t
}

// Result is what Accumulate returns: the totals and any ignored records.
type Result struct {
	Totals    Totals
	Anomalies []Anomaly
}
