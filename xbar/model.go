package xbar

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// SenseType selects the analog read-out primitive for a trace.
type SenseType string

const (
	SenseADC SenseType = "adc"
	SenseAmp SenseType = "sa"
)

// validSenseTypes maps accepted sense type tokens.
var validSenseTypes = map[SenseType]bool{
	SenseADC: true,
	SenseAmp: true,
}

// IsValidSenseType returns true if s names a supported sensing primitive.
func IsValidSenseType(s string) bool {
	return validSenseTypes[SenseType(s)]
}

// ReadTiming selects how a read record's time is charged.
type ReadTiming string

const (
	// ReadTimingPerRow scales read latency by row_reads.
	ReadTimingPerRow ReadTiming = "per-row"
	// ReadTimingFlat charges read latency once per operation.
	ReadTimingFlat ReadTiming = "flat"
)

// WriteTiming selects whether a write record's time is scaled by input_count.
type WriteTiming string

const (
	WriteTimingUnscaled WriteTiming = "unscaled"
	WriteTimingPerInput WriteTiming = "per-input"
)

// SenseCost is the per-activation cost of a sensing primitive.
type SenseCost struct {
	Latency float64 `yaml:"latency"`
	Energy  float64 `yaml:"energy"`
}

// PeripheryCost is an overhead charged outside the array.
// For static periphery Energy is per column; for dynamic periphery both terms are per element.
type PeripheryCost struct {
	Latency float64 `yaml:"latency"`
	Energy  float64 `yaml:"energy"`
}

// CostModel holds the constants a trace is priced with.
// Times are in seconds, energies in joules. Treat values as immutable once built.
type CostModel struct {
	Name string `yaml:"-"`

	ReadLatency  float64 `yaml:"read_latency"`
	ReadEnergy   float64 `yaml:"read_energy"`
	WriteLatency float64 `yaml:"write_latency"`
	WriteEnergy  float64 `yaml:"write_energy"`

	Sense map[SenseType]SenseCost `yaml:"sense"`

	Static  *PeripheryCost `yaml:"static_periphery,omitempty"`
	Dynamic *PeripheryCost `yaml:"dynamic_periphery,omitempty"`

	ReadTiming  ReadTiming  `yaml:"read_timing,omitempty"`
	WriteTiming WriteTiming `yaml:"write_timing,omitempty"`
}

// readTiming returns the configured read timing, defaulting to per-row.
func (m CostModel) readTiming() ReadTiming {
	if m.ReadTiming == "" {
		return ReadTimingPerRow
	}
	return m.ReadTiming
}

// writeTiming returns the configured write timing, defaulting to unscaled.
func (m CostModel) writeTiming() WriteTiming {
	if m.WriteTiming == "" {
		return WriteTimingUnscaled
	}
	return m.WriteTiming
}

// senseCost resolves the constants for the header's sensing primitive.
func (m CostModel) senseCost(t SenseType) (SenseCost, error) {
	if !validSenseTypes[t] {
		return SenseCost{}, &ConfigurationError{
			Field:  "sense_type",
			Reason: fmt.Sprintf("unrecognized sense type %q (want %q or %q)", t, SenseADC, SenseAmp),
		}
	}
	sc, ok := m.Sense[t]
	if !ok {
		return SenseCost{}, &ConfigurationError{
			Field:  "sense." + string(t),
			Reason: fmt.Sprintf("cost model %q has no constants for sense type %q", m.Name, t),
		}
	}
	return sc, nil
}

// invalidCost returns true if v is negative, NaN or Inf.
func invalidCost(v float64) bool {
	return v < 0 || math.IsNaN(v) || math.IsInf(v, 0)
}

// ValidateCostModel checks every constant of m. Returns a ConfigurationError
// listing all problems, or nil if valid.
func ValidateCostModel(m CostModel) error {
	var problems []string
	checkCost := func(field string, v float64) {
		if invalidCost(v) {
			problems = append(problems, fmt.Sprintf("%s must be >= 0 and finite, got %v", field, v))
		}
	}

	checkCost("read_latency", m.ReadLatency)
	checkCost("read_energy", m.ReadEnergy)
	checkCost("write_latency", m.WriteLatency)
	checkCost("write_energy", m.WriteEnergy)

	senseTypes := make([]string, 0, len(m.Sense))
	for t := range m.Sense {
		senseTypes = append(senseTypes, string(t))
	}
	sort.Strings(senseTypes)
	for _, t := range senseTypes {
		if !validSenseTypes[SenseType(t)] {
			problems = append(problems, fmt.Sprintf("sense.%s is not a supported sense type", t))
			continue
		}
		sc := m.Sense[SenseType(t)]
		checkCost("sense."+t+".latency", sc.Latency)
		checkCost("sense."+t+".energy", sc.Energy)
	}
	if m.Static != nil {
		checkCost("static_periphery.latency", m.Static.Latency)
		checkCost("static_periphery.energy", m.Static.Energy)
	}
	if m.Dynamic != nil {
		checkCost("dynamic_periphery.latency", m.Dynamic.Latency)
		checkCost("dynamic_periphery.energy", m.Dynamic.Energy)
	}

	switch m.ReadTiming {
	case "", ReadTimingPerRow, ReadTimingFlat:
	default:
		problems = append(problems, fmt.Sprintf("read_timing must be %q or %q, got %q", ReadTimingPerRow, ReadTimingFlat, m.ReadTiming))
	}
	switch m.WriteTiming {
	case "", WriteTimingUnscaled, WriteTimingPerInput:
	default:
		problems = append(problems, fmt.Sprintf("write_timing must be %q or %q, got %q", WriteTimingUnscaled, WriteTimingPerInput, m.WriteTiming))
	}

	if len(problems) > 0 {
		field := "cost_model"
		if m.Name != "" {
			field = "cost_model " + m.Name
		}
		return &ConfigurationError{Field: field, Reason: strings.Join(problems, "; ")}
	}
	return nil
}

// TraceHeader is the geometry and sensing primitive declared by a trace's first line.
type TraceHeader struct {
	RowCount  int64
	ColCount  int64
	SenseType SenseType
}

// Validate rejects negative geometry and unresolved sense types. An empty sense
// type is an error: no default primitive is assumed.
func (h TraceHeader) Validate() error {
	if h.RowCount < 0 {
		return &ConfigurationError{Field: "row_count", Reason: fmt.Sprintf("must be non-negative, got %d", h.RowCount)}
	}
	if h.ColCount < 0 {
		return &ConfigurationError{Field: "col_count", Reason: fmt.Sprintf("must be non-negative, got %d", h.ColCount)}
	}
	if h.SenseType == "" {
		return &ConfigurationError{Field: "sense_type", Reason: "missing; the header must name a sense type"}
	}
	if !validSenseTypes[h.SenseType] {
		return &ConfigurationError{
			Field:  "sense_type",
			Reason: fmt.Sprintf("unrecognized sense type %q (want %q or %q)", h.SenseType, SenseADC, SenseAmp),
		}
	}
	return nil
}
