package xbar

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCostModel_ValidModel_NoError(t *testing.T) {
	m := studyModel()
	m.Static = &PeripheryCost{Latency: 0.5e-9, Energy: 11.8e-12}
	m.ReadTiming = ReadTimingFlat
	m.WriteTiming = WriteTimingPerInput

	assert.NoError(t, ValidateCostModel(m))
}

func TestValidateCostModel_ListsAllProblems(t *testing.T) {
	// GIVEN a model with several invalid constants
	m := studyModel()
	m.ReadLatency = -1
	m.WriteEnergy = math.NaN()
	m.Dynamic = &PeripheryCost{Latency: math.Inf(1)}
	m.Sense["dac"] = SenseCost{}
	m.WriteTiming = "sometimes"

	// WHEN validated
	err := ValidateCostModel(m)

	// THEN one ConfigurationError names every problem
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "cost_model study", cfgErr.Field)
	for _, want := range []string{"read_latency", "write_energy", "dynamic_periphery.latency", "sense.dac", "write_timing"} {
		assert.True(t, strings.Contains(cfgErr.Reason, want), "reason should mention %s: %s", want, cfgErr.Reason)
	}
}

func TestIsValidSenseType(t *testing.T) {
	assert.True(t, IsValidSenseType("adc"))
	assert.True(t, IsValidSenseType("sa"))
	assert.False(t, IsValidSenseType("ADC"))
	assert.False(t, IsValidSenseType(""))
}

func TestKindForKeyword_CaseSensitive(t *testing.T) {
	assert.Equal(t, KindRead, KindForKeyword("read"))
	assert.Equal(t, KindElementCount, KindForKeyword("elements"))
	assert.Equal(t, KindUnknown, KindForKeyword("Read"))
	assert.Equal(t, KindUnknown, KindForKeyword("unknown"))
}

func TestTotals_Plus_SumsCostsAndKeepsEfficiency(t *testing.T) {
	primary := Totals{TotalTime: 1, TotalEnergy: 2, Efficiency: 0.4, PeripheryTime: 3, PeripheryEnergy: 4, Counts: Counts{Reads: 1}}
	offsets := Totals{TotalTime: 10, TotalEnergy: 20, Efficiency: 0.9, Counts: Counts{Reads: 2, Writes: 1}}

	sum := primary.Plus(offsets)

	assert.Equal(t, Totals{
		TotalTime: 11, TotalEnergy: 22, Efficiency: 0.4, PeripheryTime: 3, PeripheryEnergy: 4,
		Counts: Counts{Reads: 3, Writes: 1},
	}, sum)
	assert.Equal(t, 14.0, sum.CombinedTime())
	assert.Equal(t, 26.0, sum.CombinedEnergy())
	assert.Equal(t, 0.9, Totals{}.Plus(offsets).Efficiency)
}

func TestTotals_Scale_LeavesEfficiency(t *testing.T) {
	got := Totals{TotalTime: 2, TotalEnergy: 1, PeripheryTime: 2, PeripheryEnergy: 1, Efficiency: 0.5}.Scale(1.5, 4)

	assert.Equal(t, Totals{TotalTime: 3, TotalEnergy: 4, PeripheryTime: 3, PeripheryEnergy: 4, Efficiency: 0.5}, got)
}
