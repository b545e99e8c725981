// Package presets provides the cost models used by the study and loads
// additional ones from YAML.
package presets

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sparsemem/xbarcost/xbar"
)

// Array constants shared by every built-in model.
const (
	ReadLatency  = 10e-9
	WriteLatency = 100e-9
	ReadEnergy   = 40e-15
	WriteEnergy  = 20e-12
	ADCLatency   = 1e-9
	ADCEnergy    = 2e-12
	SALatency    = 1e-9
	SAEnergy     = 10e-12
)

// Names of the built-in models.
const (
	GraphR    = "graphr"
	SparseMEM = "sparsemem"
	Offsets   = "offsets"
	Classic   = "classic"
)

// File is the structure of a cost-model YAML file.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type File struct {
	Version string                    `yaml:"version"`
	Models  map[string]xbar.CostModel `yaml:"models"`
}

func studySense() map[xbar.SenseType]xbar.SenseCost {
	return map[xbar.SenseType]xbar.SenseCost{
		xbar.SenseADC: {Latency: ADCLatency, Energy: ADCEnergy},
		xbar.SenseAmp: {Latency: SALatency, Energy: SAEnergy},
	}
}

func base(name string, read xbar.ReadTiming, write xbar.WriteTiming) xbar.CostModel {
	return xbar.CostModel{
		Name:         name,
		ReadLatency:  ReadLatency,
		ReadEnergy:   ReadEnergy,
		WriteLatency: WriteLatency,
		WriteEnergy:  WriteEnergy,
		Sense:        studySense(),
		ReadTiming:   read,
		WriteTiming:  write,
	}
}

// Builtin returns a fresh copy of the study's cost models, keyed by name.
//   - graphr: fixed column-driver overhead charged per read
//   - sparsemem: per-element periphery for the proposed design
//   - offsets: the proposed design's offset array, no periphery
//   - classic: the earliest variant, row-scaled reads and unscaled writes
func Builtin() map[string]xbar.CostModel {
	graphr := base(GraphR, xbar.ReadTimingFlat, xbar.WriteTimingPerInput)
	graphr.Static = &xbar.PeripheryCost{Latency: 0.5e-9, Energy: 11.8e-12}

	sparse := base(SparseMEM, xbar.ReadTimingFlat, xbar.WriteTimingPerInput)
	sparse.Dynamic = &xbar.PeripheryCost{Latency: 1.1e-9, Energy: 28.8e-12}

	return map[string]xbar.CostModel{
		GraphR:    graphr,
		SparseMEM: sparse,
		Offsets:   base(Offsets, xbar.ReadTimingFlat, xbar.WriteTimingPerInput),
		Classic:   base(Classic, xbar.ReadTimingPerRow, xbar.WriteTimingUnscaled),
	}
}

// Load parses a cost-model YAML file with strict field checking and validates
// every model in it.
func Load(path string) (map[string]xbar.CostModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cost models %q: %w", path, err)
	}
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse cost models %q: %w", path, err)
	}
	if len(f.Models) == 0 {
		return nil, fmt.Errorf("cost models %q: no models defined", path)
	}

	var errs []error
	models := make(map[string]xbar.CostModel, len(f.Models))
	for _, name := range sortedNames(f.Models) {
		m := f.Models[name]
		m.Name = name
		if err := xbar.ValidateCostModel(m); err != nil {
			errs = append(errs, err)
			continue
		}
		models[name] = m
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("cost models %q: %w", path, errors.Join(errs...))
	}
	return models, nil
}

// Resolve returns the named model from the file at path, or from Builtin when path is empty.
func Resolve(path, name string) (xbar.CostModel, error) {
	models := Builtin()
	if path != "" {
		var err error
		if models, err = Load(path); err != nil {
			return xbar.CostModel{}, err
		}
	}
	m, ok := models[name]
	if !ok {
		return xbar.CostModel{}, fmt.Errorf("cost model %q not found (available: %s)", name, strings.Join(sortedNames(models), ", "))
	}
	return m, nil
}

// Names returns the model names in sorted order.
func Names(models map[string]xbar.CostModel) []string {
	return sortedNames(models)
}

func sortedNames(models map[string]xbar.CostModel) []string {
	names := make([]string, 0, len(models))
	for k := range models {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
