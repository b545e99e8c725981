// Package compare prices the traces of several systems across datasets and
// normalizes every system against a reference system.
package compare

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sparsemem/xbarcost/xbar"
)

// DatasetPlaceholder is replaced by the dataset name in trace paths.
const DatasetPlaceholder = "{dataset}"

// Config describes one comparison run.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Config struct {
	Reference string         `yaml:"reference"`
	Datasets  []string       `yaml:"datasets"`
	Systems   []SystemConfig `yaml:"systems"`

	// BaseDir resolves relative trace paths; set by LoadConfig to the config's directory.
	BaseDir string `yaml:"-"`
}

// SystemConfig defines how a system's totals are obtained. Exactly one of
// Traces, Derived or External is set.
type SystemConfig struct {
	Name     string                 `yaml:"name"`
	Label    string                 `yaml:"label,omitempty"`
	Traces   []TraceSource          `yaml:"traces,omitempty"`
	Derived  *Derivation            `yaml:"derived,omitempty"`
	External map[string]Measurement `yaml:"external,omitempty"`
}

// DisplayName returns Label, falling back to Name.
func (s SystemConfig) DisplayName() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Name
}

// TraceSource is one trace file per dataset priced with a named cost model.
// Several sources of one system are summed.
type TraceSource struct {
	Model string         `yaml:"model"`
	Path  string         `yaml:"path"`
	Sense xbar.SenseType `yaml:"sense,omitempty"` // used when a header omits its sense type
}

// Derivation scales another system's totals.
type Derivation struct {
	From         string  `yaml:"from"`
	TimeFactor   float64 `yaml:"time_factor"`
	EnergyFactor float64 `yaml:"energy_factor"`
}

// Measurement is an externally measured result for one dataset.
type Measurement struct {
	Time       float64 `yaml:"time"`
	Energy     float64 `yaml:"energy"`
	Efficiency float64 `yaml:"efficiency,omitempty"`
}

// LoadConfig reads a comparison config with strict field checking and validates it.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read comparison config %q: %w", path, err)
	}
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse comparison config %q: %w", path, err)
	}
	cfg.BaseDir = filepath.Dir(path)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("comparison config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the structure of the config. Returns an error listing all
// problems, or nil if valid.
func (c Config) Validate() error {
	var problems []string
	if len(c.Datasets) == 0 {
		problems = append(problems, "at least one dataset is required")
	}
	if len(c.Systems) == 0 {
		problems = append(problems, "at least one system is required")
	}

	seen := make(map[string]bool, len(c.Systems))
	for i, s := range c.Systems {
		if s.Name == "" {
			problems = append(problems, fmt.Sprintf("systems[%d]: name is required", i))
			continue
		}
		if seen[s.Name] {
			problems = append(problems, fmt.Sprintf("system %q defined twice", s.Name))
		}

		sources := 0
		if len(s.Traces) > 0 {
			sources++
			for j, t := range s.Traces {
				if t.Model == "" || t.Path == "" {
					problems = append(problems, fmt.Sprintf("system %q traces[%d]: model and path are required", s.Name, j))
				}
				if t.Sense != "" && !xbar.IsValidSenseType(string(t.Sense)) {
					problems = append(problems, fmt.Sprintf("system %q traces[%d]: unknown sense type %q", s.Name, j, t.Sense))
				}
			}
		}
		if s.Derived != nil {
			sources++
			d := s.Derived
			// Derived systems may only refer to systems listed before them.
			if !seen[d.From] {
				problems = append(problems, fmt.Sprintf("system %q derives from %q, which must be defined earlier", s.Name, d.From))
			}
			if invalidFactor(d.TimeFactor) || invalidFactor(d.EnergyFactor) {
				problems = append(problems, fmt.Sprintf("system %q: derivation factors must be positive and finite", s.Name))
			}
		}
		if s.External != nil {
			sources++
		}
		if sources != 1 {
			problems = append(problems, fmt.Sprintf("system %q must set exactly one of traces, derived, external", s.Name))
		}
		seen[s.Name] = true
	}

	if c.Reference == "" {
		problems = append(problems, "reference system is required")
	} else if !seen[c.Reference] {
		problems = append(problems, fmt.Sprintf("reference system %q is not defined", c.Reference))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid comparison config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func invalidFactor(v float64) bool {
	return v <= 0 || math.IsNaN(v) || math.IsInf(v, 0)
}

// tracePath expands the dataset placeholder and resolves p against BaseDir.
func (c Config) tracePath(p, dataset string) string {
	p = strings.ReplaceAll(p, DatasetPlaceholder, dataset)
	if filepath.IsAbs(p) || c.BaseDir == "" {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}
