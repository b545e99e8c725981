package presets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparsemem/xbarcost/xbar"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "models.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

func TestBuiltin_AllModelsValid(t *testing.T) {
	for name, m := range Builtin() {
		assert.Equal(t, name, m.Name)
		assert.NoError(t, xbar.ValidateCostModel(m), name)
	}
}

func TestBuiltin_ReturnsFreshCopies(t *testing.T) {
	first := Builtin()
	first[GraphR].Sense[xbar.SenseADC] = xbar.SenseCost{}
	first[GraphR].Static.Latency = 99

	second := Builtin()
	assert.Equal(t, ADCLatency, second[GraphR].Sense[xbar.SenseADC].Latency)
	assert.Equal(t, 0.5e-9, second[GraphR].Static.Latency)
}

func TestLoad_RepositoryFileMatchesBuiltin(t *testing.T) {
	// GIVEN the shipped costmodels.yaml
	models, err := Load(filepath.Join("..", "..", "costmodels.yaml"))

	// THEN it decodes to exactly the built-in presets
	require.NoError(t, err)
	assert.Equal(t, Builtin(), models)
}

func TestLoad_UnknownField_Rejected(t *testing.T) {
	path := writeFile(t, `
models:
  typo:
    read_latncy: 1.0e-9
`)

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read_latncy")
}

func TestLoad_InvalidConstants_ListsEveryModel(t *testing.T) {
	path := writeFile(t, `
models:
  a:
    read_latency: -1
  b:
    write_timing: sometimes
  ok:
    read_latency: 1.0e-9
`)

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cost_model a")
	assert.Contains(t, err.Error(), "cost_model b")
	assert.NotContains(t, err.Error(), "cost_model ok")
}

func TestLoad_NoModels(t *testing.T) {
	_, err := Load(writeFile(t, "version: \"1\"\n"))
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestResolve_BuiltinAndUnknownName(t *testing.T) {
	m, err := Resolve("", SparseMEM)
	require.NoError(t, err)
	require.NotNil(t, m.Dynamic)
	assert.Equal(t, 28.8e-12, m.Dynamic.Energy)

	_, err = Resolve("", "graphsar")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "classic, graphr, offsets, sparsemem"), err.Error())
}

func TestResolve_FromFile(t *testing.T) {
	path := writeFile(t, `
models:
  tiny:
    read_latency: 1.0e-9
    sense:
      adc: {latency: 2.0e-9, energy: 3.0e-12}
    read_timing: flat
`)

	m, err := Resolve(path, "tiny")

	require.NoError(t, err)
	assert.Equal(t, "tiny", m.Name)
	assert.Equal(t, xbar.ReadTimingFlat, m.ReadTiming)
	assert.Equal(t, xbar.SenseCost{Latency: 2e-9, Energy: 3e-12}, m.Sense[xbar.SenseADC])
}
