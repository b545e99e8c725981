package trace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparsemem/xbarcost/xbar"
	"github.com/sparsemem/xbarcost/xbar/internal/testutil"
)

func collect(t *testing.T, r *Reader) []xbar.OperationRecord {
	t.Helper()
	var out []xbar.OperationRecord
	for rec, err := range r.Records() {
		require.NoError(t, err)
		out = append(out, rec)
	}
	return out
}

func TestParseHeader_WithAndWithoutSenseType(t *testing.T) {
	h, err := ParseHeader("init: 128,64,adc")
	require.NoError(t, err)
	assert.Equal(t, xbar.TraceHeader{RowCount: 128, ColCount: 64, SenseType: xbar.SenseADC}, h)

	h, err = ParseHeader("init: 4, 2")
	require.NoError(t, err)
	assert.Equal(t, xbar.TraceHeader{RowCount: 4, ColCount: 2}, h)
}

func TestParseHeader_Invalid_ConfigurationError(t *testing.T) {
	tests := []struct {
		line  string
		field string
	}{
		{"read 1,2,3,4", "header"},
		{"init: 4", "header"},
		{"init: ,4,adc", "row_count"},
		{"init: 4,x,adc", "col_count"},
		{"init: 1,2,adc,extra", "header"},
	}
	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			_, err := ParseHeader(tc.line)
			var cfgErr *xbar.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tc.field, cfgErr.Field)
		})
	}
}

func TestParseRecord_RecognizedKinds(t *testing.T) {
	tests := []struct {
		line string
		want xbar.OperationRecord
	}{
		{"clear", xbar.Clear()},
		{"read 2,3,0,1", xbar.Read(2, 3, 0, 1)},
		{"read 1, 2 ,3,4", xbar.Read(1, 2, 3, 4)},
		{"write: 1,0,4,1", xbar.Write(1, 0, 4, 1)},
		{"efficiency 0.001673", xbar.Efficiency(0.001673)},
		{"elements 42", xbar.Elements(42)},
		{"read -1,3,0,1", xbar.Read(-1, 3, 0, 1)},
	}
	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			got, err := ParseRecord(tc.line, 7)
			require.NoError(t, err)
			assert.Equal(t, tc.want.AtLine(7), got)
		})
	}
}

func TestParseRecord_UnknownKeywords(t *testing.T) {
	tests := []struct {
		line string
		name string
	}{
		{"Read 1,2,3,4", "Read"},
		{"too large degree: 512", "too"},
		{"is_active: 1", "is"},
		{"42 things", "42"},
	}
	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			got, err := ParseRecord(tc.line, 3)
			require.NoError(t, err)
			assert.Equal(t, xbar.KindUnknown, got.Kind)
			assert.Equal(t, tc.name, got.Name)
			assert.Equal(t, 3, got.Line)
		})
	}
}

func TestParseRecord_Malformed_NamesField(t *testing.T) {
	tests := []struct {
		line  string
		field string
	}{
		{"read 1,2,3", "payload"},
		{"write 1,2,x,4", "row_writes"},
		{"read 1,2,3,1.5", "input_count"},
		{"efficiency high", "value"},
		{"efficiency NaN", "value"},
		{"elements many", "count"},
	}
	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			_, err := ParseRecord(tc.line, 9)
			var malformed *xbar.MalformedRecordError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, tc.field, malformed.Field)
			assert.Equal(t, 9, malformed.Line)
		})
	}
}

func TestReader_SkipsBlankLinesAndCountsLines(t *testing.T) {
	// GIVEN a trace with blank lines between records
	src := "init: 4,2,sa\n\nclear\n  \nread 2,3,0,1\nflush\n"

	r, err := NewReader(strings.NewReader(src), Options{})
	require.NoError(t, err)

	assert.Equal(t, xbar.SenseAmp, r.Header().SenseType)
	assert.Equal(t, []xbar.OperationRecord{
		xbar.Clear().AtLine(3),
		xbar.Read(2, 3, 0, 1).AtLine(5),
		xbar.Unknown("flush").AtLine(6),
	}, collect(t, r))
}

func TestReader_DefaultSenseOnlyFillsMissing(t *testing.T) {
	r, err := NewReader(strings.NewReader("init: 4,2\n"), Options{DefaultSense: xbar.SenseAmp})
	require.NoError(t, err)
	assert.Equal(t, xbar.SenseAmp, r.Header().SenseType)

	r, err = NewReader(strings.NewReader("init: 4,2,adc\n"), Options{DefaultSense: xbar.SenseAmp})
	require.NoError(t, err)
	assert.Equal(t, xbar.SenseADC, r.Header().SenseType)
}

func TestReader_EmptyInput_ConfigurationError(t *testing.T) {
	_, err := NewReader(strings.NewReader("\n\n"), Options{})

	var cfgErr *xbar.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "header", cfgErr.Field)
}

func TestReader_RecordsSingleUse(t *testing.T) {
	r, err := NewReader(strings.NewReader("init: 4,2,adc\nclear\n"), Options{})
	require.NoError(t, err)
	assert.Len(t, collect(t, r), 1)

	var errs int
	for _, err := range r.Records() {
		if err != nil {
			errs++
		}
	}
	assert.Equal(t, 1, errs)
}

func TestReader_DecodeErrorStopsIteration(t *testing.T) {
	r, err := NewReader(strings.NewReader("init: 4,2,adc\nclear\nread 1,x,0,1\nclear\n"), Options{})
	require.NoError(t, err)

	var recs int
	var lastErr error
	for _, err := range r.Records() {
		if err != nil {
			lastErr = err
			continue
		}
		recs++
	}

	// THEN the record after the bad line is never produced
	assert.Equal(t, 1, recs)
	var malformed *xbar.MalformedRecordError
	require.ErrorAs(t, lastErr, &malformed)
	assert.Equal(t, 3, malformed.Line)
}

func TestAccumulateFile_WorkedExample(t *testing.T) {
	// GIVEN the worked example written to disk
	path := testutil.WriteTrace(t, t.TempDir(), "WV-ours.log",
		"init: 4,2,adc",
		"write 1,0,4,1",
		"read 2,3,0,1",
		"efficiency 0.5",
		"efficiency 0.9",
	)
	model := xbar.CostModel{
		ReadLatency: 10e-9, ReadEnergy: 40e-15, WriteLatency: 100e-9, WriteEnergy: 20e-12,
		Sense: map[xbar.SenseType]xbar.SenseCost{xbar.SenseADC: {Latency: 1e-9, Energy: 2e-12}},
	}

	res, header, err := AccumulateFile(path, model, Options{})

	require.NoError(t, err)
	assert.Equal(t, int64(4), header.RowCount)
	testutil.AssertFloat64Equal(t, "total_time", 133e-9, res.Totals.TotalTime, 1e-12)
	testutil.AssertFloat64Equal(t, "total_energy", 86.12e-12, res.Totals.TotalEnergy, 1e-12)
	assert.Equal(t, 0.9, res.Totals.Efficiency)
}

func TestAccumulateFile_NegativeField_MalformedWithPath(t *testing.T) {
	path := testutil.WriteTrace(t, t.TempDir(), "bad.log",
		"init: 4,2,adc",
		"write 1,0,4,1",
		"read 2,-3,0,1",
	)
	model := xbar.CostModel{Sense: map[xbar.SenseType]xbar.SenseCost{xbar.SenseADC: {}}}

	res, _, err := AccumulateFile(path, model, Options{})

	var malformed *xbar.MalformedRecordError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "row_reads", malformed.Field)
	assert.Equal(t, 3, malformed.Line)
	assert.Contains(t, err.Error(), "bad.log")
	assert.Equal(t, xbar.Result{}, res)
}

func TestAccumulateFile_MissingSenseType_Rejected(t *testing.T) {
	path := testutil.WriteTrace(t, t.TempDir(), "nosense.log", "init: 4,2", "clear")
	model := xbar.CostModel{Sense: map[xbar.SenseType]xbar.SenseCost{xbar.SenseADC: {}}}

	_, _, err := AccumulateFile(path, model, Options{})

	var cfgErr *xbar.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "sense_type", cfgErr.Field)
}

func TestAccumulateFile_MissingFile(t *testing.T) {
	_, _, err := AccumulateFile("does-not-exist.log", xbar.CostModel{}, Options{})
	assert.Error(t, err)
}
