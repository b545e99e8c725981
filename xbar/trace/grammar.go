// Package trace decodes simulator trace files into xbar records.
//
// A trace is a header line followed by one record per line:
//
//	init: <row_count>,<col_count>[,<sense_type>]
//	<keyword><separator><payload>
//
// The keyword is the leading run of ASCII letters, matched case-sensitively.
// The separator is any mix of blanks and colons.
package trace

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sparsemem/xbarcost/xbar"
)

const headerKeyword = "init"

// countFields names the read/write payload fields in trace order.
var countFields = []string{"sense_activations", "row_reads", "row_writes", "input_count"}

// splitKeyword separates a trimmed line into keyword and payload.
func splitKeyword(line string) (keyword, payload string) {
	i := 0
	for i < len(line) && isASCIILetter(line[i]) {
		i++
	}
	if i == 0 {
		// No letters: the first token is reported as the keyword.
		if fields := strings.Fields(line); len(fields) > 0 {
			i = len(fields[0])
		}
	}
	return line[:i], strings.TrimLeft(line[i:], " \t:")
}

func isASCIILetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// splitPayload splits a comma-separated payload, trimming blanks around each field.
func splitPayload(payload string) []string {
	parts := strings.Split(payload, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// ParseHeader decodes the "init:" line. Geometry is required; the sense type is
// optional and returned verbatim (validation belongs to the accumulator).
func ParseHeader(line string) (xbar.TraceHeader, error) {
	keyword, payload := splitKeyword(strings.TrimSpace(line))
	if keyword != headerKeyword {
		return xbar.TraceHeader{}, &xbar.ConfigurationError{
			Field:  "header",
			Reason: fmt.Sprintf("first line must start with %q, got %q", headerKeyword+":", keyword),
		}
	}
	parts := splitPayload(payload)
	if len(parts) < 2 || len(parts) > 3 {
		return xbar.TraceHeader{}, &xbar.ConfigurationError{
			Field:  "header",
			Reason: fmt.Sprintf("want <row_count>,<col_count>[,<sense_type>], got %q", payload),
		}
	}

	var h xbar.TraceHeader
	for i, dst := range []*int64{&h.RowCount, &h.ColCount} {
		field := []string{"row_count", "col_count"}[i]
		if parts[i] == "" {
			return xbar.TraceHeader{}, &xbar.ConfigurationError{Field: field, Reason: "missing"}
		}
		v, err := strconv.ParseInt(parts[i], 10, 64)
		if err != nil {
			return xbar.TraceHeader{}, &xbar.ConfigurationError{Field: field, Reason: fmt.Sprintf("%q is not an integer", parts[i])}
		}
		*dst = v
	}
	if len(parts) == 3 {
		h.SenseType = xbar.SenseType(parts[2])
	}
	return h, nil
}

// ParseRecord decodes one non-header line. Unrecognized keywords become
// xbar.KindUnknown records; their payload is not inspected.
func ParseRecord(line string, lineNo int) (xbar.OperationRecord, error) {
	keyword, payload := splitKeyword(strings.TrimSpace(line))
	kind := xbar.KindForKeyword(keyword)

	switch kind {
	case xbar.KindClear:
		return xbar.Clear().AtLine(lineNo), nil

	case xbar.KindRead, xbar.KindWrite:
		parts := splitPayload(payload)
		if len(parts) != len(countFields) {
			return xbar.OperationRecord{}, &xbar.MalformedRecordError{
				Line:   lineNo,
				Kind:   kind,
				Field:  "payload",
				Value:  payload,
				Reason: fmt.Sprintf("want %d comma-separated integers, got %d fields", len(countFields), len(parts)),
			}
		}
		var counts [4]int64
		for i, p := range parts {
			v, err := strconv.ParseInt(p, 10, 64)
			if err != nil {
				return xbar.OperationRecord{}, &xbar.MalformedRecordError{
					Line: lineNo, Kind: kind, Field: countFields[i], Value: p, Reason: "is not an integer",
				}
			}
			counts[i] = v
		}
		rec := xbar.Read(counts[0], counts[1], counts[2], counts[3])
		if kind == xbar.KindWrite {
			rec = xbar.Write(counts[0], counts[1], counts[2], counts[3])
		}
		return rec.AtLine(lineNo), nil

	case xbar.KindEfficiency:
		v, err := strconv.ParseFloat(strings.TrimSpace(payload), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return xbar.OperationRecord{}, &xbar.MalformedRecordError{
				Line: lineNo, Kind: kind, Field: "value", Value: payload, Reason: "is not a finite number",
			}
		}
		return xbar.Efficiency(v).AtLine(lineNo), nil

	case xbar.KindElementCount:
		v, err := strconv.ParseInt(strings.TrimSpace(payload), 10, 64)
		if err != nil {
			return xbar.OperationRecord{}, &xbar.MalformedRecordError{
				Line: lineNo, Kind: kind, Field: "count", Value: payload, Reason: "is not an integer",
			}
		}
		return xbar.Elements(v).AtLine(lineNo), nil

	default:
		return xbar.Unknown(keyword).AtLine(lineNo), nil
	}
}
