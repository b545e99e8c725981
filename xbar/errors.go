package xbar

import (
	"fmt"
	"strconv"
)

// ConfigurationError reports an invalid trace header or cost model.
// It is fatal for the trace being processed.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// MalformedRecordError reports a recognized record with a bad field.
// The whole trace is rejected; no partial totals are returned.
type MalformedRecordError struct {
	Line   int
	Kind   Kind
	Field  string
	Value  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	loc := ""
	if e.Line > 0 {
		loc = fmt.Sprintf("line %d: ", e.Line)
	}
	return fmt.Sprintf("%smalformed %s record: %s=%q %s", loc, e.Kind, e.Field, e.Value, e.Reason)
}

// Anomaly is an ignored record whose keyword was not recognized.
type Anomaly struct {
	Line int
	Name string
}

func (a Anomaly) String() string {
	return fmt.Sprintf("line %d: unknown command %q", a.Line, a.Name)
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
