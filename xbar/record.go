package xbar

// Kind tags the variant held by an OperationRecord.
type Kind string

const (
	KindClear        Kind = "clear"
	KindRead         Kind = "read"
	KindWrite        Kind = "write"
	KindEfficiency   Kind = "efficiency"
	KindElementCount Kind = "elements"
	// KindUnknown marks a keyword this tool does not recognize; Name holds it.
	KindUnknown Kind = "unknown"
)

// kindsByKeyword maps trace keywords (case-sensitive) to record kinds.
var kindsByKeyword = map[string]Kind{
	"clear":      KindClear,
	"read":       KindRead,
	"write":      KindWrite,
	"efficiency": KindEfficiency,
	"elements":   KindElementCount,
}

// KindForKeyword returns the record kind for a trace keyword, or KindUnknown.
func KindForKeyword(keyword string) Kind {
	if k, ok := kindsByKeyword[keyword]; ok {
		return k
	}
	return KindUnknown
}

// OperationRecord is one decoded trace line.
// Which fields are meaningful depends on Kind; the rest stay zero.
type OperationRecord struct {
	Kind Kind
	Name string // raw keyword, set for KindUnknown
	Line int    // 1-based source line; 0 when built in code

	// Read and Write payload.
	SenseActivations int64
	RowReads         int64
	RowWrites        int64
	InputCount       int64

	Value float64 // Efficiency
	Count int64   // ElementCount
}

// Clear returns a clear record.
func Clear() OperationRecord {
	return OperationRecord{Kind: KindClear}
}

// Read returns a read record with the four payload counts in trace order.
func Read(senseActivations, rowReads, rowWrites, inputCount int64) OperationRecord {
	return OperationRecord{
		Kind:             KindRead,
		SenseActivations: senseActivations,
		RowReads:         rowReads,
		RowWrites:        rowWrites,
		InputCount:       inputCount,
	}
}

// Write returns a write record with the four payload counts in trace order.
func Write(senseActivations, rowReads, rowWrites, inputCount int64) OperationRecord {
	return OperationRecord{
		Kind:             KindWrite,
		SenseActivations: senseActivations,
		RowReads:         rowReads,
		RowWrites:        rowWrites,
		InputCount:       inputCount,
	}
}

// Efficiency returns an efficiency record.
func Efficiency(value float64) OperationRecord {
	return OperationRecord{Kind: KindEfficiency, Value: value}
}

// Elements returns an element-count record.
func Elements(count int64) OperationRecord {
	return OperationRecord{Kind: KindElementCount, Count: count}
}

// Unknown returns a record for an unrecognized keyword.
func Unknown(name string) OperationRecord {
	return OperationRecord{Kind: KindUnknown, Name: name}
}

// AtLine returns a copy of r tagged with a source line.
func (r OperationRecord) AtLine(line int) OperationRecord {
	r.Line = line
	return r
}

// validate rejects negative counts. Fields that the kind does not use are ignored.
func (r OperationRecord) validate() error {
	check := func(field string, v int64) error {
		if v < 0 {
			return &MalformedRecordError{
				Line:   r.Line,
				Kind:   r.Kind,
				Field:  field,
				Value:  formatInt(v),
				Reason: "must be non-negative",
			}
		}
		return nil
	}
	switch r.Kind {
	case KindRead, KindWrite:
		for _, f := range []struct {
			name string
			v    int64
		}{
			{"sense_activations", r.SenseActivations},
			{"row_reads", r.RowReads},
			{"row_writes", r.RowWrites},
			{"input_count", r.InputCount},
		} {
			if err := check(f.name, f.v); err != nil {
				return err
			}
		}
	case KindElementCount:
		return check("count", r.Count)
	}
	return nil
}
