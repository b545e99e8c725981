package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/sparsemem/xbarcost/xbar"
)

const maxLineBytes = 1 << 20

// Options controls how a trace is read.
type Options struct {
	// DefaultSense is used when the header names no sense type. It is an
	// explicit caller choice; when empty such traces are rejected.
	DefaultSense xbar.SenseType
}

// Reader streams records from a trace. The header is read eagerly by NewReader;
// records are read lazily, once, in file order.
type Reader struct {
	scanner  *bufio.Scanner
	header   xbar.TraceHeader
	line     int
	consumed bool
}

// NewReader reads the header from r and returns a Reader positioned at the first record.
func NewReader(r io.Reader, opts Options) (*Reader, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	rd := &Reader{scanner: sc}

	text, ok := rd.nextLine()
	if !ok {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("reading trace header: %w", err)
		}
		return nil, &xbar.ConfigurationError{Field: "header", Reason: "trace is empty"}
	}
	h, err := ParseHeader(text)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", rd.line, err)
	}
	if h.SenseType == "" {
		h.SenseType = opts.DefaultSense
	}
	rd.header = h
	return rd, nil
}

// nextLine returns the next non-blank line, advancing the line counter.
func (r *Reader) nextLine() (string, bool) {
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimSpace(r.scanner.Text())
		if text != "" {
			return text, true
		}
	}
	return "", false
}

// Header returns the decoded header.
func (r *Reader) Header() xbar.TraceHeader {
	return r.header
}

// Records returns the remaining records as a single-use sequence. Decode
// failures are yielded as errors; iteration should stop at the first one.
func (r *Reader) Records() iter.Seq2[xbar.OperationRecord, error] {
	return func(yield func(xbar.OperationRecord, error) bool) {
		if r.consumed {
			yield(xbar.OperationRecord{}, errors.New("trace records already consumed"))
			return
		}
		r.consumed = true
		for {
			text, ok := r.nextLine()
			if !ok {
				break
			}
			rec, err := ParseRecord(text, r.line)
			if !yield(rec, err) || err != nil {
				return
			}
		}
		if err := r.scanner.Err(); err != nil {
			yield(xbar.OperationRecord{}, fmt.Errorf("line %d: %w", r.line+1, err))
		}
	}
}

// File is a Reader over an open trace file.
type File struct {
	*Reader
	f *os.File
}

// Open opens the trace at path and reads its header.
func Open(path string, opts Options) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace: %w", err)
	}
	rd, err := NewReader(f, opts)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &File{Reader: rd, f: f}, nil
}

// Close closes the underlying file.
func (f *File) Close() error {
	return f.f.Close()
}

// AccumulateFile reads the trace at path and reduces it under model.
// Errors are wrapped with the path.
func AccumulateFile(path string, model xbar.CostModel, opts Options) (xbar.Result, xbar.TraceHeader, error) {
	f, err := Open(path, opts)
	if err != nil {
		return xbar.Result{}, xbar.TraceHeader{}, fmt.Errorf("trace %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	res, err := xbar.AccumulateSeq(f.Header(), f.Records(), model)
	if err != nil {
		return xbar.Result{}, f.Header(), fmt.Errorf("trace %s: %w", path, err)
	}
	return res, f.Header(), nil
}
