// Package xbar provides the crossbar cost accumulator used to turn simulator
// traces into time and energy totals.
//
// # Reading Guide
//
//   - record.go: OperationRecord, the tagged record decoded from one trace line
//   - model.go: CostModel and the timing variants a study can select
//   - accumulate.go: Accumulate, the single-pass fold into Totals
//
// # Architecture
//
// The xbar package holds pure data types and the accumulator; everything that
// touches files or logs lives in sub-packages:
//   - xbar/trace/: line grammar and file reader producing OperationRecords
//   - xbar/presets/: built-in and YAML-defined cost models
//   - xbar/compare/: per-dataset comparison of several systems against a reference
//
// Accumulate performs no I/O. Unknown record kinds are returned as Anomalies
// so the caller decides how to surface them.
package xbar
