// Package aida ingests AIDA64 hardware-monitor CSV exports.
//
// An export is semi-structured: a free-form preamble of key/value lines, a
// header row naming the sensor columns, a units row, and then time-series
// data rows that may be interleaved with annotation lines. [Ingest] locates
// the header, collects every positive temperature sample per sensor column,
// and returns per-sensor and overall aggregates.
//
// # Ingestion
//
//  1. The text is split into [RawRow] values using comma-delimited, quoted CSV
//     with empty lines skipped. Cells are coerced to numbers when they parse
//     fully as one.
//  2. The header is the first row whose first cell is text and either contains
//     "Date" or whose joined content contains "Date,Time,UpTime,CPU".
//  3. The row after the header is the units row and is skipped by position.
//  4. Header cells from index 3 onward name the sensor columns.
//  5. Every later row with at least 4 cells contributes each numeric cell
//     greater than zero to its sensor.
//
// # Errors
//
// A call either returns a complete [IngestResult] or fails with one of:
//
//   - [ErrHeaderNotFound]: no row matches the header heuristic
//   - [ErrNoValidSamples]: the header was found but no cell held a positive reading
//
// Malformed cells are never errors; they are excluded from aggregation.
//
// # Concurrency
//
// Ingestion is a pure function of its input. An [Ingestor] holds no mutable
// state and may be shared between goroutines.
package aida
