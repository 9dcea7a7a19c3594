package aida

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an ingest failure.
type ErrorKind string

const (
	KindHeaderNotFound ErrorKind = "HeaderNotFound"
	KindNoValidSamples ErrorKind = "NoValidSamples"
)

var (
	// ErrHeaderNotFound is returned when no row matches the header heuristic.
	ErrHeaderNotFound = errors.New("aida: header not found in log")

	// ErrNoValidSamples is returned when the header was found but no data row
	// held a positive numeric temperature.
	ErrNoValidSamples = errors.New("aida: no valid temperature samples in log")
)

// IngestError is the typed failure returned by Ingest.
// It unwraps to ErrHeaderNotFound or ErrNoValidSamples.
type IngestError struct {
	Kind ErrorKind
	Rows int // rows parsed before the failure was decided
	Err  error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("%s (%d rows scanned)", e.Err.Error(), e.Rows)
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

func headerNotFound(rows int) error {
	return &IngestError{Kind: KindHeaderNotFound, Rows: rows, Err: ErrHeaderNotFound}
}

func noValidSamples(rows int) error {
	return &IngestError{Kind: KindNoValidSamples, Rows: rows, Err: ErrNoValidSamples}
}

// KindOf returns the ErrorKind of err, or "" if err is not an ingest failure.
func KindOf(err error) ErrorKind {
	var ie *IngestError
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return ""
}
