package mms

import (
	"errors"
	"fmt"
)

var (
	// ErrArchiveNotFound means no archive is published for the period,
	// e.g. a future month or a month before the archive begins.
	ErrArchiveNotFound = errors.New("archive not found")

	// ErrTransient covers network, HTTP and decompression failures.
	ErrTransient = errors.New("archive fetch failed")

	// ErrInvalidPeriod is returned for malformed or out-of-range periods.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrMissingColumn is returned when a table lacks a required column.
	ErrMissingColumn = errors.New("missing column")
)

// ArchiveError reports a failure to retrieve one table for one period.
type ArchiveError struct {
	Period Period
	Table  string
	URL    string
	Err    error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("fetch %s for %s: %v", e.Table, e.Period, e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// DecodeError reports a table that does not match its declared schema.
// Row is the zero-based data row, or -1 for header-level problems.
type DecodeError struct {
	Table  string
	Row    int
	Column string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("decode %s: column %s: %v", e.Table, e.Column, e.Err)
	}
	return fmt.Sprintf("decode %s: row %d column %s: %v", e.Table, e.Row, e.Column, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err means the archive does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrArchiveNotFound)
}
