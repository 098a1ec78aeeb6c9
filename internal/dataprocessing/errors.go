package dataprocessing

import (
	"errors"
	"fmt"
)

var (
	// ErrColumnNotFound is returned when a transform references a column the table lacks
	ErrColumnNotFound = errors.New("column not found")
	// ErrUnsupportedFormat is returned for file extensions LoadTable cannot read
	ErrUnsupportedFormat = errors.New("unsupported table format")
	// ErrEmptyTable is returned when a file has no header row
	ErrEmptyTable = errors.New("table has no header row")
	// ErrKeyTypeMismatch is returned when join key columns hold different types
	ErrKeyTypeMismatch = errors.New("join key types differ")
)

func columnNotFound(name string) error {
	return fmt.Errorf("%w: %q", ErrColumnNotFound, name)
}
