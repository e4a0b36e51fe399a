package parser

import "fmt"

// FormatError reports text whose delimiter structure could not be resolved.
// It is the only error kind this package produces: all other malformed
// input degrades to absent slots rather than failing.
type FormatError struct {
	Message string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format error: %s", e.Message)
}

// Common error messages
const (
	ErrElementSeparator  = "could not determine element separator"
	ErrSegmentTerminator = "could not determine segment terminator"
)
