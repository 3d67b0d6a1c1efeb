package createmap

import (
	"fmt"
	"os"
)

// FormatError reports a line that does not match its file's expected shape.
type FormatError struct {
	File   string
	Line   int
	Text   string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("createmap: %s line %d: %s: %q", e.File, e.Line, e.Reason, e.Text)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// MissingFileError reports an input file that does not exist.
type MissingFileError struct {
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("createmap: input file %q not found", e.Path)
}

// Unwrap lets callers test for os.ErrNotExist.
func (e *MissingFileError) Unwrap() error {
	return os.ErrNotExist
}
