package scanner

import (
	"fmt"

	"github.com/owatch/dupescan/internal/errors"
)

// PathTooLongError is reported for entries whose full path exceeds the
// scanner's MaxPathLen. The entry is skipped; when it is a directory,
// everything below it is skipped with it.
type PathTooLongError struct {
	Path  string
	Limit int
}

func (e *PathTooLongError) Error() string {
	return fmt.Sprintf("path longer than %d bytes: %v", e.Limit, e.Path)
}

// EntryError is reported for entries the scanner could not read: failed
// stat calls, unreadable directories and dangling symlinks.
type EntryError struct {
	Path string
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("cannot access %v: %v", e.Path, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// IsEntryError reports whether err is an *EntryError.
func IsEntryError(err error) bool {
	var e *EntryError
	return errors.As(err, &e)
}

// IsPathTooLong reports whether err is a *PathTooLongError.
func IsPathTooLong(err error) bool {
	var e *PathTooLongError
	return errors.As(err, &e)
}
