// Package errors provides the error handling helpers used throughout
// dupescan. It re-exports the constructors from github.com/pkg/errors so
// errors carry stack traces, and the matching std helpers for inspection.
package errors

import (
	stderrors "errors"
	"strings"

	"github.com/pkg/errors"
)

// New creates a new error based on message.
var New = errors.New

// Errorf creates an error based on a format string and values.
var Errorf = errors.Errorf

// Wrap wraps an error retrieved from outside of dupescan with a message.
var Wrap = errors.Wrap

// Wrapf annotates err with a stack trace and the format specifier. If err
// is nil, Wrapf returns nil.
var Wrapf = errors.Wrapf

// WithStack annotates err with a stack trace. If err is nil, WithStack
// returns nil.
var WithStack = errors.WithStack

// Go 1.13-style error handling.

// As finds the first error in err's tree that matches target.
func As(err error, tgt interface{}) bool { return stderrors.As(err, tgt) }

// Is reports whether any error in x's tree matches y.
func Is(x, y error) bool { return stderrors.Is(x, y) }

// CombineErrors combines multiple errors into a single error string after
// filtering out nil errors. It returns nil if all passed errors are nil.
func CombineErrors(errs ...error) error {
	var msgs []string
	for _, err := range errs {
		if err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	if len(msgs) == 1 {
		for _, err := range errs {
			if err != nil {
				return err
			}
		}
	}
	return New(strings.Join(msgs, "; "))
}
