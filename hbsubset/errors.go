package hbsubset

import (
	"errors"
	"fmt"
)

// Failure kinds of a subsetting request. Errors returned by Engine.Subset
// match exactly one of them with errors.Is, unless the caller's context
// ended while waiting for the boundary.
var (
	ErrEmptySelection = errors.New("no code points selected")
	ErrAllocation     = errors.New("allocation in subsetting boundary failed")
	ErrSubsetting     = errors.New("subsetting failed")
	ErrEmptyResult    = errors.New("subsetting produced an empty font")
	ErrBoundaryInit   = errors.New("subsetting boundary unavailable")
)

// SubsetError is the error type of a failed subsetting request.
type SubsetError struct {
	Kind error  // one of the Err... failure kinds
	Op   string // native step which failed, may be empty
	Err  error  // underlying cause, may be nil
}

func (e *SubsetError) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Op, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Op)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s", e.Kind, e.Err)
	}
	return e.Kind.Error()
}

// Unwrap makes both the failure kind and the cause visible to errors.Is
// and errors.As.
func (e *SubsetError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func fail(kind error, op string, cause error) *SubsetError {
	return &SubsetError{Kind: kind, Op: op, Err: cause}
}

// Message maps an error of a subsetting request to a message suitable for
// end users.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptySelection):
		return "No characters selected. Select at least one Unicode range."
	case errors.Is(err, ErrAllocation):
		return "Not enough memory in the subsetting engine for this font."
	case errors.Is(err, ErrEmptyResult):
		return "Subsetting produced an empty font (size 0)."
	case errors.Is(err, ErrSubsetting):
		return "The subsetter rejected this font. It may be malformed or in an unsupported format."
	case errors.Is(err, ErrBoundaryInit):
		return "The subsetting engine could not be loaded. Restart after fixing its installation."
	}
	return err.Error()
}
