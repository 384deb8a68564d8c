package evm

import (
	"errors"
	"fmt"
)

// Verification failure classes. Every failure is fatal to the run and
// matches exactly one of these with errors.Is.
var (
	ErrMissingTableEntry        = errors.New("evm: missing table entry")
	ErrSemanticViolation        = errors.New("evm: semantic violation")
	ErrCounterOrPointerMismatch = errors.New("evm: counter or pointer mismatch")
	ErrUnknownExecutionState    = errors.New("evm: unknown execution state")
)

// Malformed verifier input.
var (
	ErrEmptyTrace   = errors.New("evm: empty trace")
	ErrTooManySteps = errors.New("evm: trace exceeds step limit")
)

var (
	errStackOverflow  = fmt.Errorf("%w: stack overflow", ErrCounterOrPointerMismatch)
	errStackUnderflow = fmt.Errorf("%w: stack underflow", ErrCounterOrPointerMismatch)
	errOutOfGas       = fmt.Errorf("%w: insufficient gas", ErrCounterOrPointerMismatch)
)

// StepError reports where a trace was rejected.
type StepError struct {
	Step  int
	State ExecutionState
	// Table is set for failed lookups, Field for failed transitions.
	Table string
	Field string
	Err   error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	where := fmt.Sprintf("step %d (%s)", e.Step, e.State)
	switch {
	case e.Table != "" && e.Field != "":
		where += fmt.Sprintf(" %s table %s", e.Table, e.Field)
	case e.Table != "":
		where += fmt.Sprintf(" %s table", e.Table)
	case e.Field != "":
		where += " " + e.Field
	}
	return fmt.Sprintf("%s: %v", where, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/errors.As.
func (e *StepError) Unwrap() error { return e.Err }

func missingEntry(table, field, format string, args ...any) *StepError {
	return &StepError{Table: table, Field: field, Err: fmt.Errorf("%w: "+format, append([]any{ErrMissingTableEntry}, args...)...)}
}

func semanticViolation(format string, args ...any) *StepError {
	return &StepError{Err: fmt.Errorf("%w: "+format, append([]any{ErrSemanticViolation}, args...)...)}
}

func transitionMismatch(field string, got, want uint64) *StepError {
	return &StepError{Field: field, Err: fmt.Errorf("%w: got %d, want %d", ErrCounterOrPointerMismatch, got, want)}
}
