// Package cerr implements the compiler's error-kind and context-chain model
// (spec §7). It is deliberately small: no source positions (the parser is
// an external collaborator, spec §1), just a chain of frames identifying
// the function/instruction being processed when a pass failed, modeled on
// the plain fmt.Errorf("...: %w", err) wrapping the teacher uses throughout
// vslc's ir/optimise.go and main.go, with the error-kind taxonomy borrowed
// from kanso-lang-kanso/internal/errors's code-per-kind idea (adapted:
// no position, no severity levels — every error here is fatal to the pass
// that raised it, per spec §7's propagation policy).
package cerr

import "fmt"

// Kind is one of the abstract error kinds from spec §7.
type Kind string

const (
	InvalidIR             Kind = "InvalidIR"
	UnsupportedOperandType Kind = "UnsupportedOperandType"
	OutOfRange             Kind = "OutOfRange"
	MalformedCall          Kind = "MalformedCall"
	InternalInvariant      Kind = "InternalInvariant"
)

// CompileError is a single error with a kind and a chain of context frames
// ("In function foo:bar", "At instruction 12", ...), innermost first.
type CompileError struct {
	Kind    Kind
	Message string
	Context []string
	Cause   error
}

func New(kind Kind, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches kind/message to an existing error as its cause, preserving
// errors.Is/As compatibility via Unwrap.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// WithContext prepends a context frame (called by passes as the error
// propagates up through function/instruction boundaries) and returns the
// same error for chaining.
func (e *CompileError) WithContext(format string, args ...interface{}) *CompileError {
	e.Context = append(e.Context, fmt.Sprintf(format, args...))
	return e
}

func (e *CompileError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	for _, c := range e.Context {
		msg = c + ": " + msg
	}
	if e.Cause != nil {
		msg = msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *CompileError) Unwrap() error { return e.Cause }

// InFunction/AtInstruction are small helpers for the common context frames
// used throughout the passes.
func InFunction(err error, id string) error {
	if ce, ok := err.(*CompileError); ok {
		return ce.WithContext("In function %s", id)
	}
	return Wrap(InternalInvariant, err, "unwrapped error").WithContext("In function %s", id)
}

func AtInstruction(err error, idx int) error {
	if ce, ok := err.(*CompileError); ok {
		return ce.WithContext("At instruction %d", idx)
	}
	return Wrap(InternalInvariant, err, "unwrapped error").WithContext("At instruction %d", idx)
}
