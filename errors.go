package lockscript

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure conditions.
var (
	// ErrMissingSeparator indicates a script has no end-of-code marker.
	ErrMissingSeparator = errors.New("lockscript: script has no OP_RETURN code separator")

	// ErrTruncatedScript indicates a script ended mid-push.
	ErrTruncatedScript = errors.New("lockscript: script truncated inside a push")

	// ErrTrailingTokens indicates unexpected tokens after the data part
	// when strict matching is requested.
	ErrTrailingTokens = errors.New("lockscript: unexpected tokens after data part")

	// ErrNotAPush indicates an opcode-only token where push data was required.
	ErrNotAPush = errors.New("lockscript: token carries no push data")

	// ErrPushTooLarge indicates push data exceeding the serializable maximum.
	ErrPushTooLarge = errors.New("lockscript: push data exceeds maximum size")

	// ErrUnknownOpcode indicates an asm mnemonic with no opcode mapping.
	ErrUnknownOpcode = errors.New("lockscript: unknown opcode mnemonic")

	// ErrNoStateType indicates a state operation on a contract whose
	// artifact declares no mutable state.
	ErrNoStateType = errors.New("lockscript: contract declares no state type")

	// ErrNoDataPart indicates a data-part read on an instance that has
	// never had state written.
	ErrNoDataPart = errors.New("lockscript: instance has no data part")
)

// TypeMismatchError indicates a value's runtime shape disagrees with its
// declared TypeDescriptor. It is raised before any bytes are produced.
type TypeMismatchError struct {
	Path     string
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("lockscript: type mismatch at %s: expected %s, got %s", e.Path, e.Expected, e.Got)
	}
	return fmt.Sprintf("lockscript: type mismatch: expected %s, got %s", e.Expected, e.Got)
}

// TypeDecodeError indicates raw push bytes cannot be interpreted under the
// declared primitive kind.
type TypeDecodeError struct {
	Path string
	Kind Kind
	Err  error
}

func (e *TypeDecodeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("lockscript: cannot decode %s as %s: %v", e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("lockscript: cannot decode %s: %v", e.Kind, e.Err)
}

func (e *TypeDecodeError) Unwrap() error {
	return e.Err
}

// UnboundArgumentError indicates a template placeholder had no bound value
// at render time.
type UnboundArgumentError struct {
	Path string
}

func (e *UnboundArgumentError) Error() string {
	return fmt.Sprintf("lockscript: no value bound for placeholder %q", e.Path)
}

// TemplateMismatchError indicates a raw script's tokens, length, or overall
// shape disagree with a template. Position is the index of the first
// offending token in the raw sequence.
type TemplateMismatchError struct {
	Template string
	Position int
	Err      error
}

func (e *TemplateMismatchError) Error() string {
	if e.Template != "" {
		return fmt.Sprintf("lockscript: script does not match template %q at token %d: %v", e.Template, e.Position, e.Err)
	}
	return fmt.Sprintf("lockscript: script does not match template at token %d: %v", e.Position, e.Err)
}

func (e *TemplateMismatchError) Unwrap() error {
	return e.Err
}
