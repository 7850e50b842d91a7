package cellmap

import (
	"errors"
	"fmt"

	"github.com/hupe1980/cellmap/internal/container"
)

var (
	// ErrPrecondition is the cause of every precondition panic.
	ErrPrecondition = errors.New("precondition violated")

	// ErrTypeMismatch is returned when an attribute name is already bound to another type.
	ErrTypeMismatch = errors.New("attribute type mismatch")

	// ErrAttributeExists is returned when an attribute of the same name and type exists.
	ErrAttributeExists = errors.New("attribute already exists")

	// ErrInconsistent wraps every violation reported by Map.Check.
	ErrInconsistent = errors.New("inconsistent map")
)

// PreconditionError is the panic value raised when a caller breaks an
// operation's precondition (e.g. reading the embedding of a non-embedded
// orbit). These are logic errors, not runtime conditions.
type PreconditionError struct {
	Op     string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("cellmap: %s: %s", e.Op, e.Reason)
}

func (e *PreconditionError) Unwrap() error { return ErrPrecondition }

// TypeMismatchError indicates that an attribute name is bound to a column of
// another type.
//
// The original underlying error can be accessed via errors.Unwrap.
type TypeMismatchError struct {
	Name      string
	Existing  string
	Requested string
	cause     error
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("attribute %q holds %s, requested %s", e.Name, e.Existing, e.Requested)
}

func (e *TypeMismatchError) Unwrap() []error { return []error{ErrTypeMismatch, e.cause} }

func precondition(ok bool, op, reason string) {
	if !ok {
		panic(&PreconditionError{Op: op, Reason: reason})
	}
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var tm *container.TypeMismatchError
	if errors.As(err, &tm) {
		return &TypeMismatchError{
			Name:      tm.Name,
			Existing:  tm.Existing.String(),
			Requested: tm.Requested.String(),
			cause:     err,
		}
	}
	if errors.Is(err, container.ErrColumnExists) {
		return fmt.Errorf("%w: %w", ErrAttributeExists, err)
	}

	return err
}
