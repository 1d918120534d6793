package reminders

import (
	"errors"
	"fmt"
)

// Error kinds. Existence is always checked before ownership.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

// Error describes a failed lookup of a list or item.
type Error struct {
	Op       string // Operation that failed
	Resource string // "list" or "item"
	ID       int64
	Kind     error // ErrNotFound or ErrForbidden
}

func (e *Error) Error() string {
	return fmt.Sprintf("reminders: %s: %s %d: %s", e.Op, e.Resource, e.ID, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func notFound(op, resource string, id int64) error {
	return &Error{Op: op, Resource: resource, ID: id, Kind: ErrNotFound}
}

func forbidden(op, resource string, id int64) error {
	return &Error{Op: op, Resource: resource, ID: id, Kind: ErrForbidden}
}

// IsAccessError reports whether err is a NotFound or Forbidden failure.
func IsAccessError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden)
}
