package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	ErrDuplicateID       = errors.New("duplicate id")
	ErrInvalidReference  = errors.New("invalid reference")
	ErrNotFound          = errors.New("not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrIO                = errors.New("storage i/o failure")
	ErrDecode            = errors.New("decode failure")
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Error carries the kind of failure plus the entity it concerns
type Error struct {
	Kind   error  // one of the Err* kinds above
	Op     string // operation that failed, e.g. "AddCourse", "sqlite.Save"
	Entity string // entity type, e.g. "course"; may be empty
	ID     int    // offending id; 0 when not applicable
	Err    error  // underlying cause; may be nil
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Op + ": " + e.Kind.Error()
	if e.Entity != "" {
		if e.ID != 0 {
			msg += fmt.Sprintf(" (%s %d)", e.Entity, e.ID)
		} else {
			msg += fmt.Sprintf(" (%s)", e.Entity)
		}
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the error kind
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

// DuplicateID reports an admission rejected because id already exists
func DuplicateID(op, entity string, id int) *Error {
	return &Error{Kind: ErrDuplicateID, Op: op, Entity: entity, ID: id}
}

// InvalidReference reports a foreign-key-shaped field that does not resolve
func InvalidReference(op, entity string, id int) *Error {
	return &Error{Kind: ErrInvalidReference, Op: op, Entity: entity, ID: id}
}

// NotFound reports a lookup of an unknown id
func NotFound(op, entity string, id int) *Error {
	return &Error{Kind: ErrNotFound, Op: op, Entity: entity, ID: id}
}

// InvalidArgument reports a field value the entity cannot hold
func InvalidArgument(op, entity string, id int, reason error) *Error {
	return &Error{Kind: ErrInvalidArgument, Op: op, Entity: entity, ID: id, Err: reason}
}

// IOFailure wraps a storage error that prevented a save or load
func IOFailure(op string, err error) *Error {
	return &Error{Kind: ErrIO, Op: op, Err: err}
}

// DecodeFailure wraps an error raised while turning stored bytes into entities
func DecodeFailure(op string, err error) *Error {
	return &Error{Kind: ErrDecode, Op: op, Err: err}
}

// IsDuplicateID checks for ErrDuplicateID
func IsDuplicateID(err error) bool {
	return errors.Is(err, ErrDuplicateID)
}

// IsInvalidReference checks for ErrInvalidReference
func IsInvalidReference(err error) bool {
	return errors.Is(err, ErrInvalidReference)
}

// IsNotFound checks for ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidArgument checks for ErrInvalidArgument
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsIO checks for ErrIO
func IsIO(err error) bool {
	return errors.Is(err, ErrIO)
}

// IsDecode checks for ErrDecode
func IsDecode(err error) bool {
	return errors.Is(err, ErrDecode)
}
