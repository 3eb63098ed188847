package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a block decode failure.
type ErrorKind uint8

const (
	// MissingField means a key required by the active variant is absent or null.
	MissingField ErrorKind = iota + 1
	// TypeMismatch means a key is present but its value can't be decoded.
	TypeMismatch
	// VariantFieldViolation means a key owned by the other chain variant was
	// found by a strict decoder.
	VariantFieldViolation
)

var (
	ErrMissingField = errors.New("missing required field")
	ErrTypeMismatch = errors.New("field type mismatch")
	ErrVariantField = errors.New("field belongs to another chain variant")
)

func (k ErrorKind) String() string {
	switch k {
	case MissingField:
		return "missing field"
	case TypeMismatch:
		return "type mismatch"
	case VariantFieldViolation:
		return "variant field violation"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
}

// DecodeError is returned by every block decoder. Field holds the wire key,
// with an index suffix for list elements (transactions[2]).
type DecodeError struct {
	Kind     ErrorKind
	Variant  Variant
	Field    string
	Expected string
	Err      error
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case MissingField:
		return fmt.Sprintf("%s block: missing required field '%s'", e.Variant, e.Field)
	case VariantFieldViolation:
		return fmt.Sprintf("%s block: unexpected field '%s' of another chain variant", e.Variant, e.Field)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s block: field '%s': expected %s: %v", e.Variant, e.Field, e.Expected, e.Err)
		}
		return fmt.Sprintf("%s block: field '%s': expected %s", e.Variant, e.Field, e.Expected)
	}
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels, so errors.Is(err, ErrMissingField) works.
func (e *DecodeError) Is(target error) bool {
	switch target {
	case ErrMissingField:
		return e.Kind == MissingField
	case ErrTypeMismatch:
		return e.Kind == TypeMismatch
	case ErrVariantField:
		return e.Kind == VariantFieldViolation
	}
	return false
}
