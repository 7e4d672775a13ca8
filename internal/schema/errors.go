package schema

import (
	"errors"
	"fmt"
)

// UnknownTypeError reports a catalog type name absent from the type map.
// It aborts the whole table reflection: a partial column list is worse
// than none.
type UnknownTypeError struct {
	TypeName string
	Column   string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown catalog type %q on column %q", e.TypeName, e.Column)
}

// MalformedConstraintError reports a foreign-key definition whose SQL text
// does not match the expected structural grammar.
type MalformedConstraintError struct {
	Constraint string
	Definition string
}

func (e *MalformedConstraintError) Error() string {
	return fmt.Sprintf("constraint %q: definition does not match FOREIGN KEY(...) REFERENCES ...(...): %s",
		e.Constraint, e.Definition)
}

// AmbiguousIndexError reports an index whose per-column catalog rows carry
// conflicting unique flags. The catalog guarantees they agree; when they do
// not, the snapshot cannot be trusted.
type AmbiguousIndexError struct {
	Index string
}

func (e *AmbiguousIndexError) Error() string {
	return fmt.Sprintf("index %q reports conflicting unique flags", e.Index)
}

// IsUnknownType reports whether err is an *UnknownTypeError.
func IsUnknownType(err error) bool {
	var e *UnknownTypeError
	return errors.As(err, &e)
}

// IsMalformedConstraint reports whether err is a *MalformedConstraintError.
func IsMalformedConstraint(err error) bool {
	var e *MalformedConstraintError
	return errors.As(err, &e)
}

// IsAmbiguousIndex reports whether err is an *AmbiguousIndexError.
func IsAmbiguousIndex(err error) bool {
	var e *AmbiguousIndexError
	return errors.As(err, &e)
}
