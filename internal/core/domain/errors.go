package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown warehouse type discriminator.
	ErrUnsupportedType = errors.New("unsupported warehouse type")

	// ErrConnectionFailed indicates a warehouse session could not be opened.
	// Fatal for that database's sync; sibling databases are unaffected.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrSchemaEnumeration indicates the schema set of a database could
	// not be resolved. Fatal for that database's sync; its output tree is
	// left untouched.
	ErrSchemaEnumeration = errors.New("schema enumeration failed")
)
