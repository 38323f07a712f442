package repository

import "errors"

var (
	ErrNotFound = errors.New("document not found")
	// ErrVersionConflict reports that a version-checked write matched no
	// document: the cart changed (or appeared) since it was read.
	ErrVersionConflict = errors.New("document version conflict")
	ErrDuplicate       = errors.New("duplicate document")
)
