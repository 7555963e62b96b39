package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrNoRepository  = errors.New("no repository root found")
	ErrCorrupt       = errors.New("corrupt record")
)
