package coverletters

import "errors"

var (
	// ErrNotFound indicates the letter does not exist or belongs to someone else.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")
)
