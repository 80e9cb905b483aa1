package resumes

import "errors"

var (
	// ErrNotFound indicates a résumé does not exist or belongs to someone else.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden indicates a storage path outside the caller's namespace.
	ErrForbidden = errors.New("forbidden")

	// ErrDownloadURL indicates the store failed to sign a download link.
	ErrDownloadURL = errors.New("failed to generate download url")
)
