package prompts

import "errors"

var (
	// ErrNotFound indicates a template does not exist or is not visible to the caller.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden indicates the global template was targeted by a write.
	ErrForbidden = errors.New("forbidden")

	// ErrNoDefaultPrompt indicates resolution found no usable default.
	ErrNoDefaultPrompt = errors.New("no default prompt")
)

const (
	msgNoDefaultAuthenticated = "No default prompt set for this user. Please set one in settings."
	msgNoDefaultAnonymous     = "No default system prompt found. Please sign in to create your own."
)

// NoDefaultError is returned by Resolve. Its message depends on whether the
// caller was signed in.
type NoDefaultError struct {
	Anonymous bool
	Reason    string
}

func (e *NoDefaultError) Error() string {
	if e.Anonymous {
		return msgNoDefaultAnonymous
	}
	return msgNoDefaultAuthenticated
}

func (e *NoDefaultError) Is(target error) bool {
	return target == ErrNoDefaultPrompt
}
