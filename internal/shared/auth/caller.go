package auth

import (
	"context"
	"errors"
)

// Caller identifies who is making a request. It is either Authenticated or Anonymous.
type Caller interface {
	isCaller()
}

// Authenticated is a caller with a verified bearer token.
type Authenticated struct {
	UserID   string
	Email    string
	Name     string
	Provider string
}

// Anonymous is a caller without a valid token.
type Anonymous struct{}

func (Authenticated) isCaller() {}
func (Anonymous) isCaller()     {}

// UserID returns the caller's user id, or "" for anonymous callers.
func UserID(c Caller) string {
	if a, ok := c.(Authenticated); ok {
		return a.UserID
	}
	return ""
}

// IsAuthenticated reports whether c carries a verified identity.
func IsAuthenticated(c Caller) bool {
	_, ok := c.(Authenticated)
	return ok
}

// ErrInvalidToken is returned by verifiers for any token that cannot be trusted.
var ErrInvalidToken = errors.New("invalid token")

// Verifier turns a raw bearer token into an authenticated identity.
type Verifier interface {
	Verify(ctx context.Context, raw string) (Authenticated, error)
}

// Chain tries each verifier in order and returns the first success.
type Chain []Verifier

func (ch Chain) Verify(ctx context.Context, raw string) (Authenticated, error) {
	lastErr := ErrInvalidToken
	for _, v := range ch {
		if v == nil {
			continue
		}
		id, err := v.Verify(ctx, raw)
		if err == nil {
			return id, nil
		}
		lastErr = err
	}
	return Authenticated{}, lastErr
}
