package prompts

import (
	"context"
	"errors"
	"fmt"

	"coverletter-backend/internal/shared/auth"
)

// Resolver picks the template body used for a generation request.
type Resolver struct {
	Repo Repo
}

func NewResolver(repo Repo) *Resolver {
	return &Resolver{Repo: repo}
}

// Resolve returns override verbatim when it is non-empty. Otherwise an authenticated
// caller gets their own default, falling back to the global default, and an
// anonymous caller gets the global default only.
func (r *Resolver) Resolve(ctx context.Context, caller auth.Caller, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	anonymous := !auth.IsAuthenticated(caller)
	if !anonymous {
		defaults, err := r.Repo.ListDefaults(ctx, auth.UserID(caller))
		if err != nil {
			return "", fmt.Errorf("load user default: %w", err)
		}
		switch len(defaults) {
		case 0:
		case 1:
			return defaults[0].Body, nil
		default:
			return "", &NoDefaultError{Reason: fmt.Sprintf("%d user defaults", len(defaults))}
		}
	}

	global, err := r.globalDefault(ctx)
	if err != nil {
		var nd *NoDefaultError
		if errors.As(err, &nd) {
			nd.Anonymous = anonymous
		}
		return "", err
	}
	return global.Body, nil
}

// globalDefault requires exactly one default in the global scope.
func (r *Resolver) globalDefault(ctx context.Context) (Template, error) {
	defaults, err := r.Repo.ListDefaults(ctx, "")
	if err != nil {
		return Template{}, fmt.Errorf("load global default: %w", err)
	}
	if len(defaults) != 1 {
		return Template{}, &NoDefaultError{Reason: fmt.Sprintf("%d global defaults", len(defaults))}
	}
	return defaults[0], nil
}
