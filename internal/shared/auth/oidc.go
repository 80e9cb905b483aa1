package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
)

// IDToken is satisfied by *oidc.IDToken and by test fakes.
type IDToken interface {
	Claims(v interface{}) error
}

type idTokenVerifier interface {
	Verify(ctx context.Context, raw string) (IDToken, error)
}

type oidcAdapter struct {
	v *oidc.IDTokenVerifier
}

func (a oidcAdapter) Verify(ctx context.Context, raw string) (IDToken, error) {
	return a.v.Verify(ctx, raw)
}

// OIDCVerifier validates ID tokens issued by an external identity provider.
type OIDCVerifier struct {
	verifier idTokenVerifier
}

// NewOIDCVerifier discovers the issuer and builds a verifier for clientID.
func NewOIDCVerifier(ctx context.Context, issuer, clientID string) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("discover oidc provider: %w", err)
	}
	return &OIDCVerifier{verifier: oidcAdapter{v: provider.Verifier(&oidc.Config{ClientID: clientID})}}, nil
}

func (v *OIDCVerifier) Verify(ctx context.Context, raw string) (Authenticated, error) {
	token, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return Authenticated{}, ErrInvalidToken
	}
	var claims struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := token.Claims(&claims); err != nil || claims.Sub == "" {
		return Authenticated{}, ErrInvalidToken
	}
	return Authenticated{
		UserID:   claims.Sub,
		Email:    claims.Email,
		Name:     claims.Name,
		Provider: "oidc",
	}, nil
}
