package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const devSecret = "dev-secret"

// Claims represents the identity contained in a session JWT.
type Claims struct {
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Provider string `json:"provider,omitempty"`
	jwt.RegisteredClaims
}

var errMissingSecret = errors.New("jwt secret not configured")

// SecretFor returns the signing secret for env. Production requires an explicit secret.
func SecretFor(secret, env string) ([]byte, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		if strings.EqualFold(env, "production") {
			return nil, fmt.Errorf("%w: JWT_SECRET required in production", errMissingSecret)
		}
		secret = devSecret
	}
	return []byte(secret), nil
}

// HS256Verifier validates tokens signed with a shared secret.
type HS256Verifier struct {
	Secret []byte
	Now    func() time.Time
}

// NewHS256Verifier builds a verifier for the given secret.
func NewHS256Verifier(secret []byte) *HS256Verifier {
	return &HS256Verifier{Secret: secret}
}

// Verify parses and validates raw, returning the identity it carries.
func (v *HS256Verifier) Verify(_ context.Context, raw string) (Authenticated, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.Now != nil {
		opts = append(opts, jwt.WithTimeFunc(v.Now))
	}
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return v.Secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return Authenticated{}, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Authenticated{}, ErrInvalidToken
	}
	provider := claims.Provider
	if provider == "" {
		provider = "jwt"
	}
	return Authenticated{
		UserID:   claims.Subject,
		Email:    claims.Email,
		Name:     claims.Name,
		Provider: provider,
	}, nil
}

// SignJWT signs an identity with HS256. A zero ttl defaults to 24 hours.
func SignJWT(secret []byte, id Authenticated, ttl time.Duration) (string, error) {
	if id.UserID == "" {
		return "", errors.New("sub is required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := time.Now().UTC()
	claims := Claims{
		Email:    id.Email,
		Name:     id.Name,
		Provider: id.Provider,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
