// Package auth verifies bearer tokens issued by the external identity
// provider and turns their recognized claims into an Identity.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingToken is returned when no bearer token was supplied.
	ErrMissingToken = errors.New("missing token")
	// ErrInvalidToken is returned when the token is malformed, forged or
	// issued for someone else.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = errors.New("token has expired")
	// ErrKeysUnavailable is returned when the signing keys could not be loaded.
	ErrKeysUnavailable = errors.New("signing keys unavailable")
)

// Identity is the verified caller. Only Subject is guaranteed to be set.
type Identity struct {
	Subject string `json:"uid"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
}

// DisplayName prefers the profile name and falls back to the email address.
func (i Identity) DisplayName() string {
	if name := strings.TrimSpace(i.Name); name != "" {
		return name
	}
	return strings.TrimSpace(i.Email)
}

// Verifier checks a raw bearer token.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// Claims are the token claims the storefront understands. Anything else in
// the payload is ignored.
type Claims struct {
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	UserID string `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) identity() (Identity, error) {
	subject := strings.TrimSpace(c.Subject)
	if subject == "" {
		subject = strings.TrimSpace(c.UserID)
	}
	if subject == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{
		Subject: subject,
		Email:   strings.TrimSpace(c.Email),
		Name:    strings.TrimSpace(c.Name),
	}, nil
}

// classify folds jwt parse errors into the package sentinels.
func classify(err error) error {
	switch {
	case errors.Is(err, ErrKeysUnavailable):
		return err
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	default:
		return ErrInvalidToken
	}
}
