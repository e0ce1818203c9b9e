// Package token implements the action tokens that gate every mutating
// editor request. Tokens are stateless HMAC-signed credentials bound to a
// scope string and a session identifier, so validation never touches
// storage and a token may be reused within the lifetime of its session.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Scopes for the editor operations. A token minted for one scope is never
// valid for another.
const (
	ScopeDocumentSave = "quill.document.save"
	ScopeFileSave     = "quill.file.save"
	ScopeAppStore     = "quill.app-store"
)

// Signer mints and validates action tokens with a shared HMAC-SHA256 secret.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

type actionClaims struct {
	Scope   string `json:"scope"`
	Session string `json:"sid"`
	jwt.RegisteredClaims
}

// NewSigner returns a Signer backed by secret. A non-positive ttl disables
// expiry, leaving tokens valid for the lifetime of the session that holds
// them.
func NewSigner(secret string, ttl time.Duration) (*Signer, error) {
	if len(secret) < 16 {
		return nil, errors.New("token secret must be at least 16 bytes")
	}
	return &Signer{secret: []byte(secret), ttl: ttl}, nil
}

// Mint issues a token tied to the given scope and session.
func (s *Signer) Mint(scope, session string) (string, error) {
	if scope == "" || session == "" {
		return "", errors.New("scope and session are required")
	}
	claims := actionClaims{
		Scope:   scope,
		Session: session,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(s.ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString(s.secret)
}

// Validate reports whether tok is a well-formed token minted by this
// signer for exactly the given scope and session. It is a pure predicate:
// no side effects, no retries. Any failure (malformed token, bad
// signature, scope or session mismatch, expiry) is terminal for the
// request that presented it.
func (s *Signer) Validate(tok, scope, session string) bool {
	if tok == "" || scope == "" || session == "" {
		return false
	}
	var claims actionClaims
	parsed, err := jwt.ParseWithClaims(tok, &claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !parsed.Valid {
		return false
	}
	return claims.Scope == scope && claims.Session == session
}
