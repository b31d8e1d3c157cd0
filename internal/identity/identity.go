// ABOUTME: Identity guard resolving a bearer credential to an owner id.
// ABOUTME: Supports HS256 JWTs (sub claim) and a static token map for local use.
package identity

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/harperreed/liftlog/internal/apperr"
)

// Guard maps a bearer token to the caller's owner id.
type Guard interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// ErrNoToken is returned when no bearer token was supplied.
var ErrNoToken = errors.New("missing bearer token")

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", apperr.Unauthorized("authorization header required", ErrNoToken)
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", apperr.Unauthorized("authorization header must be 'Bearer <token>'", ErrNoToken)
	}
	return strings.TrimSpace(token), nil
}

// JWTGuard validates HS256 tokens signed with a shared secret. The subject
// claim is the owner id.
type JWTGuard struct {
	secret   []byte
	issuer   string
	audience string
}

// NewJWTGuard returns a guard for secret. Empty issuer or audience skips
// that check.
func NewJWTGuard(secret, issuer, audience string) (*JWTGuard, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is empty")
	}
	return &JWTGuard{secret: []byte(secret), issuer: issuer, audience: audience}, nil
}

// Resolve validates token and returns its subject.
func (g *JWTGuard) Resolve(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", apperr.Unauthorized("missing token", ErrNoToken)
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return g.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return "", apperr.Unauthorized("invalid token", err)
	}
	if g.issuer != "" && !claims.VerifyIssuer(g.issuer, true) {
		return "", apperr.Unauthorized("token issuer mismatch", nil)
	}
	if g.audience != "" && !claims.VerifyAudience(g.audience, true) {
		return "", apperr.Unauthorized("token audience mismatch", nil)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", apperr.Unauthorized("token has no subject", nil)
	}
	return claims.Subject, nil
}

// Issue signs a token for owner valid for ttl. Used by the CLI to mint
// local tokens.
func (g *JWTGuard) Issue(owner string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   owner,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	if g.issuer != "" {
		claims.Issuer = g.issuer
	}
	if g.audience != "" {
		claims.Audience = jwt.ClaimStrings{g.audience}
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// StaticGuard resolves tokens from a fixed token to owner map.
type StaticGuard struct {
	tokens map[string]string
}

// NewStaticGuard copies tokens.
func NewStaticGuard(tokens map[string]string) *StaticGuard {
	m := make(map[string]string, len(tokens))
	for k, v := range tokens {
		m[k] = v
	}
	return &StaticGuard{tokens: m}
}

func (g *StaticGuard) Resolve(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", apperr.Unauthorized("missing token", ErrNoToken)
	}
	for known, owner := range g.tokens {
		if subtle.ConstantTimeCompare([]byte(known), []byte(token)) == 1 {
			return owner, nil
		}
	}
	return "", apperr.Unauthorized("unknown token", nil)
}

// Chain tries each guard in turn and returns the first success.
type Chain []Guard

func (c Chain) Resolve(ctx context.Context, token string) (string, error) {
	err := error(apperr.Unauthorized("no identity guard configured", nil))
	for _, g := range c {
		owner, gerr := g.Resolve(ctx, token)
		if gerr == nil {
			return owner, nil
		}
		err = gerr
	}
	return "", err
}
