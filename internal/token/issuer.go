package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// NowFunc returns the current time. It can be overridden in tests.
var NowFunc = time.Now

// ErrInvalidToken is returned whenever a token could not be parsed or its signature could not be verified
var ErrInvalidToken = errors.New("invalid session token")

// Claims represents the payload of an issued session token
type Claims struct {
	Subject  string
	Role     string
	IssuedAt int64
	Expiry   int64
}

// Issuer creates and verifies signed session tokens.
// Tokens are signed with HS256 using a symmetric process-wide secret and expire
// a fixed window after issuance.
type Issuer struct {
	secret []byte
	window time.Duration
}

// NewIssuer creates a new session token issuer
func NewIssuer(secret string, window time.Duration) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		window: window,
	}
}

// Issue creates a signed session token for the given subject and role
func (issuer *Issuer) Issue(subject, role string) (string, error) {
	now := NowFunc().Unix()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  now,
		"exp":  now + int64(issuer.window.Seconds()),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(issuer.secret)
	if err != nil {
		return "", fmt.Errorf("could not sign session token: %w", err)
	}
	return raw, nil
}

// Verify parses the given token, verifies its signature against the issuer's secret and returns its claims
func (issuer *Issuer) Verify(raw string) (*Claims, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return issuer.secret, nil
	}, jwt.WithTimeFunc(func() time.Time {
		return NowFunc()
	}))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	claims := new(Claims)
	claims.Subject, _ = mapClaims["sub"].(string)
	claims.Role, _ = mapClaims["role"].(string)
	if iat, ok := mapClaims["iat"].(float64); ok {
		claims.IssuedAt = int64(iat)
	}
	if exp, ok := mapClaims["exp"].(float64); ok {
		claims.Expiry = int64(exp)
	}
	return claims, nil
}
