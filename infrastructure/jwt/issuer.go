package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer signs tokens with a shared HMAC secret.
type Issuer struct {
	secret     []byte
	expiration time.Duration
}

// NewIssuer creates a token issuer.
func NewIssuer(secret string, expiration time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), expiration: expiration}
}

// Issue signs a token for subject with the given role and optional zone.
func (i *Issuer) Issue(subject, role, zone string) (string, time.Time, error) {
	if len(i.secret) == 0 {
		return "", time.Time{}, errors.New("jwt secret is not configured")
	}

	now := time.Now()
	expiresAt := now.Add(i.expiration)
	claims := &Claims{
		Sub:  subject,
		Role: role,
		Zone: zone,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Validate parses a token string and returns its claims.
func (i *Issuer) Validate(tokenString string) (*Claims, error) {
	return parse(tokenString, i.secret)
}
