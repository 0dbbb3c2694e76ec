package user

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const tokenTypeAccess = "ACCESS"

var errInvalidToken = errors.New("invalid token")

type tokenClaims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// tokenManager signs and verifies HS256 access tokens whose subject is the
// user id.
type tokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func newTokenManager(secret string, ttl time.Duration) *tokenManager {
	return &tokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *tokenManager) Issue(userID string) (Token, error) {
	issued := m.now()
	expires := issued.Add(m.ttl)
	claims := tokenClaims{
		Type: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Token: signed, Expires: expires.UTC()}, nil
}

// Validate returns the user id carried by a valid, unexpired access token.
func (m *tokenManager) Validate(token string) (string, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return "", errInvalidToken
	}
	if claims.Type != tokenTypeAccess || claims.Subject == "" {
		return "", errInvalidToken
	}
	return claims.Subject, nil
}
