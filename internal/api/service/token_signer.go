package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenSigner mints and verifies bearer tokens. It is injected into the
// auth service and the HTTP middleware so neither depends on a signing
// implementation or shares mutable state.
type TokenSigner interface {
	Sign(userID string) (string, error)
	Verify(tokenString string) (userID string, err error)
}

type jwtSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTSigner returns an HS256 TokenSigner. A ttl of zero issues
// non-expiring tokens.
func NewJWTSigner(secret string, ttl time.Duration) TokenSigner {
	return &jwtSigner{secret: []byte(secret), ttl: ttl}
}

func (s *jwtSigner) Sign(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
	}
	if s.ttl > 0 {
		claims["exp"] = now.Add(s.ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *jwtSigner) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
