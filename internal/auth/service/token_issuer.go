package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlibekovAA/myflix/internal/common/clock"
	"github.com/AlibekovAA/myflix/internal/common/jwtverify"
	"github.com/AlibekovAA/myflix/internal/observability/metrics"
)

var ErrEmptySubject = errors.New("cannot issue a token without a username")

type TokenIssuer struct {
	jwtSecret []byte
	ttl       time.Duration
	clock     clock.Clock
}

func NewTokenIssuer(jwtSecret string, ttl time.Duration, clock clock.Clock) *TokenIssuer {
	return &TokenIssuer{
		jwtSecret: []byte(jwtSecret),
		ttl:       ttl,
		clock:     clock,
	}
}

// Issue signs an HS256 token whose subject is the username.
func (ti *TokenIssuer) Issue(identity jwtverify.Identity) (string, time.Time, error) {
	if identity.Username == "" {
		return "", time.Time{}, ErrEmptySubject
	}

	now := ti.clock.Now()
	expiresAt := now.Add(ti.ttl)
	claims := jwtverify.Claims{
		UserID: identity.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}

	metrics.AccessTokensIssued.Inc()
	return tokenString, expiresAt, nil
}
