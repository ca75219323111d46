package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Signer issues and checks the bearer handles that prove ownership of a demo
// session. A handle carries the session id as its subject.
type Signer struct {
	key   []byte
	ttl   time.Duration
	clock clock.Clock
}

func NewSigner(secret string, ttl time.Duration, clk clock.Clock) *Signer {
	if clk == nil {
		clk = clock.New()
	}
	return &Signer{key: []byte(secret), ttl: ttl, clock: clk}
}

func (s *Signer) TTL() time.Duration { return s.ttl }

func (s *Signer) Sign(sessionID string) (string, error) {
	now := s.clock.Now()
	claims := jwt.MapClaims{
		"sub": sessionID,
		"exp": now.Add(s.ttl).Unix(),
		"iat": now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.key)
}

func (s *Signer) Verify(tokenStr string) (Claims, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.key, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.clock.Now))
	if err != nil || !tok.Valid {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	mapc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("%w: unexpected claims", ErrInvalidToken)
	}
	sub, _ := mapc.GetSubject()
	if sub == "" {
		return Claims{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	c := Claims{Subject: sub}
	if exp, err := mapc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}
