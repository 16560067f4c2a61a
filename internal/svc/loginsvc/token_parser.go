package loginsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mkrupp/homecase-login/internal/domain"
	http_ "github.com/mkrupp/homecase-login/internal/infra/transport/http"
)

// SessionTokenParser reads back tokens issued by JWTTokenIssuer.
type SessionTokenParser struct {
	key    []byte
	issuer string
	now    func() time.Time
}

var _ http_.TokenAuthorizer = (*SessionTokenParser)(nil)

func NewSessionTokenParser(key []byte, cfg AuthConfig) *SessionTokenParser {
	return &SessionTokenParser{
		key:    key,
		issuer: cfg.Issuer,
		now:    time.Now,
	}
}

// WithClock returns a copy of the parser reading the current time from now.
func (p *SessionTokenParser) WithClock(now func() time.Time) *SessionTokenParser {
	clone := *p
	clone.now = now

	return &clone
}

// Parse verifies the signature, algorithm, issuer and lifetime of encoded.
// Every failure matches domain.ErrInvalidAuthToken.
func (p *SessionTokenParser) Parse(encoded string) (domain.SessionToken, error) {
	if encoded == "" {
		return domain.SessionToken{}, errors.Join(domain.ErrInvalidAuthToken, domain.ErrNoAuthToken)
	}

	var claims sessionClaims

	_, err := jwt.ParseWithClaims(encoded, &claims,
		func(*jwt.Token) (any, error) { return p.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return domain.SessionToken{}, errors.Join(domain.ErrInvalidAuthToken, fmt.Errorf("parse token: %w", err))
	}

	if claims.Subject == "" || claims.IssuedAt == nil || !claims.ExpiresAt.After(claims.IssuedAt.Time) {
		return domain.SessionToken{}, domain.ErrInvalidAuthToken
	}

	return domain.SessionToken{
		Encoded: encoded,
		Claims: domain.SessionClaims{
			Subject:   claims.Subject,
			Issuer:    claims.Issuer,
			Role:      domain.Role(claims.Role),
			IssuedAt:  claims.IssuedAt.Time,
			ExpiresAt: claims.ExpiresAt.Time,
		},
	}, nil
}

// Authorize implements http.TokenAuthorizer.
func (p *SessionTokenParser) Authorize(_ context.Context, encoded string) (string, error) {
	token, err := p.Parse(encoded)
	if err != nil {
		return "", err
	}

	return token.Claims.Subject, nil
}
