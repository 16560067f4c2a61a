package loginsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mkrupp/homecase-login/internal/domain"
	"github.com/mkrupp/homecase-login/internal/infra/logging"
)

// ErrInvalidTokenDuration is returned when the token lifetime is not positive.
var ErrInvalidTokenDuration = errors.New("token duration must be positive")

// PrincipalVerifier checks credentials against the user store.
// It returns an error matching domain.ErrInvalidCredentials when they do not match.
type PrincipalVerifier interface {
	Verify(ctx context.Context, creds domain.Credentials) (domain.Principal, error)
}

// TokenIssuer exchanges credentials for a signed session token.
// Failures are *domain.LoginError of kind InvalidCredentials or SigningFailure.
type TokenIssuer interface {
	Issue(ctx context.Context, creds domain.Credentials) (domain.SessionToken, error)
}

// sessionClaims is the JWT body. Role keeps its capitalized claim name for
// compatibility with existing consumers.
type sessionClaims struct {
	Role int `json:"Role"`
	jwt.RegisteredClaims
}

// JWTTokenIssuer issues HS256-signed JWTs after the verifier accepted the credentials.
// Given the same claims and key the encoded token is always the same.
type JWTTokenIssuer struct {
	verifier PrincipalVerifier
	key      []byte
	issuer   string
	duration time.Duration
	now      func() time.Time
	log      logging.Logger
}

var _ TokenIssuer = (*JWTTokenIssuer)(nil)

// NewJWTTokenIssuer creates an issuer. The key is checked on every Issue so a
// misconfigured key surfaces as a SigningFailure instead of a startup crash.
func NewJWTTokenIssuer(verifier PrincipalVerifier, key []byte, cfg AuthConfig) *JWTTokenIssuer {
	return &JWTTokenIssuer{
		verifier: verifier,
		key:      key,
		issuer:   cfg.Issuer,
		duration: cfg.TokenDuration,
		now:      time.Now,
		log:      logging.GetLogger("svc.loginsvc.token_issuer"),
	}
}

// WithClock returns a copy of the issuer reading the current time from now.
func (i *JWTTokenIssuer) WithClock(now func() time.Time) *JWTTokenIssuer {
	clone := *i
	clone.now = now

	return &clone
}

// Issue implements TokenIssuer.
func (i *JWTTokenIssuer) Issue(ctx context.Context, creds domain.Credentials) (_ domain.SessionToken, err error) {
	log := i.log.With("credentials", creds)

	defer func() {
		if err != nil {
			log.WarnContext(ctx, "issue token failed", "error", err)
		} else {
			log.DebugContext(ctx, "token issued")
		}
	}()

	if err := CheckSigningKey(i.key); err != nil {
		return domain.SessionToken{}, domain.NewLoginError(domain.SigningFailure, err)
	}

	principal, err := i.verifier.Verify(ctx, creds)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return domain.SessionToken{}, domain.NewLoginError(domain.InvalidCredentials, err)
		}

		return domain.SessionToken{}, domain.NewLoginError(domain.SigningFailure, fmt.Errorf("verify: %w", err))
	}

	if principal.Username == "" {
		principal.Username = creds.Username
	}

	token, err := i.sign(principal)
	if err != nil {
		return domain.SessionToken{}, domain.NewLoginError(domain.SigningFailure, err)
	}

	log = log.With(logging.Group("token",
		"sub", token.Claims.Subject,
		"role", token.Claims.Role.String(),
		"iat", token.Claims.IssuedAt.UTC().Format(time.RFC3339),
		"exp", token.Claims.ExpiresAt.UTC().Format(time.RFC3339),
	))

	return token, nil
}

func (i *JWTTokenIssuer) sign(principal domain.Principal) (domain.SessionToken, error) {
	if i.duration <= 0 {
		return domain.SessionToken{}, fmt.Errorf("%w: %s", ErrInvalidTokenDuration, i.duration)
	}

	// Claims carry whole seconds; truncate so the returned claims equal the encoded ones.
	issuedAt := i.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(i.duration)

	if !expiresAt.After(issuedAt) {
		return domain.SessionToken{}, fmt.Errorf("%w: %s", ErrInvalidTokenDuration, i.duration)
	}

	claims := sessionClaims{
		Role: int(principal.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   principal.Username,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	encoded, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return domain.SessionToken{}, fmt.Errorf("sign token: %w", err)
	}

	return domain.SessionToken{
		Encoded: encoded,
		Claims: domain.SessionClaims{
			Subject:   principal.Username,
			Issuer:    i.issuer,
			Role:      principal.Role,
			IssuedAt:  issuedAt,
			ExpiresAt: expiresAt,
		},
	}, nil
}
