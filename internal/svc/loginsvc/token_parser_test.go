package loginsvc_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/homecase-login/internal/domain"
	"github.com/mkrupp/homecase-login/internal/svc/loginsvc"
)

func issueAdminToken(t *testing.T) domain.SessionToken {
	t.Helper()

	token, err := loginsvc.NewJWTTokenIssuer(adminVerifier(), testKey, testAuthConfig()).
		WithClock(testClock).
		Issue(context.Background(), admin)
	require.NoError(t, err)

	return token
}

func TestSessionTokenParser_Authorize(t *testing.T) {
	t.Parallel()

	token := issueAdminToken(t)
	parser := loginsvc.NewSessionTokenParser(testKey, testAuthConfig()).
		WithClock(func() time.Time { return testNow.Add(time.Hour) })

	subject, err := parser.Authorize(context.Background(), token.Encoded)
	require.NoError(t, err)
	assert.Equal(t, "admin", subject)
}

func TestSessionTokenParser_Rejects(t *testing.T) {
	t.Parallel()

	token := issueAdminToken(t)

	//nolint:exhaustruct
	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "admin",
		Issuer:    "homecase-login",
		IssuedAt:  jwt.NewNumericDate(testNow),
		ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	//nolint:exhaustruct
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:  "admin",
		Issuer:   "homecase-login",
		IssuedAt: jwt.NewNumericDate(testNow),
	}).SignedString(testKey)
	require.NoError(t, err)

	otherIssuer := testAuthConfig()
	otherIssuer.Issuer = "someone-else"

	tests := []struct {
		name    string
		parser  *loginsvc.SessionTokenParser
		encoded string
	}{
		{
			name:    "empty",
			parser:  loginsvc.NewSessionTokenParser(testKey, testAuthConfig()).WithClock(testClock),
			encoded: "",
		},
		{
			name:    "garbage",
			parser:  loginsvc.NewSessionTokenParser(testKey, testAuthConfig()).WithClock(testClock),
			encoded: "not.a.token",
		},
		{
			name:    "expired",
			parser:  loginsvc.NewSessionTokenParser(testKey, testAuthConfig()).WithClock(func() time.Time { return testNow.Add(9 * time.Hour) }),
			encoded: token.Encoded,
		},
		{
			name:    "wrong issuer",
			parser:  loginsvc.NewSessionTokenParser(testKey, otherIssuer).WithClock(testClock),
			encoded: token.Encoded,
		},
		{
			name:    "unsigned",
			parser:  loginsvc.NewSessionTokenParser(testKey, testAuthConfig()).WithClock(testClock),
			encoded: noneToken,
		},
		{
			name:    "no expiry",
			parser:  loginsvc.NewSessionTokenParser(testKey, testAuthConfig()).WithClock(testClock),
			encoded: noExpiry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tt.parser.Parse(tt.encoded)
			require.ErrorIs(t, err, domain.ErrInvalidAuthToken)

			subject, err := tt.parser.Authorize(context.Background(), tt.encoded)
			require.Error(t, err)
			assert.Empty(t, subject)
		})
	}
}
