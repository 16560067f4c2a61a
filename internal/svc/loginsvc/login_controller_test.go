package loginsvc_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/homecase-login/internal/domain"
	"github.com/mkrupp/homecase-login/internal/svc/loginsvc"
)

//nolint:gochecknoglobals
var (
	blanks    = []string{"", " ", "   ", "\t", "\n", " \t\r\n "}
	passwords = []string{"", " ", "admin", " padded ", "wrongpassword"}
)

func newController(t *testing.T, issuer loginsvc.TokenIssuer) *loginsvc.LoginController {
	t.Helper()

	validator, err := loginsvc.NewStructCredentialValidator()
	require.NoError(t, err)

	return loginsvc.NewLoginController(validator, issuer, "/")
}

func requireRender(t *testing.T, instruction loginsvc.Instruction) loginsvc.RenderInstruction {
	t.Helper()

	render, ok := instruction.(loginsvc.RenderInstruction)
	require.True(t, ok, "want RenderInstruction, got %T", instruction)
	assert.Equal(t, loginsvc.LoginFormTemplate, render.Template)

	return render
}

func TestLoginController_PresentLoginForm(t *testing.T) {
	t.Parallel()

	controller := newController(t, &mockIssuer{})
	want := loginsvc.RenderInstruction{Template: loginsvc.LoginFormTemplate}

	for range 3 {
		assert.Equal(t, want, controller.PresentLoginForm())
	}
}

func TestLoginController_BlankUsername(t *testing.T) {
	t.Parallel()

	issuer := &mockIssuer{}
	controller := newController(t, issuer)

	for _, username := range blanks {
		for _, password := range passwords {
			t.Run(fmt.Sprintf("%q/%q", username, password), func(t *testing.T) {
				creds := domain.Credentials{Username: username, Password: password}

				render := requireRender(t, controller.SubmitLogin(context.Background(), creds))
				assert.Equal(t, "Username required", render.Context.ErrorMessage)
			})
		}
	}

	issuer.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
}

func TestLoginController_BlankPassword(t *testing.T) {
	t.Parallel()

	issuer := &mockIssuer{}
	controller := newController(t, issuer)

	for _, username := range []string{"admin", " admin ", "x"} {
		for _, password := range blanks {
			t.Run(fmt.Sprintf("%q/%q", username, password), func(t *testing.T) {
				creds := domain.Credentials{Username: username, Password: password}

				render := requireRender(t, controller.SubmitLogin(context.Background(), creds))
				assert.Equal(t, "Password required", render.Context.ErrorMessage)
			})
		}
	}

	issuer.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
}

func TestLoginController_IssuanceFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{name: "invalid credentials", err: domain.ErrInvalidCredentials},
		{name: "signing failure", err: domain.NewLoginError(domain.SigningFailure, errors.New("key material missing"))},
		{name: "foreign error", err: errors.New("sql: database is closed")},
		{name: "wrapped validation kind", err: fmt.Errorf("issue: %w", domain.ErrPasswordRequired)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			creds := domain.Credentials{Username: "admin", Password: "wrongpassword"}

			issuer := &mockIssuer{}
			issuer.On("Issue", mock.Anything, creds).Return(domain.SessionToken{}, tt.err)

			render := requireRender(t, newController(t, issuer).SubmitLogin(context.Background(), creds))

			if domain.KindOf(tt.err).IsValidation() {
				assert.Equal(t, domain.KindOf(tt.err).Message(), render.Context.ErrorMessage)
			} else {
				assert.Equal(t, domain.GenericDenialMessage, render.Context.ErrorMessage)
				assert.NotContains(t, render.Context.ErrorMessage, "key")
				assert.NotContains(t, render.Context.ErrorMessage, "sql")
			}

			issuer.AssertExpectations(t)
		})
	}
}

func TestLoginController_StubbedSuccess(t *testing.T) {
	t.Parallel()

	creds := domain.Credentials{Username: "admin", Password: "admin"}
	token := domain.SessionToken{
		Encoded: "a.b.c",
		Claims: domain.SessionClaims{
			Subject:   "admin",
			IssuedAt:  testNow,
			ExpiresAt: testNow.Add(time.Hour),
		},
	}

	issuer := &mockIssuer{}
	issuer.On("Issue", mock.Anything, creds).Return(token, nil)

	instruction := newController(t, issuer).SubmitLogin(context.Background(), creds)

	redirect, ok := instruction.(loginsvc.RedirectInstruction)
	require.True(t, ok, "want RedirectInstruction, got %T", instruction)
	assert.Equal(t, "/", redirect.Location)
	assert.Equal(t, token, redirect.Token)
}

func TestLoginController_StubbedInvalidCredentials(t *testing.T) {
	t.Parallel()

	creds := domain.Credentials{Username: "admin", Password: "wrongpassword"}

	issuer := &mockIssuer{}
	issuer.On("Issue", mock.Anything, creds).Return(domain.SessionToken{}, domain.ErrInvalidCredentials)

	render := requireRender(t, newController(t, issuer).SubmitLogin(context.Background(), creds))
	assert.Equal(t, "Invalid Credentials", render.Context.ErrorMessage)
}

func TestLoginController_PassesCredentialsUntrimmed(t *testing.T) {
	t.Parallel()

	creds := domain.Credentials{Username: " admin ", Password: " admin "}

	issuer := &mockIssuer{}
	issuer.On("Issue", mock.Anything, creds).Return(domain.SessionToken{}, domain.ErrInvalidCredentials)

	newController(t, issuer).SubmitLogin(context.Background(), creds)

	issuer.AssertCalled(t, "Issue", mock.Anything, creds)
}

func TestLoginController_WithJWTIssuer(t *testing.T) {
	t.Parallel()

	users := map[string]domain.Credentials{
		"admin": {Username: "admin", Password: "admin"},
		"alice": {Username: "alice", Password: "wonderland"},
	}

	verifier := &mockVerifier{}
	for name, creds := range users {
		verifier.On("Verify", mock.Anything, creds).Return(domain.Principal{Username: name, Role: domain.RoleUser}, nil)
	}

	verifier.On("Verify", mock.Anything, mock.Anything).Return(domain.Principal{}, domain.ErrInvalidCredentials)

	issuer := loginsvc.NewJWTTokenIssuer(verifier, testKey, testAuthConfig()).WithClock(testClock)
	controller := newController(t, issuer)

	for name, creds := range users {
		outcome := controller.Outcome(context.Background(), creds)

		token, ok := outcome.Token()
		require.True(t, ok, name)
		assert.Equal(t, creds.Username, token.Claims.Subject)
		assert.True(t, token.Claims.ExpiresAt.After(token.Claims.IssuedAt))

		redirect, ok := controller.Instruct(outcome).(loginsvc.RedirectInstruction)
		require.True(t, ok)
		assert.Equal(t, token, redirect.Token)
	}

	outcome := controller.Outcome(context.Background(), domain.Credentials{Username: "admin", Password: "wrongpassword"})
	require.NotNil(t, outcome.Err())
	assert.Equal(t, domain.InvalidCredentials, outcome.Err().Kind)
	assert.Equal(t, domain.GenericDenialMessage, outcome.Message())
}

func TestLoginController_PresentHome(t *testing.T) {
	t.Parallel()

	got := newController(t, &mockIssuer{}).PresentHome("admin")
	assert.Equal(t, loginsvc.HomeTemplate, got.Template)
	assert.Equal(t, "admin", got.Context.Username)
}

func TestCookieMaxAge(t *testing.T) {
	t.Parallel()

	token := domain.SessionToken{Claims: domain.SessionClaims{IssuedAt: testNow, ExpiresAt: testNow.Add(time.Hour)}}

	assert.Equal(t, 3600, loginsvc.CookieMaxAge(token, testNow))
	assert.Equal(t, 0, loginsvc.CookieMaxAge(token, testNow.Add(2*time.Hour)))
}
