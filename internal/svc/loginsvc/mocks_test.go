package loginsvc_test

import (
	"bytes"
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/mkrupp/homecase-login/internal/domain"
	"github.com/mkrupp/homecase-login/internal/svc/loginsvc"
)

//nolint:gochecknoglobals
var (
	testKey   = bytes.Repeat([]byte("k"), loginsvc.MinSigningKeySize)
	testNow   = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	testClock = func() time.Time { return testNow }
)

func testAuthConfig() loginsvc.AuthConfig {
	return loginsvc.AuthConfig{
		TokenDuration:   8 * time.Hour,
		Issuer:          "homecase-login",
		LandingLocation: "/",
	}
}

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) Verify(ctx context.Context, creds domain.Credentials) (domain.Principal, error) {
	args := m.Called(ctx, creds)

	return args.Get(0).(domain.Principal), args.Error(1) //nolint:forcetypeassert
}

type mockIssuer struct {
	mock.Mock
}

func (m *mockIssuer) Issue(ctx context.Context, creds domain.Credentials) (domain.SessionToken, error) {
	args := m.Called(ctx, creds)

	return args.Get(0).(domain.SessionToken), args.Error(1) //nolint:forcetypeassert
}

// adminVerifier accepts admin/admin only.
func adminVerifier() *mockVerifier {
	v := &mockVerifier{}
	v.On("Verify", mock.Anything, domain.Credentials{Username: "admin", Password: "admin"}).
		Return(domain.Principal{Username: "admin", Role: domain.RoleAdmin}, nil)
	v.On("Verify", mock.Anything, mock.Anything).
		Return(domain.Principal{}, domain.ErrInvalidCredentials)

	return v
}
