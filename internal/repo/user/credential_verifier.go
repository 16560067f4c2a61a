package user

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mkrupp/homecase-login/internal/domain"
)

// ErrEmptyPassword is returned when hashing an empty password.
var ErrEmptyPassword = errors.New("empty password")

// HashPassword hashes password with bcrypt at the given cost (bcrypt.DefaultCost when 0).
func HashPassword(password string, cost int) ([]byte, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}

	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return hash, nil
}

// CredentialVerifier checks submitted credentials against the user repository.
type CredentialVerifier struct {
	repo      Repository
	dummyHash []byte
}

// NewCredentialVerifier creates a verifier backed by repo.
func NewCredentialVerifier(repo Repository) (*CredentialVerifier, error) {
	// Compared against when the user does not exist, so unknown usernames take
	// as long as wrong passwords.
	dummyHash, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("generate dummy hash: %w", err)
	}

	return &CredentialVerifier{repo: repo, dummyHash: dummyHash}, nil
}

// Verify returns the principal for valid credentials. Unknown users and wrong passwords
// both yield domain.ErrInvalidCredentials; repository failures are returned wrapped.
func (v *CredentialVerifier) Verify(ctx context.Context, creds domain.Credentials) (domain.Principal, error) {
	user, err := v.repo.GetUserByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(v.dummyHash, []byte(creds.Password))

			return domain.Principal{}, domain.NewLoginError(domain.InvalidCredentials, err)
		}

		return domain.Principal{}, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(creds.Password)); err != nil {
		return domain.Principal{}, domain.NewLoginError(domain.InvalidCredentials, err)
	}

	return domain.Principal{Username: user.Username, Role: user.Role}, nil
}
