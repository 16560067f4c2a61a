package loginsvc

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mkrupp/homecase-login/internal/domain"
	"github.com/mkrupp/homecase-login/internal/infra/logging"
	"github.com/mkrupp/homecase-login/internal/repo/user"
)

// LoginService wires the login flow to its collaborators: the user store,
// the signing key and the view templates.
type LoginService struct {
	Config     AuthConfig
	UserRepo   user.Repository
	Log        logging.Logger
	Controller *LoginController
	Parser     *SessionTokenParser
	Presenter  ViewPresenter
	CSRF       *CSRFGuard
}

// NewLoginService loads the signing key, opens the user repository and builds the controller.
func NewLoginService(repoFactory user.RepositoryFactory, cfg AuthConfig) (*LoginService, error) {
	log := logging.GetLogger("svc.loginsvc.service")

	signingKey, err := GetSigningKey(cfg)
	if err != nil {
		return nil, fmt.Errorf("get signing key: %w", err)
	}

	validator, err := NewStructCredentialValidator()
	if err != nil {
		return nil, fmt.Errorf("new validator: %w", err)
	}

	presenter, err := NewTemplatePresenter()
	if err != nil {
		return nil, fmt.Errorf("new presenter: %w", err)
	}

	userRepo, err := repoFactory()
	if err != nil {
		return nil, fmt.Errorf("new user repo: %w", err)
	}

	verifier, err := user.NewCredentialVerifier(userRepo)
	if err != nil {
		userRepo.Close()

		return nil, fmt.Errorf("new credential verifier: %w", err)
	}

	issuer := NewJWTTokenIssuer(verifier, signingKey, cfg)

	return &LoginService{
		Config:     cfg,
		UserRepo:   userRepo,
		Log:        log,
		Controller: NewLoginController(validator, issuer, cfg.LandingLocation),
		Parser:     NewSessionTokenParser(signingKey, cfg),
		Presenter:  presenter,
		CSRF:       NewCSRFGuard(signingKey),
	}, nil
}

// RegisterUser stores a new account in the service's user repository.
func (s *LoginService) RegisterUser(ctx context.Context, username, password string, role domain.Role) error {
	return RegisterUser(ctx, s.UserRepo, username, password, role)
}

// RegisterUser stores a new account with a bcrypt hash of password.
// Returns domain.ErrUserAlreadyExists if the username is taken.
func RegisterUser(ctx context.Context, repo user.Repository, username, password string, role domain.Role) (err error) {
	log := logging.GetLogger("svc.loginsvc.service").
		With(logging.Group("user", "username", username, "role", role.String()))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "register user failed", "error", err)
		} else {
			log.InfoContext(ctx, "user registered")
		}
	}()

	if !role.Valid() {
		return fmt.Errorf("%w: %d", domain.ErrUnknownRole, role)
	}

	hash, err := user.HashPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := repo.CreateUser(ctx, username, hash, role); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// Close releases the user repository.
func (s *LoginService) Close() error {
	if err := s.UserRepo.Close(); err != nil {
		return fmt.Errorf("close user repo: %w", err)
	}

	return nil
}
