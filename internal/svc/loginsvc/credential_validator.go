package loginsvc

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/mkrupp/homecase-login/internal/domain"
)

// CredentialValidator checks the shape of submitted credentials before any
// authentication is attempted.
type CredentialValidator interface {
	// Validate returns domain.ErrUsernameRequired or domain.ErrPasswordRequired,
	// in that order of precedence, or nil.
	Validate(creds domain.Credentials) error
}

// loginForm mirrors the submitted fields. Field order decides which failure is reported first.
type loginForm struct {
	Username string `validate:"notblank"`
	Password string `validate:"notblank"`
}

// StructCredentialValidator implements CredentialValidator with go-playground/validator.
// A value made only of whitespace counts as blank. It is safe for concurrent use.
type StructCredentialValidator struct {
	validate *validator.Validate
}

var _ CredentialValidator = (*StructCredentialValidator)(nil)

func NewStructCredentialValidator() (*StructCredentialValidator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return nil, fmt.Errorf("register notblank: %w", err)
	}

	return &StructCredentialValidator{validate: validate}, nil
}

// Validate implements CredentialValidator. The credentials themselves are not modified.
func (v *StructCredentialValidator) Validate(creds domain.Credentials) error {
	err := v.validate.Struct(loginForm(creds))
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate credentials: %w", err)
	}

	switch fieldErrs[0].StructField() {
	case "Username":
		return domain.ErrUsernameRequired
	case "Password":
		return domain.ErrPasswordRequired
	default:
		return fmt.Errorf("validate credentials: %w", err)
	}
}
