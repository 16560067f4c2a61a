package domain

import (
	"errors"
	"fmt"
)

// GenericDenialMessage is shown for every failure that is not a validation failure.
const GenericDenialMessage = "Invalid Credentials"

// LoginErrorKind is the closed set of reasons a login attempt can fail.
type LoginErrorKind int

const (
	// UsernameRequired means the username was empty or whitespace only.
	UsernameRequired LoginErrorKind = iota + 1
	// PasswordRequired means the password was empty or whitespace only.
	PasswordRequired
	// InvalidCredentials means verification of well-formed credentials failed.
	InvalidCredentials
	// SigningFailure covers every internal failure while building the token.
	SigningFailure
)

func (k LoginErrorKind) String() string {
	switch k {
	case UsernameRequired:
		return "username_required"
	case PasswordRequired:
		return "password_required"
	case InvalidCredentials:
		return "invalid_credentials"
	case SigningFailure:
		return "signing_failure"
	default:
		return fmt.Sprintf("login_error(%d)", int(k))
	}
}

// IsValidation reports whether the kind was detected from input shape alone.
// Only these kinds may be shown to the user verbatim.
func (k LoginErrorKind) IsValidation() bool {
	switch k {
	case UsernameRequired, PasswordRequired:
		return true
	case InvalidCredentials, SigningFailure:
		return false
	default:
		return false
	}
}

// Message returns the text rendered into the login form.
func (k LoginErrorKind) Message() string {
	switch k {
	case UsernameRequired:
		return "Username required"
	case PasswordRequired:
		return "Password required"
	case InvalidCredentials, SigningFailure:
		return GenericDenialMessage
	default:
		return GenericDenialMessage
	}
}

// LoginError is a failed login attempt. Err holds internal detail for logging
// and is never rendered.
type LoginError struct {
	Kind LoginErrorKind
	Err  error
}

func (e *LoginError) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Err.Error()
	}

	return e.Kind.String()
}

func (e *LoginError) Unwrap() error {
	return e.Err
}

// Is matches any LoginError of the same kind, so the sentinels below work with errors.Is.
func (e *LoginError) Is(target error) bool {
	var t *LoginError
	if !errors.As(target, &t) {
		return false
	}

	return t.Kind == e.Kind
}

//nolint:gochecknoglobals
var (
	// ErrUsernameRequired is returned when the username is blank.
	ErrUsernameRequired = &LoginError{Kind: UsernameRequired}
	// ErrPasswordRequired is returned when the password is blank.
	ErrPasswordRequired = &LoginError{Kind: PasswordRequired}
	// ErrInvalidCredentials is returned when the username/password combination is incorrect.
	ErrInvalidCredentials = &LoginError{Kind: InvalidCredentials}
	// ErrSigningFailure is returned when a token cannot be built or signed.
	ErrSigningFailure = &LoginError{Kind: SigningFailure}
)

// NewLoginError wraps err with the given kind.
func NewLoginError(kind LoginErrorKind, err error) *LoginError {
	return &LoginError{Kind: kind, Err: err}
}

// AsLoginError classifies any error. Errors that are not a LoginError are internal
// and become SigningFailure.
func AsLoginError(err error) *LoginError {
	if err == nil {
		return nil
	}

	var loginErr *LoginError
	if errors.As(err, &loginErr) {
		return loginErr
	}

	return NewLoginError(SigningFailure, err)
}

// KindOf returns the kind of err, see AsLoginError.
func KindOf(err error) LoginErrorKind {
	if loginErr := AsLoginError(err); loginErr != nil {
		return loginErr.Kind
	}

	return 0
}
