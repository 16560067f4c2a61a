package domain

// LoginOutcome is the result of one login attempt: either a token or an error, never both.
type LoginOutcome struct {
	token SessionToken
	err   *LoginError
}

// Succeeded returns an outcome carrying token.
func Succeeded(token SessionToken) LoginOutcome {
	return LoginOutcome{token: token}
}

// Failed returns an outcome carrying err, classified with AsLoginError.
func Failed(err error) LoginOutcome {
	loginErr := AsLoginError(err)
	if loginErr == nil {
		loginErr = ErrSigningFailure
	}

	return LoginOutcome{err: loginErr}
}

// Token returns the issued token and true on success.
func (o LoginOutcome) Token() (SessionToken, bool) {
	return o.token, o.err == nil
}

// Err returns the failure, or nil on success.
func (o LoginOutcome) Err() *LoginError {
	return o.err
}

// Message returns the user-visible error text, empty on success.
// Validation kinds are shown verbatim; everything else collapses to GenericDenialMessage.
func (o LoginOutcome) Message() string {
	if o.err == nil {
		return ""
	}

	if o.err.Kind.IsValidation() {
		return o.err.Kind.Message()
	}

	return GenericDenialMessage
}
