package loginsvc

import (
	"context"
	"time"

	"github.com/mkrupp/homecase-login/internal/domain"
	"github.com/mkrupp/homecase-login/internal/infra/logging"
)

// LoginController maps login attempts to instructions. It holds no mutable state;
// every attempt is independent and may run concurrently with others.
type LoginController struct {
	validator CredentialValidator
	issuer    TokenIssuer
	landing   string
	log       logging.Logger
}

func NewLoginController(validator CredentialValidator, issuer TokenIssuer, landing string) *LoginController {
	return &LoginController{
		validator: validator,
		issuer:    issuer,
		landing:   landing,
		log:       logging.GetLogger("svc.loginsvc.login_controller"),
	}
}

// PresentLoginForm returns the instruction for an empty login form.
func (c *LoginController) PresentLoginForm() RenderInstruction {
	return RenderInstruction{Template: LoginFormTemplate}
}

// Outcome runs one login attempt: validation first, issuance only for well-formed input.
func (c *LoginController) Outcome(ctx context.Context, creds domain.Credentials) domain.LoginOutcome {
	if err := c.validator.Validate(creds); err != nil {
		c.log.DebugContext(ctx, "credentials rejected", "credentials", creds, "error", err)

		return domain.Failed(err)
	}

	token, err := c.issuer.Issue(ctx, creds)
	if err != nil {
		outcome := domain.Failed(err)

		// Internal failures are only ever visible here, never in the view.
		if outcome.Err().Kind == domain.SigningFailure {
			c.log.ErrorContext(ctx, "token issuance failed", "credentials", creds, "error", err)
		} else {
			c.log.InfoContext(ctx, "login denied", "credentials", creds, "reason", outcome.Err().Kind.String())
		}

		return outcome
	}

	return domain.Succeeded(token)
}

// Instruct maps an outcome to what the transport should do.
func (c *LoginController) Instruct(outcome domain.LoginOutcome) Instruction {
	if token, ok := outcome.Token(); ok {
		return RedirectInstruction{Location: c.landing, Token: token}
	}

	return RenderInstruction{
		Template: LoginFormTemplate,
		Context:  ViewContext{ErrorMessage: outcome.Message()},
	}
}

// SubmitLogin runs a login attempt and returns a redirect on success or the
// re-rendered form with an error message on failure.
func (c *LoginController) SubmitLogin(ctx context.Context, creds domain.Credentials) Instruction {
	return c.Instruct(c.Outcome(ctx, creds))
}

// PresentHome returns the landing page for an authenticated subject.
func (c *LoginController) PresentHome(subject string) RenderInstruction {
	return RenderInstruction{Template: HomeTemplate, Context: ViewContext{Username: subject}}
}

// CookieMaxAge is the cookie lifetime matching token, never negative.
func CookieMaxAge(token domain.SessionToken, now time.Time) int {
	return max(0, int(token.Claims.ExpiresAt.Sub(now).Seconds()))
}
