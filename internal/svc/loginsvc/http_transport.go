package loginsvc

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mkrupp/homecase-login/internal/domain"
	context_ "github.com/mkrupp/homecase-login/internal/infra/context"
	"github.com/mkrupp/homecase-login/internal/infra/logging"
	"github.com/mkrupp/homecase-login/internal/infra/metrics"
	http_ "github.com/mkrupp/homecase-login/internal/infra/transport/http"
)

const (
	// LoginPath is where the login form is served and submitted.
	LoginPath = "/login"
	// CSRFCookieName carries the nonce of the login form's CSRF token.
	CSRFCookieName = "login_csrf"
	// CSRFField is the hidden form field holding the CSRF token.
	CSRFField = "csrf_token"
)

// HTTPTransportConfig contains configuration parameters for the HTTP transport layer.
type HTTPTransportConfig struct {
	http_.HTTPTransportConfig

	// SessionCookieName is the cookie carrying the session token
	SessionCookieName string `env:"SESSION_COOKIE_NAME" default:"session_token"`

	// SecureCookie marks the session cookie Secure; enable behind TLS
	SecureCookie bool `env:"SECURE_COOKIE" default:"false"`

	RateLimit http_.RateLimitConfig `envPrefix:"RATE_LIMIT_"`
}

// HTTPTransport serves the login form, executes login instructions and
// guards the landing page with the session cookie.
type HTTPTransport struct {
	controller *LoginController
	presenter  ViewPresenter
	authorizer http_.TokenAuthorizer
	csrf       *CSRFGuard
	log        logging.Logger
	cfg        HTTPTransportConfig
	now        func() time.Time
	mux        *http.ServeMux
}

var _ http_.HTTPTransport = (*HTTPTransport)(nil)

// NewHTTPTransport builds the routes:
//   - GET /login: the empty login form
//   - POST /login: a login attempt, throttled per client and CSRF checked
//   - GET /: the landing page, session token required
//   - POST /logout: drops the session cookie
//   - GET /healthz and GET /metrics
func NewHTTPTransport(
	controller *LoginController,
	presenter ViewPresenter,
	authorizer http_.TokenAuthorizer,
	csrf *CSRFGuard,
	cfg HTTPTransportConfig,
) *HTTPTransport {
	ht := &HTTPTransport{
		controller: controller,
		presenter:  presenter,
		authorizer: authorizer,
		csrf:       csrf,
		log:        logging.GetLogger("svc.loginsvc.http_transport"),
		cfg:        cfg,
		now:        time.Now,
		mux:        http.NewServeMux(),
	}

	limiter := http_.NewRateLimiter(cfg.RateLimit)
	toLogin := http.RedirectHandler(LoginPath, http.StatusSeeOther)

	ht.mux.HandleFunc("GET "+LoginPath, ht.HandleLoginForm)
	ht.mux.Handle("POST "+LoginPath, http_.RateLimitingMiddleware(http.HandlerFunc(ht.HandleLogin), limiter, ht.log))
	ht.mux.Handle("GET /{$}", http_.AuthorizingMiddleware(
		http.HandlerFunc(ht.HandleHome), authorizer, cfg.SessionCookieName, toLogin, ht.log,
	))
	ht.mux.HandleFunc("POST /logout", ht.HandleLogout)
	ht.mux.HandleFunc("GET /healthz", ht.HandleHealth)
	ht.mux.Handle("GET /metrics", metrics.Handler())

	return ht
}

// NewServiceHTTPTransport builds the transport from a LoginService.
func NewServiceHTTPTransport(svc *LoginService, cfg HTTPTransportConfig) *HTTPTransport {
	return NewHTTPTransport(svc.Controller, svc.Presenter, svc.Parser, svc.CSRF, cfg)
}

// ServeHTTP implements http.Handler.
func (ht *HTTPTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ht.mux.ServeHTTP(w, r)
}

// HandleLoginForm renders the empty login form.
func (ht *HTTPTransport) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	_ = ht.execute(w, r, ht.controller.PresentLoginForm())
}

// HandleLogin processes a login form submission.
// Expects form parameters: Username, Password (lower-case names are accepted too).
func (ht *HTTPTransport) HandleLogin(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleLogin(w, r)
}

func (ht *HTTPTransport) handleLogin(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "login request failed", "error", err)
		}
	}(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return fmt.Errorf("parse form: %w", err)
	}

	if err := ht.checkCSRF(r); err != nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)

		return err
	}

	creds := domain.Credentials{
		Username: formValue(r, "Username", "username"),
		Password: formValue(r, "Password", "password"),
	}

	started := ht.now()
	outcome := ht.controller.Outcome(r.Context(), creds)

	label := "success"
	if loginErr := outcome.Err(); loginErr != nil {
		label = loginErr.Kind.String()
	}

	metrics.RecordLogin(label, ht.now().Sub(started).Seconds())

	return ht.execute(w, r, ht.controller.Instruct(outcome))
}

func (ht *HTTPTransport) checkCSRF(r *http.Request) error {
	var nonce string
	if cookie, err := r.Cookie(CSRFCookieName); err == nil {
		nonce = cookie.Value
	}

	if err := ht.csrf.Check(nonce, r.PostFormValue(CSRFField)); err != nil {
		return fmt.Errorf("check csrf: %w", err)
	}

	return nil
}

// issueCSRF sets a fresh nonce cookie and returns the matching form token.
func (ht *HTTPTransport) issueCSRF(w http.ResponseWriter) string {
	nonce := ht.csrf.NewNonce()

	//nolint:exhaustruct
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    nonce,
		Path:     LoginPath,
		HttpOnly: true,
		Secure:   ht.cfg.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	})

	return ht.csrf.Token(nonce)
}

// formValue returns the first of names present in the posted form.
func formValue(r *http.Request, names ...string) string {
	for _, name := range names {
		if values, ok := r.PostForm[name]; ok && len(values) > 0 {
			return values[0]
		}
	}

	return ""
}

// HandleHome renders the landing page for the subject set by the authorizing middleware.
func (ht *HTTPTransport) HandleHome(w http.ResponseWriter, r *http.Request) {
	subject, ok := context_.SubjectFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)

		return
	}

	_ = ht.execute(w, r, ht.controller.PresentHome(subject))
}

// HandleLogout expires the session cookie. Issued tokens stay valid until they expire.
func (ht *HTTPTransport) HandleLogout(w http.ResponseWriter, r *http.Request) {
	//nolint:exhaustruct
	http.SetCookie(w, &http.Cookie{
		Name:     ht.cfg.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   ht.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

// HandleHealth reports that the process is serving.
func (ht *HTTPTransport) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (ht *HTTPTransport) execute(w http.ResponseWriter, r *http.Request, instruction Instruction) (err error) {
	defer func(ctx context.Context) {
		if err != nil {
			ht.log.ErrorContext(ctx, "execute instruction failed", "error", err)
		}
	}(r.Context())

	switch in := instruction.(type) {
	case RenderInstruction:
		if in.Template == LoginFormTemplate {
			in.Context.CSRFToken = ht.issueCSRF(w)
		}

		// Render fully before writing so a template error can still become a 500.
		var buf bytes.Buffer
		if err := ht.presenter.Render(&buf, in.Template, in.Context); err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

			return fmt.Errorf("render: %w", err)
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)

		if _, err := buf.WriteTo(w); err != nil {
			return fmt.Errorf("write: %w", err)
		}

		return nil
	case RedirectInstruction:
		//nolint:exhaustruct
		http.SetCookie(w, &http.Cookie{
			Name:     ht.cfg.SessionCookieName,
			Value:    in.Token.Encoded,
			Path:     "/",
			Expires:  in.Token.Claims.ExpiresAt,
			MaxAge:   CookieMaxAge(in.Token, ht.now()),
			HttpOnly: true,
			Secure:   ht.cfg.SecureCookie,
			SameSite: http.SameSiteLaxMode,
		})

		http.Redirect(w, r, in.Location, http.StatusSeeOther)

		return nil
	default:
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return fmt.Errorf("unknown instruction %T", instruction)
	}
}
