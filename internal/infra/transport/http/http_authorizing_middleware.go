package http

import (
	"context"
	"net/http"
	"strings"

	context_ "github.com/mkrupp/homecase-login/internal/infra/context"
	"github.com/mkrupp/homecase-login/internal/infra/logging"
)

// TokenAuthorizer checks a session token and returns the subject it was issued to.
type TokenAuthorizer interface {
	Authorize(ctx context.Context, token string) (string, error)
}

// AuthorizingMiddleware admits requests carrying a valid session token, read from the
// named cookie or from an "Authorization: Bearer" header. The subject is added to the
// request context. Requests without a valid token are handed to denied instead.
func AuthorizingMiddleware(
	next http.Handler,
	authorizer TokenAuthorizer,
	cookieName string,
	denied http.Handler,
	log logging.Logger,
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r, cookieName)
		if token == "" {
			log.DebugContext(r.Context(), "no token provided")
			denied.ServeHTTP(w, r)

			return
		}

		subject, err := authorizer.Authorize(r.Context(), token)
		if err != nil {
			log.WarnContext(r.Context(), "authorize token failed", "error", err)
			denied.ServeHTTP(w, r)

			return
		}

		next.ServeHTTP(w, r.WithContext(context_.WithSubject(r.Context(), subject)))
	})
}

func tokenFromRequest(r *http.Request, cookieName string) string {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	return ""
}
