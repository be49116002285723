package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/rohits-web03/optivus/internal/auth"
	"github.com/rohits-web03/optivus/internal/utils"
)

// SessionCookie holds the session token.
const SessionCookie = "token"

func tokenFrom(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// RequireSession rejects requests without a valid session and puts the session in the
// request context for the rest.
func RequireSession(provider *auth.Provider, logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			session, err := provider.Session(r.Context(), tokenFrom(r))
			switch {
			case err == nil:
			case errors.Is(err, auth.ErrNoSession):
				utils.Fail(w, http.StatusUnauthorized, "Unauthorized")
				return
			case errors.Is(err, auth.ErrUnavailable):
				utils.Fail(w, http.StatusServiceUnavailable, "Backend is not configured")
				return
			default:
				LoggerFrom(r.Context(), logger).Error("session lookup failed", "err", err)
				utils.Fail(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
		})
	}
}
