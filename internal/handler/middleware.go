package handler

import (
	"context"
	"net/http"

	"github.com/vidranorte/vitrine-api/internal/domain"
	"github.com/vidranorte/vitrine-api/internal/service"

	"go.uber.org/zap"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionMiddleware resolves the session cookie into a domain.Session and
// injects it into the request context. Requests without a valid cookie pass
// through unauthenticated; route-level guards decide whether that matters.
func SessionMiddleware(authSvc *service.AuthService, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err == nil && cookie.Value != "" {
				if session, err := authSvc.ValidateSession(cookie.Value); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), sessionKey, session))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession rejects unauthenticated API requests.
func RequireSession(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if SessionFromContext(r.Context()) == nil {
				logger.Warn("unauthenticated request",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusUnauthorized, "Sessão não encontrada")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireStaff gates the dashboard area. Browser navigation gets the 303
// back to the login page; only staff roles pass.
func RequireStaff(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := SessionFromContext(r.Context())
			if session == nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if !session.Role.Staff() {
				logger.Warn("dashboard access denied",
					zap.String("user_id", session.UserID),
					zap.String("role", string(session.Role)),
				)
				// A logged-in cliente/arquiteto is navigating, not
				// attacking: send them to their own area.
				http.Redirect(w, r, session.Role.PostLoginPath(), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionFromContext extracts the authenticated session, nil when absent.
func SessionFromContext(ctx context.Context) *domain.Session {
	v, _ := ctx.Value(sessionKey).(*domain.Session)
	return v
}
