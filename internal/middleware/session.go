package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/cfbdemic/allies/internal/auth"
	logpkg "github.com/cfbdemic/allies/internal/logger"
	"github.com/cfbdemic/allies/internal/request"
)

// Session creates the session gate. A missing jwt cookie is not an error:
// the request simply proceeds unauthenticated. A cookie that fails
// verification redirects to the application root rather than surfacing a
// 401, so a stale or tampered session degrades to the logged-out experience.
func Session(signer *auth.Signer, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.CookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := signer.Verify(cookie.Value)
			if err != nil {
				logger.Debug("session_verification_failed",
					zap.String("path", logpkg.SanitizePath(r.URL.Path)),
					zap.String("reason", logpkg.SanitizeError(err)),
				)
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}

			ctx := request.WithSession(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoginSession is the gate variant mounted on the login routes. Valid claims
// are attached exactly like Session, but a cookie that fails verification is
// cleared and the request proceeds unauthenticated instead of being
// redirected: a stale session (rotated secret, tampered or garbage cookie)
// must never block starting a new login.
func LoginSession(signer *auth.Signer, cookieDomain string, devMode bool, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.CookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := signer.Verify(cookie.Value)
			if err != nil {
				logger.Debug("stale_session_cleared",
					zap.String("path", logpkg.SanitizePath(r.URL.Path)),
					zap.String("reason", logpkg.SanitizeError(err)),
				)
				http.SetCookie(w, &http.Cookie{
					Name:     auth.CookieName,
					Value:    "",
					Path:     "/",
					Domain:   cookieDomain,
					MaxAge:   -1,
					HttpOnly: true,
					Secure:   !devMode,
				})
				next.ServeHTTP(w, r)
				return
			}

			ctx := request.WithSession(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
