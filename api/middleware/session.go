package middleware

import (
	"net/http"
	"time"

	"github.com/oakmart/storefront-backend/pkg/config"
	"github.com/oakmart/storefront-backend/pkg/logger"
	"github.com/oakmart/storefront-backend/pkg/session"
)

// GuestSession attaches a browsing session id to every request. A valid
// cookie keeps its session; a missing or unverifiable one gets a fresh
// session minted and set, so storage scoping works from the first visit.
func GuestSession(cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			sessionID := ""
			if cookie, err := r.Cookie(cfg.CookieName); err == nil {
				if id, err := session.Parse(cfg, cookie.Value); err == nil {
					sessionID = id
				}
			}

			if sessionID == "" {
				token, id, err := session.Mint(cfg, time.Now())
				if err != nil {
					if logg != nil {
						logg.Error(ctx, "minting guest session", err)
					}
					next.ServeHTTP(w, r)
					return
				}
				sessionID = id
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(cfg.TTL() / time.Second),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			ctx = WithSessionID(ctx, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
