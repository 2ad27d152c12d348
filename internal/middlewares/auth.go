package middlewares

import (
	"net/http"

	"github.com/sbilibin2017/gw-user-portal/internal/logger"
	"github.com/sbilibin2017/gw-user-portal/internal/session"
)

// MsgLoginRequired is flashed when an anonymous client hits a protected page.
const MsgLoginRequired = "Please login to access the dashboard"

// AuthMiddleware returns a middleware that lets only logged in sessions
// through. Others get a flash and a redirect to loginPath. Protected
// responses are marked as non-cacheable.
func AuthMiddleware(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.FromContext(r.Context())

			if !sess.IsAuthenticated() {
				logger.Log.Infow("authorization failed", "uri", r.RequestURI)
				sess.AddFlash(session.FlashError, MsgLoginRequired)
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}

			h := w.Header()
			h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")

			next.ServeHTTP(w, r)
		})
	}
}
