package handlers

import (
	"net/http"

	"github.com/sbilibin2017/gw-user-portal/internal/logger"
	"github.com/sbilibin2017/gw-user-portal/internal/session"
)

// MsgLoggedOut is flashed after logout.
const MsgLoggedOut = "You have been logged out successfully"

// NewLogoutHandler returns an HTTP handler that clears the session.
// @Summary Logout
// @Tags auth
// @Success 302 {string} string "Redirect to /"
// @Router /logout [get]
func NewLogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		if sess.IsAuthenticated() {
			logger.Log.Infow("user logged out", "user_id", sess.UserID)
		}

		sess.Clear()
		sess.AddFlash(session.FlashSuccess, MsgLoggedOut)

		http.Redirect(w, r, "/", http.StatusFound)
	}
}
