package handlers

import (
	"net/http"

	"github.com/sbilibin2017/gw-user-portal/internal/session"
	"github.com/sbilibin2017/gw-user-portal/internal/views"
)

// NewDashboardHandler returns an HTTP handler for the protected dashboard.
// It expects AuthMiddleware in front of it.
// @Summary Dashboard
// @Tags pages
// @Produce html
// @Success 200 {string} string "Dashboard"
// @Success 302 {string} string "Redirect to /login when not logged in"
// @Router /dashboard [get]
func NewDashboardHandler(rd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		rd.Render(w, r, views.PageDashboard, &views.PageData{UserName: sess.UserName})
	}
}
