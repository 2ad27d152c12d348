package handlers

import (
	"net/http"

	"github.com/sbilibin2017/gw-user-portal/internal/views"
)

// NewHomeHandler returns an HTTP handler for the landing page.
// @Summary Home page
// @Tags pages
// @Produce html
// @Success 200 {string} string "Home page"
// @Router / [get]
func NewHomeHandler(rd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rd.Render(w, r, views.PageHome, nil)
	}
}
