package handlers

import (
	"net/http"

	"github.com/sbilibin2017/gw-user-portal/internal/views"
)

// Renderer defines the interface used to write HTML pages.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, page string, data *views.PageData)
}
