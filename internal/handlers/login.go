package handlers

//go:generate mockgen -source=login.go -destination=mock_login.go -package=handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sbilibin2017/gw-user-portal/internal/logger"
	"github.com/sbilibin2017/gw-user-portal/internal/models"
	"github.com/sbilibin2017/gw-user-portal/internal/services"
	"github.com/sbilibin2017/gw-user-portal/internal/session"
	"github.com/sbilibin2017/gw-user-portal/internal/views"
)

// Login flash messages.
const (
	MsgCredentialsRequired = "Email and password are required"
	MsgInvalidCredentials  = "Invalid email or password"
	msgWelcomeBack         = "Welcome back, %s!"
)

// Loginer defines the interface that the login service must implement.
type Loginer interface {
	Login(ctx context.Context, email, password string) (*models.UserDB, error)
}

// NewLoginPageHandler returns an HTTP handler for the empty login form.
// @Summary Login form
// @Tags auth
// @Produce html
// @Success 200 {string} string "Login form"
// @Router /login [get]
func NewLoginPageHandler(rd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rd.Render(w, r, views.PageLogin, nil)
	}
}

// NewLoginHandler returns an HTTP handler for user login.
// @Summary User login
// @Description Authenticates by exact email and password and stores the user in the session cookie.
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce html
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Success 200 {string} string "Form re-rendered with an error"
// @Success 302 {string} string "Redirect to /dashboard"
// @Failure 500 {string} string "Internal server error"
// @Router /login [post]
func NewLoginHandler(svc Loginer, rd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.PostFormValue("email")
		password := r.PostFormValue("password")

		sess := session.FromContext(r.Context())

		user, err := svc.Login(r.Context(), email, password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrCredentialsRequired):
				sess.AddFlash(session.FlashError, MsgCredentialsRequired)
			case errors.Is(err, services.ErrInvalidCredentials):
				sess.AddFlash(session.FlashError, MsgInvalidCredentials)
			default:
				logger.Log.Errorw("internal server error", "err", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			rd.Render(w, r, views.PageLogin, &views.PageData{
				Form: map[string]string{"email": strings.TrimSpace(email)},
			})
			return
		}

		sess.SetUser(user.ID, user.Name, user.Email)
		sess.AddFlash(session.FlashSuccess, fmt.Sprintf(msgWelcomeBack, user.Name))
		logger.Log.Infow("user logged in", "user_id", user.ID)

		http.Redirect(w, r, "/dashboard", http.StatusFound)
	}
}
