package handlers

//go:generate mockgen -source=register.go -destination=mock_register.go -package=handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sbilibin2017/gw-user-portal/internal/logger"
	"github.com/sbilibin2017/gw-user-portal/internal/models"
	"github.com/sbilibin2017/gw-user-portal/internal/services"
	"github.com/sbilibin2017/gw-user-portal/internal/session"
	"github.com/sbilibin2017/gw-user-portal/internal/views"
)

// Registration flash messages.
const (
	MsgRegistrationSuccess = "Registration successful! You can now login."
	MsgRegistrationFailed  = "An error occurred during registration. Please try again."
)

// Registerer defines the interface that the registration service must implement.
type Registerer interface {
	Register(ctx context.Context, name, email, password string) (*models.UserDB, error)
}

// NewRegisterPageHandler returns an HTTP handler for the empty registration form.
// @Summary Registration form
// @Tags auth
// @Produce html
// @Success 200 {string} string "Registration form"
// @Router /register [get]
func NewRegisterPageHandler(rd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rd.Render(w, r, views.PageRegister, nil)
	}
}

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Validates the form, rejects duplicate emails and stores the user. Every validation error is flashed and the form is shown again.
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce html
// @Param name formData string true "Display name"
// @Param email formData string true "Email, used as login"
// @Param password formData string true "Password, at least 6 characters"
// @Success 200 {string} string "Form re-rendered with errors"
// @Success 302 {string} string "Redirect to /login"
// @Router /register [post]
func NewRegisterHandler(svc Registerer, rd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PostFormValue("name")
		email := r.PostFormValue("email")
		password := r.PostFormValue("password")

		sess := session.FromContext(r.Context())

		_, err := svc.Register(r.Context(), name, email, password)
		if err != nil {
			var verr *services.ValidationError
			isValidation := errors.As(err, &verr)
			if isValidation {
				for _, msg := range verr.Messages {
					sess.AddFlash(session.FlashError, msg)
				}
			}
			if !isValidation || verr.Err != nil {
				if !errors.Is(err, services.ErrRegistrationFailed) {
					logger.Log.Errorw("unexpected registration error", "err", err)
				}
				sess.AddFlash(session.FlashError, MsgRegistrationFailed)
			}

			rd.Render(w, r, views.PageRegister, &views.PageData{
				Form: map[string]string{
					"name":  strings.TrimSpace(name),
					"email": strings.TrimSpace(email),
				},
			})
			return
		}

		sess.AddFlash(session.FlashSuccess, MsgRegistrationSuccess)
		http.Redirect(w, r, "/login", http.StatusFound)
	}
}
