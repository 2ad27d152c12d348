package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sbilibin2017/gw-user-portal/internal/session"
	"github.com/stretchr/testify/assert"
)

func TestHomeHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHomeHandler(newRenderer(t)).ServeHTTP(rr, newRequest(http.MethodGet, "/", nil, &session.Session{}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `href="/register"`)
}

func TestDashboardHandler(t *testing.T) {
	sess := &session.Session{UserID: 1, UserName: "Alice"}
	sess.AddFlash(session.FlashSuccess, "Welcome back, Alice!")

	rr := httptest.NewRecorder()
	NewDashboardHandler(newRenderer(t)).ServeHTTP(rr, newRequest(http.MethodGet, "/dashboard", nil, sess))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Hello, Alice!")
	assert.Contains(t, rr.Body.String(), "Welcome back, Alice!")
	assert.Empty(t, sess.Flashes)
}

func TestLogoutHandler(t *testing.T) {
	tests := []struct {
		name    string
		session *session.Session
	}{
		{
			name: "logged in",
			session: &session.Session{
				UserID:    1,
				UserName:  "Alice",
				UserEmail: "alice@example.com",
				Flashes:   []session.Flash{{Category: session.FlashSuccess, Message: "stale"}},
			},
		},
		{
			name:    "already logged out",
			session: &session.Session{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			NewLogoutHandler().ServeHTTP(rr, newRequest(http.MethodGet, "/logout", nil, tt.session))

			assert.Equal(t, http.StatusFound, rr.Code)
			assert.Equal(t, "/", rr.Header().Get("Location"))
			assert.False(t, tt.session.IsAuthenticated())
			assert.Empty(t, tt.session.UserName)
			assert.Empty(t, tt.session.UserEmail)
			assert.Equal(t, []session.Flash{{Category: session.FlashSuccess, Message: MsgLoggedOut}}, tt.session.Flashes)
		})
	}
}
