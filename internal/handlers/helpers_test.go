package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/sbilibin2017/gw-user-portal/internal/session"
	"github.com/sbilibin2017/gw-user-portal/internal/views"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T) *views.Renderer {
	t.Helper()
	rd, err := views.New()
	require.NoError(t, err)
	return rd
}

func newRequest(method, target string, form url.Values, sess *session.Session) *http.Request {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(session.NewContext(context.Background(), sess))
}
