package middlewares

//go:generate mockgen -source=session.go -destination=mock_session.go -package=middlewares

import (
	"net/http"

	"github.com/sbilibin2017/gw-user-portal/internal/logger"
	"github.com/sbilibin2017/gw-user-portal/internal/session"
)

// SessionStore loads and persists the per-client session.
type SessionStore interface {
	Load(r *http.Request) *session.Session
	Save(w http.ResponseWriter, s *session.Session) error
}

// SessionMiddleware loads the session into the request context and writes
// it back before the response headers are sent.
func SessionMiddleware(store SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := store.Load(r)

			sw := &sessionWriter{
				ResponseWriter: w,
				save: func() {
					if err := store.Save(w, sess); err != nil {
						logger.Log.Errorw("failed to save session", "error", err)
					}
				},
			}

			ctx := session.NewContext(r.Context(), sess)
			r = r.WithContext(ctx)

			next.ServeHTTP(sw, r)

			sw.flush()
		})
	}
}

// sessionWriter saves the session right before the first header write,
// while Set-Cookie can still be added.
type sessionWriter struct {
	http.ResponseWriter
	save  func()
	saved bool
}

func (sw *sessionWriter) flush() {
	if sw.saved {
		return
	}
	sw.saved = true
	sw.save()
}

func (sw *sessionWriter) WriteHeader(code int) {
	sw.flush()
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *sessionWriter) Write(b []byte) (int, error) {
	sw.flush()
	return sw.ResponseWriter.Write(b)
}
