package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sbilibin2017/gw-user-portal/internal/logger"
)

// DefaultCookieName is the name of the session cookie.
const DefaultCookieName = "session"

// MaxCookieValueSize is the largest encoded session written to a cookie.
// Browsers drop cookies above roughly 4096 bytes including name and attributes.
const MaxCookieValueSize = 4000

// Error variables
var (
	ErrEmptySecretKey = errors.New("session secret key is empty")
	ErrCookieTooLarge = errors.New("session cookie too large")
)

// claims is the signed cookie payload.
type claims struct {
	UserID    int64   `json:"user_id,omitempty"`
	UserName  string  `json:"user_name,omitempty"`
	UserEmail string  `json:"user_email,omitempty"`
	Flashes   []Flash `json:"_flashes,omitempty"`
	jwt.RegisteredClaims
}

// Manager loads and stores sessions in an HS256-signed cookie.
type Manager struct {
	SecretKey  []byte
	CookieName string
	Secure     bool
}

// Opt configures a Manager.
type Opt func(*Manager)

// WithCookieName overrides DefaultCookieName.
func WithCookieName(name string) Opt {
	return func(m *Manager) {
		m.CookieName = name
	}
}

// WithSecure marks the cookie as HTTPS only.
func WithSecure(secure bool) Opt {
	return func(m *Manager) {
		m.Secure = secure
	}
}

// NewManager creates a new Manager signing cookies with secretKey.
func NewManager(secretKey string, opts ...Opt) *Manager {
	m := &Manager{
		SecretKey:  []byte(secretKey),
		CookieName: DefaultCookieName,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load returns the session carried by the request cookie. A missing cookie
// yields an empty session; an invalid one yields an empty session that will
// expire the cookie on Save.
func (m *Manager) Load(r *http.Request) *Session {
	c, err := r.Cookie(m.CookieName)
	if err != nil {
		return &Session{}
	}

	s, err := m.Decode(c.Value)
	if err != nil {
		logger.Log.Debugw("discarding invalid session cookie", "err", err)
		return &Session{modified: true}
	}
	return s
}

// Save writes the session cookie when the session was modified. An empty
// session expires the cookie. The cookie has no Max-Age and lives for the
// browser session. A session encoding to more than MaxCookieValueSize bytes
// is not written and ErrCookieTooLarge is returned.
func (m *Manager) Save(w http.ResponseWriter, s *Session) error {
	if s == nil || !s.Modified() {
		return nil
	}

	if s.IsEmpty() {
		http.SetCookie(w, m.cookie("", -1))
		return nil
	}

	value, err := m.Encode(s)
	if err != nil {
		return err
	}
	if len(value) > MaxCookieValueSize {
		return fmt.Errorf("%w: %d bytes", ErrCookieTooLarge, len(value))
	}
	http.SetCookie(w, m.cookie(value, 0))
	return nil
}

// Encode signs the session into a token string.
func (m *Manager) Encode(s *Session) (string, error) {
	if len(m.SecretKey) == 0 {
		return "", ErrEmptySecretKey
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID:    s.UserID,
		UserName:  s.UserName,
		UserEmail: s.UserEmail,
		Flashes:   s.Flashes,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	})
	return token.SignedString(m.SecretKey)
}

// Decode verifies a token string and returns the session it carries.
func (m *Manager) Decode(tokenString string) (*Session, error) {
	if len(m.SecretKey) == 0 {
		return nil, ErrEmptySecretKey
	}

	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.SecretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return &Session{
		UserID:    c.UserID,
		UserName:  c.UserName,
		UserEmail: c.UserEmail,
		Flashes:   c.Flashes,
	}, nil
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
