package session

import "context"

// Flash categories.
const (
	FlashError   = "error"
	FlashSuccess = "success"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Session holds the per-client state carried in the session cookie.
// A UserID of 0 means no user is logged in.
type Session struct {
	UserID    int64
	UserName  string
	UserEmail string
	Flashes   []Flash

	modified bool
}

// SetUser stores the identity of a logged in user.
func (s *Session) SetUser(id int64, name, email string) {
	s.UserID = id
	s.UserName = name
	s.UserEmail = email
	s.modified = true
}

// Clear removes every attribute, pending flashes included.
func (s *Session) Clear() {
	s.UserID = 0
	s.UserName = ""
	s.UserEmail = ""
	s.Flashes = nil
	s.modified = true
}

// AddFlash queues a message for the next rendered page.
func (s *Session) AddFlash(category, message string) {
	s.Flashes = append(s.Flashes, Flash{Category: category, Message: message})
	s.modified = true
}

// PopFlashes returns the queued flashes and empties the queue.
func (s *Session) PopFlashes() []Flash {
	flashes := s.Flashes
	if len(flashes) > 0 {
		s.Flashes = nil
		s.modified = true
	}
	return flashes
}

// IsAuthenticated reports whether a user id is present.
func (s *Session) IsAuthenticated() bool {
	return s.UserID != 0
}

// IsEmpty reports whether the session carries nothing worth persisting.
func (s *Session) IsEmpty() bool {
	return s.UserID == 0 && s.UserName == "" && s.UserEmail == "" && len(s.Flashes) == 0
}

// Modified reports whether the session changed since it was loaded.
func (s *Session) Modified() bool {
	return s.modified
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored in ctx. When none is present a
// fresh empty session is returned, so callers never get nil.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(contextKey{}).(*Session); ok && s != nil {
		return s
	}
	return &Session{}
}
