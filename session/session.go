// Package session is the auth gate: a cookie-backed session store mapping an
// opaque client token to the authenticated identity, plus the middleware that
// protects every non-public route.
package session

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const cookieName = "session-cookie"

// User is the identity held in the session for a logged-in client.
type User struct {
	ID       int64
	Username string
	Email    string
}

// Manager wraps a gorilla session store behind the small surface the
// handlers need, keeping the gate testable in isolation.
type Manager struct {
	store sessions.Store
}

func NewManager(secret string) *Manager {
	return &Manager{store: sessions.NewCookieStore([]byte(secret))}
}

// SignIn binds the identity to the client's session cookie.
func (m *Manager) SignIn(w http.ResponseWriter, r *http.Request, u User) error {
	s, _ := m.store.Get(r, cookieName)
	s.Values["user_id"] = u.ID
	s.Values["username"] = u.Username
	s.Values["email"] = u.Email
	return s.Save(r, w)
}

// SignOut destroys the session.
func (m *Manager) SignOut(w http.ResponseWriter, r *http.Request) error {
	s, _ := m.store.Get(r, cookieName)
	s.Options.MaxAge = -1
	s.Values = make(map[interface{}]interface{})
	return s.Save(r, w)
}

// Current returns the authenticated identity, if any.
func (m *Manager) Current(r *http.Request) (User, bool) {
	s, err := m.store.Get(r, cookieName)
	if err != nil {
		return User{}, false
	}

	id, ok := s.Values["user_id"].(int64)
	if !ok {
		return User{}, false
	}
	username, ok := s.Values["username"].(string)
	if !ok {
		return User{}, false
	}
	email, _ := s.Values["email"].(string)

	return User{ID: id, Username: username, Email: email}, true
}
