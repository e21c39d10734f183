package session

import "net/http"

// RequirePage wraps a page handler: anonymous clients are redirected to the
// login page. The identity is passed to the handler directly.
func (m *Manager) RequirePage(next func(http.ResponseWriter, *http.Request, User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := m.Current(r)
		if !ok {
			http.Redirect(w, r, "/login.html", http.StatusFound)
			return
		}
		next(w, r, u)
	}
}

// RequireJSON wraps a JSON handler: anonymous clients get a 401.
func (m *Manager) RequireJSON(next func(http.ResponseWriter, *http.Request, User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := m.Current(r)
		if !ok {
			http.Error(w, "Não autenticado.", http.StatusUnauthorized)
			return
		}
		next(w, r, u)
	}
}
