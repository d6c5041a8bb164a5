package web

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
)

// sessionCookie is the name of the login cookie.
const sessionCookie = "studyhub_session"

// session identifies a logged-in user for the lifetime of the process.
type session struct {
	Email string
	Name  string
}

// sessionStore is an in-memory token table. Tokens are random UUIDs; a
// restart logs everyone out, which is acceptable for a single-process app.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]session)}
}

func (ss *sessionStore) create(sess session) string {
	token := uuid.NewString()

	ss.mu.Lock()
	ss.sessions[token] = sess
	ss.mu.Unlock()

	return token
}

func (ss *sessionStore) lookup(token string) (session, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	sess, ok := ss.sessions[token]

	return sess, ok
}

func (ss *sessionStore) destroy(token string) {
	ss.mu.Lock()
	delete(ss.sessions, token)
	ss.mu.Unlock()
}

// currentSession returns the session for the request's cookie, if any.
func (s *Server) currentSession(r *http.Request) (session, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return session{}, false
	}

	return s.sessions.lookup(cookie.Value)
}

// requireUser responds 401 and returns false when the request carries no
// valid session.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (session, bool) {
	sess, ok := s.currentSession(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"message": "not logged in",
		})

		return session{}, false
	}

	return sess, true
}
