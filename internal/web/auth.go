package web

import (
	"errors"
	"net/http"

	"studyhub/internal/accounts"
	"studyhub/internal/userkey"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	email := r.FormValue("email")
	password := r.FormValue("password")

	err := s.accounts.Register(name, email, password)
	if err != nil {
		s.fail(w, err)

		return
	}

	// Create the user's document eagerly so first login is instant.
	_, err = s.store.Load(userkey.Resolve(email))
	if err != nil {
		s.fail(w, err)

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Registered successfully",
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	account, err := s.accounts.Authenticate(email, password)
	if err != nil {
		if errors.Is(err, accounts.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"success": false,
				"message": err.Error(),
			})

			return
		}

		s.fail(w, err)

		return
	}

	token := s.sessions.create(session{Email: account.Email, Name: account.Name})

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookie)
	if err == nil {
		s.sessions.destroy(cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:   sessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	writeOK(w)
}

func (s *Server) handleCheckLogin(w http.ResponseWriter, r *http.Request) {
	_, ok := s.currentSession(r)

	writeJSON(w, http.StatusOK, map[string]any{"logged_in": ok})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	doc, err := s.store.Load(userkey.Resolve(sess.Email))
	if err != nil {
		s.fail(w, err)

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": map[string]string{"email": sess.Email, "name": sess.Name},
		"summary": map[string]any{
			"todos_count":     len(doc.Todos),
			"notes_count":     len(doc.Notes),
			"habits_count":    len(doc.Habits),
			"subjects_count":  len(doc.Attendance),
			"budget":          map[string]float64{"total": doc.Budget.Total, "remaining": doc.Budget.Remaining},
			"documents_count": len(doc.Documents),
		},
	})
}
