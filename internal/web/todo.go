package web

import (
	"net/http"

	"studyhub/internal/document"
	"studyhub/internal/notes"
	"studyhub/internal/userkey"
)

func (s *Server) handleTodoList(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	doc, err := s.store.Load(userkey.Resolve(sess.Email))
	if err != nil {
		s.fail(w, err)

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"todos": doc.Todos})
}

func (s *Server) handleTodoAdd(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	_, err := s.store.Update(userkey.Resolve(sess.Email), func(doc *document.UserDocument) error {
		return notes.AddTodo(doc,
			r.FormValue("task"),
			r.FormValue("category"),
			r.FormValue("priority"),
			r.FormValue("deadline"),
		)
	})
	if err != nil {
		s.fail(w, err)

		return
	}

	writeOK(w)
}

func (s *Server) handleTodoToggle(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	index := pathIndex(r)

	_, err := s.store.Update(userkey.Resolve(sess.Email), func(doc *document.UserDocument) error {
		notes.ToggleTodo(doc, index)

		return nil
	})
	if err != nil {
		s.fail(w, err)

		return
	}

	writeOK(w)
}

func (s *Server) handleTodoDelete(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	index := pathIndex(r)

	_, err := s.store.Update(userkey.Resolve(sess.Email), func(doc *document.UserDocument) error {
		notes.DeleteTodo(doc, index)

		return nil
	})
	if err != nil {
		s.fail(w, err)

		return
	}

	writeOK(w)
}
