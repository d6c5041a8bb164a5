package web

import (
	"net/http"
	"time"

	"studyhub/internal/document"
	"studyhub/internal/habit"
	"studyhub/internal/userkey"
)

func (s *Server) handleHabitsList(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	doc, err := s.store.Load(userkey.Resolve(sess.Email))
	if err != nil {
		s.fail(w, err)

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"habits": doc.Habits})
}

func (s *Server) handleHabitsAdd(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	_, err := s.store.Update(userkey.Resolve(sess.Email), func(doc *document.UserDocument) error {
		return habit.Add(doc, r.FormValue("habit_name"))
	})
	if err != nil {
		s.fail(w, err)

		return
	}

	writeOK(w)
}

func (s *Server) handleHabitDone(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	index := pathIndex(r)
	today := time.Now()

	_, err := s.store.Update(userkey.Resolve(sess.Email), func(doc *document.UserDocument) error {
		habit.MarkDone(doc, index, today)

		return nil
	})
	if err != nil {
		s.fail(w, err)

		return
	}

	writeOK(w)
}

func (s *Server) handleHabitDelete(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	index := pathIndex(r)

	_, err := s.store.Update(userkey.Resolve(sess.Email), func(doc *document.UserDocument) error {
		habit.Delete(doc, index)

		return nil
	})
	if err != nil {
		s.fail(w, err)

		return
	}

	writeOK(w)
}
