package web

import (
	"net/http"

	"studyhub/internal/document"
	"studyhub/internal/notes"
	"studyhub/internal/userkey"
)

func (s *Server) handleNotesList(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	doc, err := s.store.Load(userkey.Resolve(sess.Email))
	if err != nil {
		s.fail(w, err)

		return
	}

	query := r.URL.Query().Get("search")
	tag := r.URL.Query().Get("tag")

	writeJSON(w, http.StatusOK, map[string]any{
		"notes":    notes.Filter(doc, query, tag),
		"all_tags": notes.AllTags(doc),
	})
}

func (s *Server) handleNotesAdd(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	tags := notes.ParseTags(r.FormValue("tags"))

	_, err := s.store.Update(userkey.Resolve(sess.Email), func(doc *document.UserDocument) error {
		return notes.AddNote(doc, r.FormValue("title"), r.FormValue("content"), tags)
	})
	if err != nil {
		s.fail(w, err)

		return
	}

	writeOK(w)
}

func (s *Server) handleNotesEdit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	index := pathIndex(r)
	tags := notes.ParseTags(r.FormValue("tags"))

	_, err := s.store.Update(userkey.Resolve(sess.Email), func(doc *document.UserDocument) error {
		notes.EditNote(doc, index, r.FormValue("title"), r.FormValue("content"), tags)

		return nil
	})
	if err != nil {
		s.fail(w, err)

		return
	}

	writeOK(w)
}

func (s *Server) handleNotesDelete(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	index := pathIndex(r)

	_, err := s.store.Update(userkey.Resolve(sess.Email), func(doc *document.UserDocument) error {
		notes.DeleteNote(doc, index)

		return nil
	})
	if err != nil {
		s.fail(w, err)

		return
	}

	writeOK(w)
}
