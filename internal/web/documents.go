package web

import (
	"net/http"

	"studyhub/internal/docs"
	"studyhub/internal/document"
	"studyhub/internal/userkey"
)

// maxUploadBytes caps document uploads at 16 MiB.
const maxUploadBytes = 16 << 20

func (s *Server) handleDocumentsList(w http.ResponseWriter, r *http.Request) {
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
		"documents":   doc.Documents,
		"by_category": docs.GroupByCategory(doc),
	})
}

func (s *Server) handleDocumentsUpload(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		s.fail(w, docs.ErrBlankFilename)

		return
	}

	defer func() { _ = file.Close() }()

	key := userkey.Resolve(sess.Email)

	// Store the bytes first; only persist the metadata once they're on
	// disk. A crash between the two leaves an orphan file, never a
	// dangling reference.
	relPath, err := s.files.Store(key, header.Filename, file)
	if err != nil {
		s.fail(w, err)

		return
	}

	name := docs.SanitizeFilename(header.Filename)
	category := r.FormValue("category")

	_, err = s.store.Update(key, func(doc *document.UserDocument) error {
		docs.Add(doc, name, relPath, category)

		return nil
	})
	if err != nil {
		s.fail(w, err)

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "path": relPath})
}

func (s *Server) handleDocumentsDelete(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	relPath := r.FormValue("path")

	err := s.files.Remove(relPath)
	if err != nil {
		s.fail(w, err)

		return
	}

	_, err = s.store.Update(userkey.Resolve(sess.Email), func(doc *document.UserDocument) error {
		docs.DeleteByPath(doc, relPath)

		return nil
	})
	if err != nil {
		s.fail(w, err)

		return
	}

	writeOK(w)
}

func (s *Server) handleUploadedFile(w http.ResponseWriter, r *http.Request) {
	_, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	full, err := s.files.Resolve(r.PathValue("path"))
	if err != nil {
		http.NotFound(w, r)

		return
	}

	http.ServeFile(w, r, full)
}
