package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"studyhub/internal/accounts"
	"studyhub/internal/attendance"
	"studyhub/internal/docs"
	"studyhub/internal/habit"
	"studyhub/internal/ledger"
	"studyhub/internal/notes"
	"studyhub/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(payload)
}

func writeOK(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// validationErrs are typed rejections reported to the caller as 400 with
// the failing field in the message. Everything else that reaches fail is a
// server-side problem.
var validationErrs = []error{ //nolint:gochecknoglobals // package-level constant
	ledger.ErrInvalidAmount,
	attendance.ErrInvalidValues,
	attendance.ErrBlankSubject,
	habit.ErrBlankName,
	notes.ErrBlankTask,
	notes.ErrEmptyNote,
	docs.ErrFileType,
	docs.ErrBlankFilename,
	accounts.ErrMissingFields,
	accounts.ErrUserExists,
}

// fail maps a domain error onto a response. Validation errors become 400,
// corrupt documents and everything unexpected become 500 (logged).
func (s *Server) fail(w http.ResponseWriter, err error) {
	for _, sentinel := range validationErrs {
		if errors.Is(err, sentinel) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"message": err.Error(),
			})

			return
		}
	}

	if errors.Is(err, store.ErrCorruptDocument) {
		s.log.Printf("corrupt document: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": "stored data is corrupt and needs operator attention",
		})

		return
	}

	s.log.Printf("request failed: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]any{
		"success": false,
		"message": "internal error",
	})
}

// pathIndex parses the {index} path segment. Malformed values map to -1,
// which every index-addressed module operation treats as a bounds-safe
// no-op, matching the forgiving behavior of index-based UI actions.
func pathIndex(r *http.Request) int {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		return -1
	}

	return index
}
