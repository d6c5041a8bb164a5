package web

import (
	"fmt"
	"net/http"
	"strconv"

	"studyhub/internal/attendance"
	"studyhub/internal/document"
	"studyhub/internal/userkey"
)

// attendanceCounts parses the three numeric form fields of an attendance
// request. Non-numeric input is a validation failure naming the field.
func attendanceCounts(r *http.Request) (total, done, attended int, err error) {
	total, err = formInt(r, "total_classes")
	if err != nil {
		return 0, 0, 0, err
	}

	done, err = formInt(r, "classes_done")
	if err != nil {
		return 0, 0, 0, err
	}

	attended, err = formInt(r, "attended_classes")
	if err != nil {
		return 0, 0, 0, err
	}

	return total, done, attended, nil
}

func formInt(r *http.Request, field string) (int, error) {
	value, err := strconv.Atoi(r.FormValue(field))
	if err != nil {
		return 0, fmt.Errorf("%w: %s", attendance.ErrInvalidValues, field)
	}

	return value, nil
}

func (s *Server) handleAttendanceList(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	doc, err := s.store.Load(userkey.Resolve(sess.Email))
	if err != nil {
		s.fail(w, err)

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"subjects": doc.Attendance})
}

func (s *Server) handleAttendanceAdd(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	total, done, attended, err := attendanceCounts(r)
	if err != nil {
		s.fail(w, err)

		return
	}

	_, err = s.store.Update(userkey.Resolve(sess.Email), func(doc *document.UserDocument) error {
		return attendance.AddSubject(doc, r.FormValue("subject"), total, done, attended)
	})
	if err != nil {
		s.fail(w, err)

		return
	}

	writeOK(w)
}

func (s *Server) handleAttendanceEdit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	index := pathIndex(r)

	total, done, attended, err := attendanceCounts(r)
	if err != nil {
		s.fail(w, err)

		return
	}

	_, err = s.store.Update(userkey.Resolve(sess.Email), func(doc *document.UserDocument) error {
		return attendance.EditSubject(doc, index, total, done, attended)
	})
	if err != nil {
		s.fail(w, err)

		return
	}

	writeOK(w)
}

func (s *Server) handleAttendanceDelete(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	index := pathIndex(r)

	_, err := s.store.Update(userkey.Resolve(sess.Email), func(doc *document.UserDocument) error {
		attendance.DeleteSubject(doc, index)

		return nil
	})
	if err != nil {
		s.fail(w, err)

		return
	}

	writeOK(w)
}
