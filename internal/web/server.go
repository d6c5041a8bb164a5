// Package web is the HTTP adapter over the domain modules.
//
// Handlers stay thin: resolve the session's user key, run one store
// Update/Load with the relevant module transform, respond. All domain
// rules live in the modules; this package only maps them onto requests and
// status codes.
package web

import (
	"log"
	"net/http"

	"studyhub/internal/accounts"
	"studyhub/internal/advisor"
	"studyhub/internal/docs"
	"studyhub/internal/store"
)

// Server wires the domain modules behind an http.Handler.
type Server struct {
	log      *log.Logger
	store    *store.Store
	accounts *accounts.Registry
	files    *docs.Files
	advisor  *advisor.Client
	sessions *sessionStore
	mux      *http.ServeMux
}

// New assembles the server. All collaborators are injected; the server
// owns only the session table and the route table.
func New(
	logger *log.Logger,
	st *store.Store,
	registry *accounts.Registry,
	files *docs.Files,
	adv *advisor.Client,
) *Server {
	s := &Server{
		log:      logger,
		store:    st,
		accounts: registry,
		files:    files,
		advisor:  adv,
		sessions: newSessionStore(),
		mux:      http.NewServeMux(),
	}

	s.routes()

	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /register", s.handleRegister)
	s.mux.HandleFunc("POST /login", s.handleLogin)
	s.mux.HandleFunc("POST /logout", s.handleLogout)
	s.mux.HandleFunc("GET /check-login", s.handleCheckLogin)
	s.mux.HandleFunc("GET /dashboard", s.handleDashboard)

	s.mux.HandleFunc("GET /todo", s.handleTodoList)
	s.mux.HandleFunc("POST /todo", s.handleTodoAdd)
	s.mux.HandleFunc("POST /todo/toggle/{index}", s.handleTodoToggle)
	s.mux.HandleFunc("POST /todo/delete/{index}", s.handleTodoDelete)

	s.mux.HandleFunc("GET /notes", s.handleNotesList)
	s.mux.HandleFunc("POST /notes", s.handleNotesAdd)
	s.mux.HandleFunc("POST /notes/edit/{index}", s.handleNotesEdit)
	s.mux.HandleFunc("POST /notes/delete/{index}", s.handleNotesDelete)

	s.mux.HandleFunc("GET /habits", s.handleHabitsList)
	s.mux.HandleFunc("POST /habits", s.handleHabitsAdd)
	s.mux.HandleFunc("POST /habit/done/{index}", s.handleHabitDone)
	s.mux.HandleFunc("POST /habit/delete/{index}", s.handleHabitDelete)

	s.mux.HandleFunc("GET /attendance", s.handleAttendanceList)
	s.mux.HandleFunc("POST /attendance", s.handleAttendanceAdd)
	s.mux.HandleFunc("POST /attendance/edit/{index}", s.handleAttendanceEdit)
	s.mux.HandleFunc("POST /attendance/delete/{index}", s.handleAttendanceDelete)

	s.mux.HandleFunc("GET /budget", s.handleBudget)
	s.mux.HandleFunc("POST /budget", s.handleBudgetPost)
	s.mux.HandleFunc("GET /budget/advice", s.handleBudgetAdvice)

	s.mux.HandleFunc("GET /documents", s.handleDocumentsList)
	s.mux.HandleFunc("POST /documents", s.handleDocumentsUpload)
	s.mux.HandleFunc("POST /documents/delete", s.handleDocumentsDelete)
	s.mux.HandleFunc("GET /uploads/{path...}", s.handleUploadedFile)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
