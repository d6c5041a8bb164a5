package web

import (
	"net/http"

	"studyhub/internal/document"
	"studyhub/internal/ledger"
	"studyhub/internal/userkey"
)

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
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
		"total":           doc.Budget.Total,
		"remaining":       doc.Budget.Remaining,
		"expenses":        doc.Budget.Expenses,
		"category_totals": ledger.CategoryTotals(doc),
	})
}

// handleBudgetPost dispatches on form_type: set_budget or add_expense share
// one route.
func (s *Server) handleBudgetPost(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	key := userkey.Resolve(sess.Email)

	var err error

	switch r.FormValue("form_type") {
	case "set_budget":
		_, err = s.store.Update(key, func(doc *document.UserDocument) error {
			return ledger.SetBudget(doc, r.FormValue("total"))
		})
	case "add_expense":
		_, err = s.store.Update(key, func(doc *document.UserDocument) error {
			return ledger.AddExpense(doc,
				r.FormValue("item"),
				r.FormValue("amount"),
				r.FormValue("category"),
			)
		})
	default:
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "unknown form_type",
		})

		return
	}

	if err != nil {
		s.fail(w, err)

		return
	}

	writeOK(w)
}

// handleBudgetAdvice snapshots the ledger under the store lock, then calls
// the advisory service with the lock released so a slow external call never
// blocks other operations on the document. Advisory failures degrade to a
// placeholder string inside the client.
func (s *Server) handleBudgetAdvice(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	doc, err := s.store.Load(userkey.Resolve(sess.Email))
	if err != nil {
		s.fail(w, err)

		return
	}

	snap := ledger.Summary(doc)
	advice := s.advisor.BudgetAdvice(r.Context(), snap)

	writeJSON(w, http.StatusOK, map[string]any{
		"advice": advice,
		"budget": snap,
	})
}
