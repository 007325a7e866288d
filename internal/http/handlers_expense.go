package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/airboeing1212/expense-tracker-api/internal/core"
	"github.com/airboeing1212/expense-tracker-api/internal/log"
)

type createExpenseRequest struct {
	Title       string   `json:"title"`
	Amount      *float64 `json:"amount"`
	Category    string   `json:"category"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
}

// updateExpenseRequest distinguishes absent fields from explicit values;
// notably an explicit empty description is a valid update.
type updateExpenseRequest struct {
	Title       *string  `json:"title"`
	Amount      *float64 `json:"amount"`
	Category    *string  `json:"category"`
	Date        *string  `json:"date"`
	Description *string  `json:"description"`
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, r, core.ErrMissingToken)
		return
	}

	query := r.URL.Query()
	name := query.Get("filter")
	if name == "" {
		name = core.FilterAll
	}

	filter, err := core.NewListFilter(name, query.Get("start_date"), query.Get("end_date"), time.Now().UTC())
	if err != nil {
		writeError(w, r, err)
		return
	}

	expenses, err := s.expenses.List(r.Context(), user.ID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.logger.DebugContext(r.Context(), "Expenses listed",
		log.FieldOperation, log.OpList,
		log.FieldUserID, user.ID,
		log.FieldFilter, name,
		"count", len(expenses))

	writeJSON(w, http.StatusOK, map[string]any{
		"expenses": expenses,
		"count":    len(expenses),
	})
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, r, core.ErrMissingToken)
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	expense, err := s.expenses.Get(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, expense)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, r, core.ErrMissingToken)
		return
	}

	var req createExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if req.Title == "" || req.Amount == nil || req.Category == "" {
		writeError(w, r, fmt.Errorf("%w: title, amount and category", errMissingFields))
		return
	}

	category, err := core.ParseCategory(req.Category)
	if err != nil {
		writeError(w, r, err)
		return
	}

	date := time.Now().UTC()
	if req.Date != "" {
		if date, err = core.ParseTimestamp(req.Date); err != nil {
			writeError(w, r, err)
			return
		}
	}

	expense, err := s.expenses.Create(r.Context(), user.ID, core.Expense{
		Title:       req.Title,
		Amount:      *req.Amount,
		Category:    category,
		Date:        date,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "expense created successfully",
		"expense": expense,
	})
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, r, core.ErrMissingToken)
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req updateExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	upd := core.ExpenseUpdate{
		Title:       req.Title,
		Amount:      req.Amount,
		Description: req.Description,
	}

	if req.Category != nil {
		category, err := core.ParseCategory(*req.Category)
		if err != nil {
			writeError(w, r, err)
			return
		}
		upd.Category = &category
	}

	if req.Date != nil {
		date, err := core.ParseTimestamp(*req.Date)
		if err != nil {
			writeError(w, r, err)
			return
		}
		upd.Date = &date
	}

	expense, err := s.expenses.Update(r.Context(), user.ID, id, upd)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "expense updated successfully",
		"expense": expense,
	})
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, r, core.ErrMissingToken)
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.expenses.Delete(r.Context(), user.ID, id); err != nil {
		writeError(w, r, err)
		return
	}

	s.logger.InfoContext(r.Context(), "Expense deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldUserID, user.ID,
		log.FieldExpenseID, id)

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "expense deleted successfully",
	})
}
