package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/airboeing1212/expense-tracker-api/internal/core"
	"github.com/airboeing1212/expense-tracker-api/internal/log"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func errorBody(message string) map[string]string {
	return map[string]string{"message": message}
}

// writeError maps a domain error onto the externally visible status code and
// a JSON message body. Unrecognized errors become a generic 500; internals
// are logged, never leaked.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldError, err)
		writeJSON(w, status, errorBody("internal server error"))
		return
	}
	writeJSON(w, status, errorBody(err.Error()))
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, core.ErrDuplicateUsername),
		errors.Is(err, core.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, core.ErrExpenseNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrMissingToken),
		errors.Is(err, core.ErrTokenExpired),
		errors.Is(err, core.ErrTokenInvalid),
		errors.Is(err, core.ErrInvalidCredentials),
		errors.Is(err, core.ErrUserNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, errInvalidBody),
		errors.Is(err, errMissingFields),
		errors.Is(err, core.ErrEmptyTitle),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidCategory),
		errors.Is(err, core.ErrInvalidDateFormat),
		errors.Is(err, core.ErrMissingDateRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// pathID extracts and parses the numeric {id} route variable.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, core.ErrExpenseNotFound
	}
	return id, nil
}

// decodeJSON decodes a request body, rejecting malformed payloads.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Join(errInvalidBody, err)
	}
	return nil
}

var (
	errInvalidBody   = errors.New("invalid request body")
	errMissingFields = errors.New("missing required fields")
)
