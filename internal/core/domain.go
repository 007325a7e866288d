package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// User is a registered account. Expenses are always scoped to one user.
	User struct {
		ID           int64     `json:"id"`
		Username     string    `json:"username"`
		Email        string    `json:"email"`
		PasswordHash string    `json:"-"`
		CreatedAt    time.Time `json:"created_at"`
	}

	// Expense is a single time-stamped expense record owned by one user.
	Expense struct {
		ID          int64     `json:"id"`
		Title       string    `json:"title"`
		Amount      float64   `json:"amount"`
		Category    Category  `json:"category"`
		Date        time.Time `json:"date"`
		Description string    `json:"description"`
		UserID      int64     `json:"user_id"`
	}

	// ExpenseUpdate carries a partial set of changes for an existing expense.
	// Nil fields are left untouched. Description is a pointer so an explicit
	// empty string can be told apart from an absent field.
	ExpenseUpdate struct {
		Title       *string
		Amount      *float64
		Category    *Category
		Date        *time.Time
		Description *string
	}
)

var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrExpenseNotFound = errors.New("expense not found")

	ErrMissingToken = errors.New("token is missing")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")

	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInvalidDateFormat = errors.New("invalid date format, use ISO format (YYYY-MM-DDTHH:MM:SS)")
)

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	return e.Category.Validate()
}

// timestampLayouts are the accepted wire formats for dates, tried in order.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp. Bare dates resolve to
// midnight UTC. Returns ErrInvalidDateFormat for anything unparsable.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDateFormat
}
