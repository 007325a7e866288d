package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/airboeing1212/expense-tracker-api/internal/core"
	"github.com/airboeing1212/expense-tracker-api/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists users and expenses. Every expense operation is
// scoped by owner; a row belonging to another user is indistinguishable from
// an absent one.
type SQLiteRepository struct {
	db     *sql.DB
	logger *log.Logger
}

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:     db,
		logger: logger.WithComponent(log.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable, for readiness checks.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CreateUser persists a new user. Username and email uniqueness is enforced
// here so callers get a precise conflict error rather than a raw constraint
// violation.
func (r *SQLiteRepository) CreateUser(ctx context.Context, username, email, passwordHash string) (core.User, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)", username,
	).Scan(&exists); err != nil {
		return core.User{}, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return core.User{}, core.ErrDuplicateUsername
	}

	if err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)", email,
	).Scan(&exists); err != nil {
		return core.User{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return core.User{}, core.ErrDuplicateEmail
	}

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, created_at) VALUES (?, ?, ?, ?)",
		username, email, passwordHash, time.Now().UTC(),
	)
	if err != nil {
		// UNIQUE constraints still back up the pre-checks under concurrency.
		if isUniqueViolation(err, "users.username") {
			return core.User{}, core.ErrDuplicateUsername
		}
		if isUniqueViolation(err, "users.email") {
			return core.User{}, core.ErrDuplicateEmail
		}
		return core.User{}, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("last insert id: %w", err)
	}

	r.logger.InfoContext(ctx, "User created", log.FieldUserID, id, log.FieldUsername, username)

	return r.GetUserByID(ctx, id)
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id int64) (core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, created_at FROM users WHERE id = ?", id))
}

func (r *SQLiteRepository) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?", username))
}

func (r *SQLiteRepository) scanUser(row *sql.Row) (core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrUserNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

// CreateExpense persists a new expense for the given owner and returns the
// stored record with its assigned id.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, ownerID int64, e core.Expense) (core.Expense, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO expenses (title, amount, category, date, description, user_id) VALUES (?, ?, ?, ?, ?, ?)",
		e.Title, e.Amount, string(e.Category), e.Date.UTC(), e.Description, ownerID,
	)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("last insert id: %w", err)
	}

	r.logger.InfoContext(ctx, "Expense created",
		log.FieldExpenseID, id,
		log.FieldUserID, ownerID,
		log.FieldAmount, e.Amount,
		log.FieldCategory, string(e.Category))

	return r.GetExpense(ctx, ownerID, id)
}

// GetExpense fetches one expense scoped to its owner. A row owned by someone
// else yields the same ErrExpenseNotFound as a missing row.
func (r *SQLiteRepository) GetExpense(ctx context.Context, ownerID, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, title, amount, category, date, description, user_id FROM expenses WHERE id = ? AND user_id = ?",
		id, ownerID)

	var e core.Expense
	var category string
	err := row.Scan(&e.ID, &e.Title, &e.Amount, &category, &e.Date, &e.Description, &e.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrExpenseNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("scan expense: %w", err)
	}
	e.Category = core.Category(category)
	return e, nil
}

// ListExpenses returns the owner's expenses within the filter bounds,
// newest first. Equal dates keep insertion order.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, ownerID int64, f core.ListFilter) ([]core.Expense, error) {
	query := "SELECT id, title, amount, category, date, description, user_id FROM expenses WHERE user_id = ?"
	args := []any{ownerID}

	if !f.Start.IsZero() {
		query += " AND date >= ?"
		args = append(args, f.Start.UTC())
	}
	if !f.End.IsZero() {
		query += " AND date <= ?"
		args = append(args, f.End.UTC())
	}
	query += " ORDER BY date DESC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		var e core.Expense
		var category string
		if err := rows.Scan(&e.ID, &e.Title, &e.Amount, &category, &e.Date, &e.Description, &e.UserID); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Category = core.Category(category)
		expenses = append(expenses, e)
	}

	return expenses, rows.Err()
}

// UpdateExpense applies a partial update to an owner's expense and returns
// the new state. Fields left nil in the update keep their prior value. Only
// the supplied columns are written, in a single statement, so concurrent
// updates to disjoint fields cannot overwrite each other.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, ownerID, id int64, upd core.ExpenseUpdate) (core.Expense, error) {
	var sets []string
	var args []any

	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, *upd.Amount)
	}
	if upd.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, string(*upd.Category))
	}
	if upd.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, upd.Date.UTC())
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}

	if len(sets) == 0 {
		return r.GetExpense(ctx, ownerID, id)
	}

	args = append(args, id, ownerID)
	res, err := r.db.ExecContext(ctx,
		"UPDATE expenses SET "+strings.Join(sets, ", ")+" WHERE id = ? AND user_id = ?",
		args...,
	)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return core.Expense{}, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return core.Expense{}, core.ErrExpenseNotFound
	}

	r.logger.InfoContext(ctx, "Expense updated", log.FieldExpenseID, id, log.FieldUserID, ownerID)

	return r.GetExpense(ctx, ownerID, id)
}

// DeleteExpense removes an owner's expense. Hard delete, irreversible.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, ownerID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE id = ? AND user_id = ?", id, ownerID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrExpenseNotFound
	}

	r.logger.InfoContext(ctx, "Expense deleted", log.FieldExpenseID, id, log.FieldUserID, ownerID)

	return nil
}

func isUniqueViolation(err error, constraint string) bool {
	return err != nil &&
		strings.Contains(err.Error(), "UNIQUE constraint failed") &&
		strings.Contains(err.Error(), constraint)
}
