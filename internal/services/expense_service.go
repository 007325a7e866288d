package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/airboeing1212/expense-tracker-api/internal/amqp"
	"github.com/airboeing1212/expense-tracker-api/internal/core"
	"github.com/airboeing1212/expense-tracker-api/internal/log"
	"github.com/airboeing1212/expense-tracker-api/internal/storage"
)

// EventPublisher publishes expense lifecycle events. Satisfied by
// *amqp.Client; nil disables publishing.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, event string, expenseID, userID int64) error
}

// ExpenseService owns expense business rules: validation before persistence
// and event publishing after successful writes. Publish failures are logged,
// never surfaced; the write already succeeded locally.
type ExpenseService struct {
	storage   *storage.SQLiteRepository
	publisher EventPublisher
	logger    *log.Logger
}

func NewExpenseService(storage *storage.SQLiteRepository, publisher EventPublisher, logger *log.Logger) *ExpenseService {
	return &ExpenseService{
		storage:   storage,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentExpense),
	}
}

// List returns the owner's expenses within the filter bounds, newest first.
func (s *ExpenseService) List(ctx context.Context, ownerID int64, filter core.ListFilter) ([]core.Expense, error) {
	expenses, err := s.storage.ListExpenses(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// Get returns one expense owned by ownerID.
func (s *ExpenseService) Get(ctx context.Context, ownerID, id int64) (core.Expense, error) {
	return s.storage.GetExpense(ctx, ownerID, id)
}

// Create validates and persists a new expense, then publishes a created event.
func (s *ExpenseService) Create(ctx context.Context, ownerID int64, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	created, err := s.storage.CreateExpense(ctx, ownerID, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	s.publish(ctx, amqp.EventExpenseCreated, created.ID, ownerID)

	return created, nil
}

// Update applies a partial update. Supplied fields obey the same rules as
// create; absent fields keep their prior value.
func (s *ExpenseService) Update(ctx context.Context, ownerID, id int64, upd core.ExpenseUpdate) (core.Expense, error) {
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return core.Expense{}, core.ErrEmptyTitle
	}
	if upd.Amount != nil && *upd.Amount <= 0 {
		return core.Expense{}, core.ErrInvalidAmount
	}
	if upd.Category != nil {
		if err := upd.Category.Validate(); err != nil {
			return core.Expense{}, err
		}
	}

	updated, err := s.storage.UpdateExpense(ctx, ownerID, id, upd)
	if err != nil {
		return core.Expense{}, err
	}

	s.publish(ctx, amqp.EventExpenseUpdated, id, ownerID)

	return updated, nil
}

// Delete removes an expense. Hard delete, irreversible.
func (s *ExpenseService) Delete(ctx context.Context, ownerID, id int64) error {
	if err := s.storage.DeleteExpense(ctx, ownerID, id); err != nil {
		return err
	}

	s.publish(ctx, amqp.EventExpenseDeleted, id, ownerID)

	return nil
}

func (s *ExpenseService) publish(ctx context.Context, event string, expenseID, ownerID int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExpenseEvent(ctx, event, expenseID, ownerID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish expense event",
			"event", event,
			log.FieldExpenseID, expenseID,
			log.FieldUserID, ownerID,
			log.FieldError, err)
	}
}
