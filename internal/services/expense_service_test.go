package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airboeing1212/expense-tracker-api/internal/amqp"
	"github.com/airboeing1212/expense-tracker-api/internal/core"
	"github.com/airboeing1212/expense-tracker-api/internal/log"
	"github.com/airboeing1212/expense-tracker-api/internal/storage"
)

type recordedEvent struct {
	event     string
	expenseID int64
	userID    int64
}

// fakePublisher records published events and optionally fails.
type fakePublisher struct {
	events []recordedEvent
	err    error
}

func (f *fakePublisher) PublishExpenseEvent(ctx context.Context, event string, expenseID, userID int64) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, recordedEvent{event, expenseID, userID})
	return nil
}

func newTestService(t *testing.T, publisher EventPublisher) (*ExpenseService, int64) {
	t.Helper()

	logger := log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err, "failed to create test database")
	t.Cleanup(func() { repo.Close() })

	user, err := repo.CreateUser(context.Background(), "alice", "alice@example.com", "hashed")
	require.NoError(t, err)

	return NewExpenseService(repo, publisher, logger), user.ID
}

func validExpense() core.Expense {
	return core.Expense{
		Title:    "Lunch",
		Amount:   12.50,
		Category: core.CategoryLeisure,
		Date:     time.Now().UTC(),
	}
}

func TestCreateValidatesBeforePersisting(t *testing.T) {
	publisher := &fakePublisher{}
	svc, ownerID := newTestService(t, publisher)
	ctx := context.Background()

	_, err := svc.Create(ctx, ownerID, core.Expense{Amount: 10, Category: core.CategoryOthers})
	assert.ErrorIs(t, err, core.ErrEmptyTitle)

	_, err = svc.Create(ctx, ownerID, core.Expense{Title: "x", Amount: -1, Category: core.CategoryOthers})
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	_, err = svc.Create(ctx, ownerID, core.Expense{Title: "x", Amount: 1, Category: "FOOD"})
	assert.ErrorIs(t, err, core.ErrInvalidCategory)

	assert.Empty(t, publisher.events, "failed creates must not publish")

	expenses, err := svc.List(ctx, ownerID, core.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, expenses, "nothing should have been persisted")
}

func TestLifecycleEventsArePublished(t *testing.T) {
	publisher := &fakePublisher{}
	svc, ownerID := newTestService(t, publisher)
	ctx := context.Background()

	created, err := svc.Create(ctx, ownerID, validExpense())
	require.NoError(t, err)

	amount := 20.0
	_, err = svc.Update(ctx, ownerID, created.ID, core.ExpenseUpdate{Amount: &amount})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, ownerID, created.ID))

	require.Len(t, publisher.events, 3)
	assert.Equal(t, recordedEvent{amqp.EventExpenseCreated, created.ID, ownerID}, publisher.events[0])
	assert.Equal(t, recordedEvent{amqp.EventExpenseUpdated, created.ID, ownerID}, publisher.events[1])
	assert.Equal(t, recordedEvent{amqp.EventExpenseDeleted, created.ID, ownerID}, publisher.events[2])
}

func TestPublishFailureDoesNotSurfaceToCaller(t *testing.T) {
	publisher := &fakePublisher{err: errors.New("broker down")}
	svc, ownerID := newTestService(t, publisher)
	ctx := context.Background()

	created, err := svc.Create(ctx, ownerID, validExpense())
	require.NoError(t, err, "the write succeeded; a publish failure is not the caller's problem")

	got, err := svc.Get(ctx, ownerID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lunch", got.Title)
}

func TestNilPublisherDisablesEvents(t *testing.T) {
	svc, ownerID := newTestService(t, nil)

	_, err := svc.Create(context.Background(), ownerID, validExpense())
	assert.NoError(t, err)
}

func TestUpdateRejectsInvalidFields(t *testing.T) {
	svc, ownerID := newTestService(t, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, ownerID, validExpense())
	require.NoError(t, err)

	blank := "  "
	_, err = svc.Update(ctx, ownerID, created.ID, core.ExpenseUpdate{Title: &blank})
	assert.ErrorIs(t, err, core.ErrEmptyTitle)

	zero := 0.0
	_, err = svc.Update(ctx, ownerID, created.ID, core.ExpenseUpdate{Amount: &zero})
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	bad := core.Category("FOOD")
	_, err = svc.Update(ctx, ownerID, created.ID, core.ExpenseUpdate{Category: &bad})
	assert.ErrorIs(t, err, core.ErrInvalidCategory)

	got, err := svc.Get(ctx, ownerID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lunch", got.Title)
	assert.Equal(t, 12.50, got.Amount)
}
