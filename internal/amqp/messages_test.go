package amqp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseEventMessageJSON(t *testing.T) {
	msg := NewExpenseEventMessage(EventExpenseCreated, 42, 7)
	assert.WithinDuration(t, time.Now(), msg.Timestamp, time.Second)

	data, err := msg.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"event":"expense.created"`)
	assert.Contains(t, string(data), `"expense_id":42`)

	decoded, err := ExpenseEventMessageFromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, EventExpenseCreated, decoded.Event)
	assert.Equal(t, int64(42), decoded.ExpenseID)
	assert.Equal(t, int64(7), decoded.UserID)
}

func TestExpenseEventMessageFromInvalidJSON(t *testing.T) {
	_, err := ExpenseEventMessageFromJSON([]byte("{not json"))
	assert.Error(t, err)
}
