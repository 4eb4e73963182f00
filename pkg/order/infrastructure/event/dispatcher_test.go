package event

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderservice/pkg/order/domain/model"
)

func TestLogDispatcher(t *testing.T) {
	logger, hook := test.NewNullLogger()
	dispatcher := NewLogDispatcher(logger)

	event := model.OrderCreated{OrderID: uuid.New(), TotalCents: 3000, ItemCount: 1}
	require.NoError(t, dispatcher.Dispatch(event))

	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, "domain event", entry.Message)
	assert.Equal(t, "OrderCreated", entry.Data["type"])
	assert.Equal(t, event, entry.Data["payload"])
}
