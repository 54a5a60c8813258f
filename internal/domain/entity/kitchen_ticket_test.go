package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/enum"
	"github.com/francoluca35/comandas-multiples-sub008/pkg/apperror"
)

func newOccupiedOrder(t *testing.T) *Order {
	t.Helper()
	order := &Order{
		Channel: enum.ChannelTakeaway,
		State:   enum.OrderStateFree,
	}
	require.NoError(t, order.AttachItems([]OrderItem{
		newTestItem("Hamburguesa", 2, 1200),
	}))
	return order
}

func TestNewKitchenTicketSnapshotsItems(t *testing.T) {
	order := newOccupiedOrder(t)

	ticket, err := NewKitchenTicket(order)
	require.NoError(t, err)

	assert.Equal(t, order.ID, ticket.OrderID)
	assert.Equal(t, enum.TicketStatePending, ticket.State)

	items, err := ticket.ItemSummary()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Hamburguesa", items[0].ProductName)
	assert.Equal(t, 2, items[0].Quantity)

	// Later order edits must not leak into the frozen snapshot
	require.NoError(t, order.RemoveItem(order.Items[0].ID))
	items, err = ticket.ItemSummary()
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestNewKitchenTicketRequiresItems(t *testing.T) {
	order := &Order{Channel: enum.ChannelTakeaway, State: enum.OrderStateOccupied}

	_, err := NewKitchenTicket(order)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestKitchenTicketLifecycle(t *testing.T) {
	ticket := &KitchenTicket{State: enum.TicketStatePending}

	require.NoError(t, ticket.StartPreparation())
	assert.Equal(t, enum.TicketStateInPreparation, ticket.State)

	require.NoError(t, ticket.MarkReady())
	assert.Equal(t, enum.TicketStateReady, ticket.State)
}

func TestKitchenTicketCannotSkipPreparation(t *testing.T) {
	ticket := &KitchenTicket{State: enum.TicketStatePending}

	err := ticket.MarkReady()
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))
}

func TestKitchenTicketReadyIsTerminal(t *testing.T) {
	ticket := &KitchenTicket{State: enum.TicketStateReady}

	assert.Error(t, ticket.StartPreparation())
	assert.Error(t, ticket.MarkReady())
}
