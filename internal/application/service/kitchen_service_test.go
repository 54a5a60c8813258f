package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/enum"
	"github.com/francoluca35/comandas-multiples-sub008/pkg/apperror"
)

type kitchenFixture struct {
	orders     *OrderService
	kitchen    *KitchenService
	orderRepo  *fakeOrderRepo
	ticketRepo *fakeTicketRepo
	notifRepo  *fakeNotificationRepo
}

func newKitchenFixture() *kitchenFixture {
	orderRepo := newFakeOrderRepo()
	ticketRepo := newFakeTicketRepo()
	notifRepo := newFakeNotificationRepo()
	notifications := NewNotificationService(notifRepo, 8)
	return &kitchenFixture{
		orders:     NewOrderService(orderRepo, ticketRepo, notifications, 5),
		kitchen:    NewKitchenService(ticketRepo, orderRepo, notifications, 5),
		orderRepo:  orderRepo,
		ticketRepo: ticketRepo,
		notifRepo:  notifRepo,
	}
}

// seedTicket opens an order with items so a pending ticket exists
func (f *kitchenFixture) seedTicket(t *testing.T) (orderID, ticketID uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	order, err := f.orders.CreateOrder(ctx, &CreateOrderInput{Channel: enum.ChannelTakeaway})
	require.NoError(t, err)
	_, err = f.orders.AttachItems(ctx, order.ID, testItems())
	require.NoError(t, err)
	ticket, err := f.ticketRepo.GetByOrderID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, ticket)
	return order.ID, ticket.ID
}

func TestStartPreparationMirrorsOrderState(t *testing.T) {
	f := newKitchenFixture()
	ctx := context.Background()
	orderID, ticketID := f.seedTicket(t)

	ticket, err := f.kitchen.StartPreparation(ctx, ticketID)
	require.NoError(t, err)
	assert.Equal(t, enum.TicketStateInPreparation, ticket.State)

	order, err := f.orderRepo.GetByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStateInPreparation, order.State)
}

func TestMarkReadyMirrorsOrderAndPublishesEvent(t *testing.T) {
	f := newKitchenFixture()
	ctx := context.Background()
	orderID, ticketID := f.seedTicket(t)

	_, err := f.kitchen.StartPreparation(ctx, ticketID)
	require.NoError(t, err)
	ticket, err := f.kitchen.MarkReady(ctx, ticketID)
	require.NoError(t, err)
	assert.Equal(t, enum.TicketStateReady, ticket.State)

	order, err := f.orderRepo.GetByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStateServed, order.State)

	// NewOrder from the attach plus OrderReady from the kitchen
	require.Len(t, f.notifRepo.events, 2)
	assert.Equal(t, enum.NotificationOrderReady, f.notifRepo.events[1].Type)
	assert.Equal(t, orderID, f.notifRepo.events[1].OrderID)
}

func TestStartPreparationTwice(t *testing.T) {
	f := newKitchenFixture()
	ctx := context.Background()
	_, ticketID := f.seedTicket(t)

	_, err := f.kitchen.StartPreparation(ctx, ticketID)
	require.NoError(t, err)

	_, err = f.kitchen.StartPreparation(ctx, ticketID)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))
}

func TestMarkReadyBeforeStart(t *testing.T) {
	f := newKitchenFixture()
	_, ticketID := f.seedTicket(t)

	_, err := f.kitchen.MarkReady(context.Background(), ticketID)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))
}

func TestMirrorDoesNotMovePaidOrderBackwards(t *testing.T) {
	f := newKitchenFixture()
	ctx := context.Background()
	orderID, ticketID := f.seedTicket(t)
	_, err := f.kitchen.StartPreparation(ctx, ticketID)
	require.NoError(t, err)

	// Order gets finalized while the kitchen is still cooking
	f.orderRepo.mu.Lock()
	f.orderRepo.orders[orderID].State = enum.OrderStatePaid
	f.orderRepo.mu.Unlock()

	ticket, err := f.kitchen.MarkReady(ctx, ticketID)
	require.NoError(t, err)
	assert.Equal(t, enum.TicketStateReady, ticket.State)

	order, err := f.orderRepo.GetByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatePaid, order.State)
}

func TestListOpenTicketsExcludesReady(t *testing.T) {
	f := newKitchenFixture()
	ctx := context.Background()
	_, ticketA := f.seedTicket(t)
	_, ticketB := f.seedTicket(t)

	_, err := f.kitchen.StartPreparation(ctx, ticketA)
	require.NoError(t, err)
	_, err = f.kitchen.MarkReady(ctx, ticketA)
	require.NoError(t, err)

	open, err := f.kitchen.ListOpenTickets(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, ticketB, open[0].ID)
}

func TestGetTicketNotFound(t *testing.T) {
	f := newKitchenFixture()

	_, err := f.kitchen.GetTicket(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}
