package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/entity"
	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/enum"
	"github.com/francoluca35/comandas-multiples-sub008/pkg/apperror"
)

func occupiedOrderForNotify(t *testing.T) *entity.Order {
	t.Helper()
	order := &entity.Order{
		ID:       uuid.New(),
		Channel:  enum.ChannelSalon,
		Location: enum.LocationIndoor,
		State:    enum.OrderStateFree,
	}
	require.NoError(t, order.AttachItems([]entity.OrderItem{{
		ID:          uuid.New(),
		ProductID:   uuid.New(),
		ProductName: "Locro",
		Quantity:    1,
		UnitPrice:   2200,
		Subtotal:    2200,
	}}))
	return order
}

func TestPublishPersistsAndPushes(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo, 8)
	order := occupiedOrderForNotify(t)

	sub := svc.Subscribe(SubscriptionFilter{})
	defer sub.Close()

	event, err := svc.Publish(context.Background(), enum.NotificationNewOrder, order, nil)
	require.NoError(t, err)
	require.Len(t, repo.events, 1)

	select {
	case got := <-sub.Events():
		assert.Equal(t, event.ID, got.ID)
		assert.Equal(t, enum.NotificationNewOrder, got.Type)

		var payload EventPayload
		require.NoError(t, json.Unmarshal(got.Payload, &payload))
		assert.Equal(t, order.ID, payload.OrderID)
		assert.Equal(t, 22.00, payload.Total)
		assert.Equal(t, 1, payload.ItemCount)
	case <-time.After(time.Second):
		t.Fatal("expected a pushed event")
	}
}

func TestSubscriptionFilterByTypeAndChannel(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo, 8)
	order := occupiedOrderForNotify(t)

	takeaway := enum.ChannelTakeaway
	filtered := svc.Subscribe(SubscriptionFilter{
		Types:   []enum.NotificationType{enum.NotificationOrderReady},
		Channel: &takeaway,
	})
	defer filtered.Close()

	_, err := svc.Publish(context.Background(), enum.NotificationNewOrder, order, nil)
	require.NoError(t, err)

	select {
	case <-filtered.Events():
		t.Fatal("salon NewOrder must not reach a takeaway OrderReady subscriber")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestOverflowMarksGapWithoutBlockingPublisher(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo, 1)
	order := occupiedOrderForNotify(t)

	sub := svc.Subscribe(SubscriptionFilter{})
	defer sub.Close()

	// Nobody drains the subscription; the second publish overflows the buffer
	_, err := svc.Publish(context.Background(), enum.NotificationNewOrder, order, nil)
	require.NoError(t, err)
	_, err = svc.Publish(context.Background(), enum.NotificationNewOrder, order, nil)
	require.NoError(t, err)

	select {
	case <-sub.Gap():
	case <-time.After(time.Second):
		t.Fatal("expected the gap signal after overflow")
	}

	// Both events were persisted regardless of push delivery
	assert.Len(t, repo.events, 2)
}

func TestAcknowledgeIsIdempotent(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo, 8)
	order := occupiedOrderForNotify(t)
	terminalID := uuid.New()

	event, err := svc.Publish(context.Background(), enum.NotificationNewOrder, order, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Acknowledge(context.Background(), event.ID, terminalID))
	require.NoError(t, svc.Acknowledge(context.Background(), event.ID, terminalID))

	unread, err := svc.PollUnread(context.Background(), terminalID, time.Now().Add(-time.Hour), nil)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestAcknowledgeUnknownEvent(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo, 8)

	err := svc.Acknowledge(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestPollUnreadReturnsOnlyUnacked(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo, 8)
	order := occupiedOrderForNotify(t)
	terminalID := uuid.New()

	first, err := svc.Publish(context.Background(), enum.NotificationNewOrder, order, nil)
	require.NoError(t, err)
	second, err := svc.Publish(context.Background(), enum.NotificationOrderReady, order, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Acknowledge(context.Background(), first.ID, terminalID))

	unread, err := svc.PollUnread(context.Background(), terminalID, time.Now().Add(-time.Hour), nil)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, second.ID, unread[0].ID)

	// Another terminal still sees both
	other, err := svc.PollUnread(context.Background(), uuid.New(), time.Now().Add(-time.Hour), nil)
	require.NoError(t, err)
	assert.Len(t, other, 2)
}

func TestPollUnreadFiltersByType(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo, 8)
	order := occupiedOrderForNotify(t)

	_, err := svc.Publish(context.Background(), enum.NotificationNewOrder, order, nil)
	require.NoError(t, err)
	ready, err := svc.Publish(context.Background(), enum.NotificationOrderReady, order, nil)
	require.NoError(t, err)

	unread, err := svc.PollUnread(context.Background(), uuid.New(), time.Now().Add(-time.Hour),
		[]enum.NotificationType{enum.NotificationOrderReady})
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, ready.ID, unread[0].ID)
}
