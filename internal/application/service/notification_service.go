package service

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/entity"
	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/enum"
	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/repository"
	"github.com/francoluca35/comandas-multiples-sub008/pkg/apperror"
)

// SubscriptionFilter restricts which events a subscriber receives
type SubscriptionFilter struct {
	Types   []enum.NotificationType
	Channel *enum.Channel
}

func (f *SubscriptionFilter) matches(event *entity.NotificationEvent) bool {
	if f.Channel != nil && event.Channel != *f.Channel {
		return false
	}
	if len(f.Types) == 0 {
		return true
	}
	for _, t := range f.Types {
		if event.Type == t {
			return true
		}
	}
	return false
}

// Subscription is a live, push-based event stream. The caller owns its
// lifecycle and must call Close when done. If the subscriber falls behind and
// the buffer overflows, Gap() fires and the stream stops: delivery is
// at-least-once, not gap-free, and the terminal recovers via PollUnread.
type Subscription struct {
	id     uuid.UUID
	filter SubscriptionFilter
	events chan *entity.NotificationEvent
	gap    chan struct{}
	once   sync.Once
	hub    *NotificationService
}

// Events returns the push stream
func (s *Subscription) Events() <-chan *entity.NotificationEvent {
	return s.events
}

// Gap fires when push delivery overflowed and events were dropped
func (s *Subscription) Gap() <-chan struct{} {
	return s.gap
}

// Close detaches the subscription from the hub
func (s *Subscription) Close() {
	s.hub.unsubscribe(s.id)
}

func (s *Subscription) markGap() {
	s.once.Do(func() { close(s.gap) })
}

// NotificationService persists events and fans them out to subscribed
// terminals. Publishing never blocks on a slow consumer.
type NotificationService struct {
	notificationRepo repository.NotificationRepository

	mu          sync.RWMutex
	subscribers map[uuid.UUID]*Subscription
	buffer      int
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo repository.NotificationRepository, buffer int) *NotificationService {
	if buffer <= 0 {
		buffer = 64
	}
	return &NotificationService{
		notificationRepo: notificationRepo,
		subscribers:      make(map[uuid.UUID]*Subscription),
		buffer:           buffer,
	}
}

// EventPayload is the denormalized summary carried by an event
type EventPayload struct {
	OrderID   uuid.UUID    `json:"order_id"`
	Channel   enum.Channel `json:"channel"`
	Total     float64      `json:"total"`
	ItemCount int          `json:"item_count"`
}

// Publish appends the event record and pushes it to matching subscribers.
// The record is the source of truth; push failures only delay alerts.
func (s *NotificationService) Publish(ctx context.Context, eventType enum.NotificationType, order *entity.Order, ticketID *uuid.UUID) (*entity.NotificationEvent, error) {
	payload, err := json.Marshal(EventPayload{
		OrderID:   order.ID,
		Channel:   order.Channel,
		Total:     float64(order.Total) / 100,
		ItemCount: len(order.Items),
	})
	if err != nil {
		return nil, err
	}

	event := &entity.NotificationEvent{
		Type:      eventType,
		Channel:   order.Channel,
		OrderID:   order.ID,
		TicketID:  ticketID,
		Payload:   payload,
		CreatedAt: time.Now(),
	}
	if err := s.notificationRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.fanOut(event)
	return event, nil
}

func (s *NotificationService) fanOut(event *entity.NotificationEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sub := range s.subscribers {
		if !sub.filter.matches(event) {
			continue
		}
		select {
		case sub.events <- event:
		default:
			// Subscriber fell behind; signal the gap instead of blocking the producer
			sub.markGap()
			log.Printf("notification subscriber %s overflowed, marked gap", sub.id)
		}
	}
}

// Subscribe attaches a live stream matching the filter
func (s *NotificationService) Subscribe(filter SubscriptionFilter) *Subscription {
	sub := &Subscription{
		id:     uuid.New(),
		filter: filter,
		events: make(chan *entity.NotificationEvent, s.buffer),
		gap:    make(chan struct{}),
		hub:    s,
	}

	s.mu.Lock()
	s.subscribers[sub.id] = sub
	s.mu.Unlock()

	return sub
}

func (s *NotificationService) unsubscribe(id uuid.UUID) {
	s.mu.Lock()
	delete(s.subscribers, id)
	s.mu.Unlock()
}

// Acknowledge marks an event read for one terminal; acknowledging twice is a no-op
func (s *NotificationService) Acknowledge(ctx context.Context, eventID, terminalID uuid.UUID) error {
	event, err := s.notificationRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event == nil {
		return apperror.NewNotFoundError("Notification event")
	}
	return s.notificationRepo.Acknowledge(ctx, eventID, terminalID)
}

// PollUnread is the recovery path for terminals that missed push delivery
func (s *NotificationService) PollUnread(ctx context.Context, terminalID uuid.UUID, since time.Time, types []enum.NotificationType) ([]entity.NotificationEvent, error) {
	return s.notificationRepo.ListUnread(ctx, terminalID, since, types)
}
