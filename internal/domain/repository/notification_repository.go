package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/entity"
	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/enum"
)

// NotificationRepository defines the interface for notification event storage.
// Events are the durable side of the at-least-once fan-out.
type NotificationRepository interface {
	Create(ctx context.Context, event *entity.NotificationEvent) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.NotificationEvent, error)
	// Acknowledge records that a terminal consumed an event. Idempotent: a
	// second acknowledgment of the same pair is a no-op.
	Acknowledge(ctx context.Context, eventID, terminalID uuid.UUID) error
	// ListUnread returns events since a point in time that the terminal has not
	// acknowledged, oldest first, optionally filtered by type.
	ListUnread(ctx context.Context, terminalID uuid.UUID, since time.Time, types []enum.NotificationType) ([]entity.NotificationEvent, error)
}
