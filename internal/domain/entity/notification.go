package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/enum"
)

// NotificationEvent is the durable record behind the at-least-once fan-out.
// Push delivery is best effort; the row is what terminals reconcile against
// when they poll after a gap.
type NotificationEvent struct {
	ID        uuid.UUID             `gorm:"type:uuid;primary_key" json:"id"`
	Type      enum.NotificationType `gorm:"size:30;not null;index" json:"type"`
	Channel   enum.Channel          `gorm:"size:20;not null;index" json:"channel"`
	OrderID   uuid.UUID             `gorm:"type:uuid;not null;index" json:"order_id"`
	TicketID  *uuid.UUID            `gorm:"type:uuid;index" json:"ticket_id,omitempty"`
	Payload   json.RawMessage       `gorm:"type:jsonb" json:"payload,omitempty"`
	CreatedAt time.Time             `gorm:"index" json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new event
func (n *NotificationEvent) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the NotificationEvent model
func (NotificationEvent) TableName() string {
	return "notification_events"
}

// NotificationAck marks an event as read by one terminal. Each terminal
// consumes independently; acknowledging twice is a no-op.
type NotificationAck struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	EventID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_acks_event_terminal" json:"event_id"`
	TerminalID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_acks_event_terminal" json:"terminal_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new ack
func (a *NotificationAck) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the NotificationAck model
func (NotificationAck) TableName() string {
	return "notification_acks"
}
