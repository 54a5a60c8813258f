package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/enum"
	"github.com/francoluca35/comandas-multiples-sub008/pkg/apperror"
)

// TicketItem is a frozen line-item snapshot shown on the kitchen display.
// Denormalized on purpose: kitchen refresh must not couple to live order edits.
type TicketItem struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
}

// KitchenTicket is the kitchen-facing projection of an order. One ticket per
// active order; it references the order but never owns it.
type KitchenTicket struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	OrderID   uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_tickets_order,where:deleted_at IS NULL" json:"order_id"`
	Channel   enum.Channel     `gorm:"size:20;not null;index" json:"channel"`
	State     enum.TicketState `gorm:"default:0;index" json:"state"`
	Items     json.RawMessage  `gorm:"type:jsonb;not null" json:"items"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new ticket
func (t *KitchenTicket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the KitchenTicket model
func (KitchenTicket) TableName() string {
	return "kitchen_tickets"
}

// NewKitchenTicket snapshots the order's current items into a fresh ticket
func NewKitchenTicket(order *Order) (*KitchenTicket, error) {
	if len(order.Items) == 0 {
		return nil, apperror.NewValidationMessage("cannot open a kitchen ticket for an order without items")
	}
	snapshot := make([]TicketItem, len(order.Items))
	for i, item := range order.Items {
		snapshot[i] = TicketItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
		}
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return nil, err
	}
	return &KitchenTicket{
		OrderID: order.ID,
		Channel: order.Channel,
		State:   enum.TicketStatePending,
		Items:   raw,
	}, nil
}

// StartPreparation moves Pending → InPreparation
func (t *KitchenTicket) StartPreparation() error {
	if t.State != enum.TicketStatePending {
		return apperror.NewInvalidStateError("ticket is not pending")
	}
	t.State = enum.TicketStateInPreparation
	return nil
}

// MarkReady moves InPreparation → Ready. Ready is terminal.
func (t *KitchenTicket) MarkReady() error {
	if t.State == enum.TicketStateReady {
		return apperror.NewInvalidStateError("ticket is already ready")
	}
	if t.State != enum.TicketStateInPreparation {
		return apperror.NewInvalidStateError("ticket has not started preparation")
	}
	t.State = enum.TicketStateReady
	return nil
}

// ItemSummary decodes the frozen snapshot
func (t *KitchenTicket) ItemSummary() ([]TicketItem, error) {
	var items []TicketItem
	if err := json.Unmarshal(t.Items, &items); err != nil {
		return nil, err
	}
	return items, nil
}
