package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/enum"
	"github.com/francoluca35/comandas-multiples-sub008/pkg/apperror"
)

// Order represents a single customer's tab: a dine-in table, takeaway or delivery.
// The total is always recomputed from line items, never edited independently.
type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Channel         enum.Channel    `gorm:"size:20;not null;index" json:"channel"`
	Location        enum.Location   `gorm:"size:20" json:"location,omitempty"`
	State           enum.OrderState `gorm:"default:0;index" json:"state"`
	CustomerName    string          `gorm:"size:150" json:"customer_name,omitempty"`
	CustomerContact string          `gorm:"size:150" json:"customer_contact,omitempty"`
	Total           int64           `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Version         int64           `gorm:"default:0" json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"last_modified"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (o Order) MarshalJSON() ([]byte, error) {
	type Alias Order
	return json.Marshal(&struct {
		Alias
		Total float64 `json:"total"`
	}{
		Alias: Alias(o),
		Total: float64(o.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// RecomputeTotal folds line-item subtotals into the running total.
// Must be called after every item mutation.
func (o *Order) RecomputeTotal() {
	var total int64
	for i := range o.Items {
		total += o.Items[i].Subtotal
	}
	o.Total = total
}

// AttachItems adds line items, occupying the order if it was free.
// The Free→Occupied transition requires channel (and location for salon)
// to be set; an order claiming to be free while holding items is corrupt.
func (o *Order) AttachItems(items []OrderItem) error {
	if o.State == enum.OrderStateFree {
		if len(o.Items) > 0 {
			return apperror.NewInvalidStateError("free order already has items")
		}
		if !o.Channel.Valid() {
			return apperror.NewValidationMessage("channel is required to occupy an order")
		}
		if o.Channel == enum.ChannelSalon && !o.Location.Valid() {
			return apperror.NewValidationMessage("location is required for salon orders")
		}
		o.State = enum.OrderStateOccupied
	}
	if o.State == enum.OrderStatePaid {
		return apperror.NewInvalidStateError("cannot add items to a paid order")
	}
	o.Items = append(o.Items, items...)
	o.RecomputeTotal()
	return nil
}

// RemoveItem drops a line item by id. Removing the last item does NOT
// release the order; an empty active order still occupies its table.
func (o *Order) RemoveItem(itemID uuid.UUID) error {
	if !o.State.IsActive() {
		return apperror.NewInvalidStateError("order has no removable items in state " + o.State.String())
	}
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			o.RecomputeTotal()
			return nil
		}
	}
	return apperror.NewNotFoundError("Order item")
}

// MarkPaid transitions the order to Paid. Only the payment finalization
// transaction may call this; handlers never set the state directly.
func (o *Order) MarkPaid() error {
	if o.State == enum.OrderStatePaid {
		return apperror.NewInvalidStateError("order is already paid")
	}
	if !o.State.IsActive() {
		return apperror.NewInvalidStateError("cannot pay an order in state " + o.State.String())
	}
	o.State = enum.OrderStatePaid
	return nil
}

// Release clears the order back to Free. Releasing a free order is a no-op.
func (o *Order) Release() {
	if o.State == enum.OrderStateFree {
		return
	}
	o.State = enum.OrderStateFree
	o.Items = nil
	o.CustomerName = ""
	o.CustomerContact = ""
	o.Total = 0
}

// OrderItem represents a line item in an order. Price is a snapshot taken at
// attach time so historical orders are immune to later catalog changes.
type OrderItem struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	OrderID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName string         `gorm:"size:150;not null" json:"product_name"`
	Quantity    int            `gorm:"not null" json:"quantity"`
	UnitPrice   int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Subtotal    int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (oi OrderItem) MarshalJSON() ([]byte, error) {
	type Alias OrderItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Subtotal  float64 `json:"subtotal"`
	}{
		Alias:     Alias(oi),
		UnitPrice: float64(oi.UnitPrice) / 100,
		Subtotal:  float64(oi.Subtotal) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new order item
func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == uuid.Nil {
		oi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
