package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/entity"
)

// TicketRepository defines the interface for kitchen ticket data operations
type TicketRepository interface {
	Create(ctx context.Context, ticket *entity.KitchenTicket) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.KitchenTicket, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.KitchenTicket, error)
	// ListOpen returns tickets that have not reached Ready, oldest first.
	// Creation order is informational; display ordering is the consumer's concern.
	ListOpen(ctx context.Context) ([]entity.KitchenTicket, error)
	Save(ctx context.Context, ticket *entity.KitchenTicket) error
	// DiscardByOrderID archives the ticket when its order is released
	DiscardByOrderID(ctx context.Context, orderID uuid.UUID) error
}
