package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/entity"
	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/enum"
	"github.com/francoluca35/comandas-multiples-sub008/pkg/pagination"
)

// ErrVersionConflict signals that a conditional write lost an optimistic race.
// Callers retry the whole read-check-write sequence against fresh state.
var ErrVersionConflict = errors.New("version conflict")

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	List(ctx context.Context, params *OrderFilterParams) ([]entity.Order, int64, error)
	// SaveWithVersion persists the full order (fields + items) conditionally on
	// order.Version being unchanged since the read. On success the stored
	// version is bumped; on conflict it returns ErrVersionConflict.
	SaveWithVersion(ctx context.Context, order *entity.Order) error
	// TransitionState moves the order to the target state conditionally on the
	// current state being one of `from` and the version being unchanged.
	TransitionState(ctx context.Context, id uuid.UUID, from []enum.OrderState, to enum.OrderState, expectedVersion int64) error
}

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination *pagination.PaginationParams
	State      *enum.OrderState
	Channel    *enum.Channel
}
