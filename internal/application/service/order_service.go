package service

import (
	"context"
	"errors"
	"log"
	"math"

	"github.com/google/uuid"

	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/entity"
	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/enum"
	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/repository"
	"github.com/francoluca35/comandas-multiples-sub008/pkg/apperror"
	"github.com/francoluca35/comandas-multiples-sub008/pkg/pagination"
)

// OrderService handles the order lifecycle: create, item mutations, release
type OrderService struct {
	orderRepo     repository.OrderRepository
	ticketRepo    repository.TicketRepository
	notifications *NotificationService
	maxRetries    int
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	ticketRepo repository.TicketRepository,
	notifications *NotificationService,
	maxRetries int,
) *OrderService {
	if maxRetries <= 0 {
		maxRetries = 5
	}
	return &OrderService{
		orderRepo:     orderRepo,
		ticketRepo:    ticketRepo,
		notifications: notifications,
		maxRetries:    maxRetries,
	}
}

// CreateOrderInput represents the create order input
type CreateOrderInput struct {
	Channel         enum.Channel
	Location        enum.Location
	CustomerName    string
	CustomerContact string
}

// CreateOrder opens a fresh Free order for a channel (and table location for salon)
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*entity.Order, error) {
	if !input.Channel.Valid() {
		return nil, apperror.NewValidationMessage("unknown channel")
	}
	if input.Channel == enum.ChannelSalon && !input.Location.Valid() {
		return nil, apperror.NewValidationMessage("salon orders require an indoor/outdoor location")
	}

	order := &entity.Order{
		Channel:         input.Channel,
		Location:        input.Location,
		State:           enum.OrderStateFree,
		CustomerName:    input.CustomerName,
		CustomerContact: input.CustomerContact,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// OrderItemInput represents an item to attach. The price is a snapshot taken
// by the caller from the catalog; the engine never looks prices up.
type OrderItemInput struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	UnitPrice   float64
}

// AttachItems adds line items to an order, occupying it if it was free.
// A first attach spawns the kitchen ticket and a NewOrder event.
// Concurrent mutations retry against the latest version.
func (s *OrderService) AttachItems(ctx context.Context, orderID uuid.UUID, inputs []OrderItemInput) (*entity.Order, error) {
	if len(inputs) == 0 {
		return nil, apperror.NewValidationMessage("no items to attach")
	}

	items := make([]entity.OrderItem, len(inputs))
	for i, in := range inputs {
		if in.Quantity <= 0 {
			return nil, apperror.NewValidationMessage("item quantity must be positive")
		}
		if in.UnitPrice <= 0 {
			return nil, apperror.NewValidationMessage("item unit price must be positive")
		}
		unitPriceCents := int64(math.Round(in.UnitPrice * 100))
		items[i] = entity.OrderItem{
			ID:          uuid.New(),
			ProductID:   in.ProductID,
			ProductName: in.ProductName,
			Quantity:    in.Quantity,
			UnitPrice:   unitPriceCents,
			Subtotal:    unitPriceCents * int64(in.Quantity),
		}
	}

	var order *entity.Order
	var wasFree bool
	err := s.retryOnConflict(func() error {
		var err error
		order, err = s.orderRepo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError("Order")
		}
		wasFree = order.State == enum.OrderStateFree
		if err := order.AttachItems(items); err != nil {
			return err
		}
		return s.orderRepo.SaveWithVersion(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	if wasFree {
		s.openTicket(ctx, order)
	}
	return order, nil
}

// openTicket spawns the kitchen ticket and the NewOrder event for an order
// that just left Free. Failures degrade the kitchen display, not the order.
func (s *OrderService) openTicket(ctx context.Context, order *entity.Order) {
	ticket, err := entity.NewKitchenTicket(order)
	if err != nil {
		log.Printf("failed to build kitchen ticket for order %s: %v", order.ID, err)
		return
	}
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		log.Printf("failed to create kitchen ticket for order %s: %v", order.ID, err)
		return
	}
	if _, err := s.notifications.Publish(ctx, enum.NotificationNewOrder, order, &ticket.ID); err != nil {
		log.Printf("failed to publish NewOrder event for order %s: %v", order.ID, err)
	}
}

// RemoveItem drops one line item. The order stays Occupied even when the last
// item goes; only an explicit release frees the table.
func (s *OrderService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*entity.Order, error) {
	var order *entity.Order
	err := s.retryOnConflict(func() error {
		var err error
		order, err = s.orderRepo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError("Order")
		}
		if err := order.RemoveItem(itemID); err != nil {
			return err
		}
		return s.orderRepo.SaveWithVersion(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateCustomerInput represents a customer info edit
type UpdateCustomerInput struct {
	CustomerName    string
	CustomerContact string
}

// UpdateCustomer edits customer info. Last writer wins; a lost update is
// immediately visible on the live feed.
func (s *OrderService) UpdateCustomer(ctx context.Context, orderID uuid.UUID, input *UpdateCustomerInput) (*entity.Order, error) {
	var order *entity.Order
	err := s.retryOnConflict(func() error {
		var err error
		order, err = s.orderRepo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError("Order")
		}
		order.CustomerName = input.CustomerName
		order.CustomerContact = input.CustomerContact
		return s.orderRepo.SaveWithVersion(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Release clears a paid order back to Free and discards its kitchen ticket.
// Releasing an already-free order is a no-op.
func (s *OrderService) Release(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	var order *entity.Order
	var released bool
	err := s.retryOnConflict(func() error {
		var err error
		order, err = s.orderRepo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError("Order")
		}
		if order.State == enum.OrderStateFree {
			released = false
			return nil
		}
		if order.State != enum.OrderStatePaid {
			return apperror.NewInvalidStateError("only paid orders can be released")
		}
		order.Release()
		released = true
		return s.orderRepo.SaveWithVersion(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	if released {
		if err := s.ticketRepo.DiscardByOrderID(ctx, orderID); err != nil {
			log.Printf("failed to discard kitchen ticket for order %s: %v", orderID, err)
		}
	}
	return order, nil
}

// GetOrder retrieves an order by ID
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders lists orders with filtering
func (s *OrderService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// retryOnConflict reruns the read-check-write sequence while it loses
// optimistic races, bounded by the retry budget.
func (s *OrderService) retryOnConflict(fn func() error) error {
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		err := fn()
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		return err
	}
	return apperror.NewConcurrentModificationError("order was modified concurrently, retries exhausted")
}
