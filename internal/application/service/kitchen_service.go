package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/entity"
	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/enum"
	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/repository"
	"github.com/francoluca35/comandas-multiples-sub008/pkg/apperror"
)

// KitchenService drives kitchen tickets and mirrors their progress onto orders
type KitchenService struct {
	ticketRepo    repository.TicketRepository
	orderRepo     repository.OrderRepository
	notifications *NotificationService
	maxRetries    int
}

// NewKitchenService creates a new kitchen service
func NewKitchenService(
	ticketRepo repository.TicketRepository,
	orderRepo repository.OrderRepository,
	notifications *NotificationService,
	maxRetries int,
) *KitchenService {
	if maxRetries <= 0 {
		maxRetries = 5
	}
	return &KitchenService{
		ticketRepo:    ticketRepo,
		orderRepo:     orderRepo,
		notifications: notifications,
		maxRetries:    maxRetries,
	}
}

// ListOpenTickets returns tickets not yet Ready, oldest first
func (s *KitchenService) ListOpenTickets(ctx context.Context) ([]entity.KitchenTicket, error) {
	return s.ticketRepo.ListOpen(ctx)
}

// GetTicket retrieves a ticket by ID
func (s *KitchenService) GetTicket(ctx context.Context, id uuid.UUID) (*entity.KitchenTicket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, apperror.NewNotFoundError("Kitchen ticket")
	}
	return ticket, nil
}

// StartPreparation moves a pending ticket into preparation and mirrors the
// owning order to InPreparation.
func (s *KitchenService) StartPreparation(ctx context.Context, ticketID uuid.UUID) (*entity.KitchenTicket, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := ticket.StartPreparation(); err != nil {
		return nil, err
	}
	if err := s.ticketRepo.Save(ctx, ticket); err != nil {
		return nil, err
	}

	if err := s.mirrorOrderState(ctx, ticket.OrderID, enum.OrderStateInPreparation); err != nil {
		return nil, err
	}
	return ticket, nil
}

// MarkReady finishes a ticket, mirrors the order to Served and publishes the
// OrderReady event that alerts the floor terminals.
func (s *KitchenService) MarkReady(ctx context.Context, ticketID uuid.UUID) (*entity.KitchenTicket, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := ticket.MarkReady(); err != nil {
		return nil, err
	}
	if err := s.ticketRepo.Save(ctx, ticket); err != nil {
		return nil, err
	}

	if err := s.mirrorOrderState(ctx, ticket.OrderID, enum.OrderStateServed); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, ticket.OrderID)
	if err == nil && order != nil {
		// Event delivery failures never fail the ticket transition
		_, _ = s.notifications.Publish(ctx, enum.NotificationOrderReady, order, &ticket.ID)
	}
	return ticket, nil
}

// mirrorOrderState advances the order to reflect kitchen progress. Orders
// already at or past the target (or finalized meanwhile) are left alone;
// kitchen progress never moves an order backwards.
func (s *KitchenService) mirrorOrderState(ctx context.Context, orderID uuid.UUID, target enum.OrderState) error {
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		order, err := s.orderRepo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil || order.State >= target || !order.State.IsActive() {
			return nil
		}
		err = s.orderRepo.TransitionState(ctx, orderID,
			[]enum.OrderState{enum.OrderStateOccupied, enum.OrderStateInPreparation},
			target, order.Version)
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		return err
	}
	return apperror.NewConcurrentModificationError("order was modified concurrently, retries exhausted")
}
