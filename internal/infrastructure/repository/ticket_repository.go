package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/entity"
	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/enum"
	domainRepo "github.com/francoluca35/comandas-multiples-sub008/internal/domain/repository"
)

type ticketRepository struct {
	db *gorm.DB
}

// NewTicketRepository creates a new kitchen ticket repository
func NewTicketRepository(db *gorm.DB) domainRepo.TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *entity.KitchenTicket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

func (r *ticketRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.KitchenTicket, error) {
	var ticket entity.KitchenTicket
	err := r.db.WithContext(ctx).First(&ticket, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ticket, err
}

func (r *ticketRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.KitchenTicket, error) {
	var ticket entity.KitchenTicket
	err := r.db.WithContext(ctx).First(&ticket, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ticket, err
}

func (r *ticketRepository) ListOpen(ctx context.Context) ([]entity.KitchenTicket, error) {
	var tickets []entity.KitchenTicket
	err := r.db.WithContext(ctx).
		Where("state <> ?", enum.TicketStateReady).
		Order("created_at ASC").
		Find(&tickets).Error
	return tickets, err
}

func (r *ticketRepository) Save(ctx context.Context, ticket *entity.KitchenTicket) error {
	return r.db.WithContext(ctx).Save(ticket).Error
}

func (r *ticketRepository) DiscardByOrderID(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.KitchenTicket{}, "order_id = ?", orderID).Error
}
