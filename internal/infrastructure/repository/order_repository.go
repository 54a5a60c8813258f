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

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) List(ctx context.Context, params *domainRepo.OrderFilterParams) ([]entity.Order, int64, error) {
	var orders []entity.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Order{})

	if params.State != nil {
		query = query.Where("state = ?", *params.State)
	}

	if params.Channel != nil {
		query = query.Where("channel = ?", *params.Channel)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error

	return orders, total, err
}

// SaveWithVersion bumps the version column conditionally on it being unchanged
// since the read, then replaces the item rows. Losing the race returns
// ErrVersionConflict so the caller can retry against fresh state.
func (r *orderRepository) SaveWithVersion(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.Order{}).
			Where("id = ? AND version = ?", order.ID, order.Version).
			Updates(map[string]interface{}{
				"channel":          order.Channel,
				"location":         order.Location,
				"state":            order.State,
				"customer_name":    order.CustomerName,
				"customer_contact": order.CustomerContact,
				"total":            order.Total,
				"version":          order.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domainRepo.ErrVersionConflict
		}

		if err := tx.Unscoped().
			Where("order_id = ?", order.ID).
			Delete(&entity.OrderItem{}).Error; err != nil {
			return err
		}
		if len(order.Items) > 0 {
			for i := range order.Items {
				order.Items[i].OrderID = order.ID
			}
			if err := tx.Create(&order.Items).Error; err != nil {
				return err
			}
		}

		order.Version++
		return nil
	})
}

// TransitionState is the conditional state update used by the payment
// transaction and the kitchen progress mirror.
func (r *orderRepository) TransitionState(ctx context.Context, id uuid.UUID, from []enum.OrderState, to enum.OrderState, expectedVersion int64) error {
	res := r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("id = ? AND version = ? AND state IN ?", id, expectedVersion, from).
		Updates(map[string]interface{}{
			"state":   to,
			"version": expectedVersion + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainRepo.ErrVersionConflict
	}
	return nil
}
