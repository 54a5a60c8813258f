package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/entity"
	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/enum"
	domainRepo "github.com/francoluca35/comandas-multiples-sub008/internal/domain/repository"
)

type counterRepository struct {
	db *gorm.DB
}

// NewCounterRepository creates a new sales counter repository
func NewCounterRepository(db *gorm.DB) domainRepo.CounterRepository {
	return &counterRepository{db: db}
}

// Increment upserts the (period, channel) row; the add happens in the database
// so concurrent finalizations never lose a count.
func (r *counterRepository) Increment(ctx context.Context, period string, channel enum.Channel) error {
	counter := entity.SalesCounter{
		Period:  period,
		Channel: channel,
		Count:   1,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "period"}, {Name: "channel"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count": gorm.Expr("sales_counters.count + 1"),
		}),
	}).Create(&counter).Error
}

func (r *counterRepository) List(ctx context.Context, period string) ([]entity.SalesCounter, error) {
	var counters []entity.SalesCounter
	query := r.db.WithContext(ctx).Model(&entity.SalesCounter{})
	if period != "" {
		query = query.Where("period = ?", period)
	}
	err := query.Order("period DESC, channel ASC").Find(&counters).Error
	return counters, err
}
