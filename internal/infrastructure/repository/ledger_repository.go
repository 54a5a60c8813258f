package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/entity"
	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/enum"
	domainRepo "github.com/francoluca35/comandas-multiples-sub008/internal/domain/repository"
	"github.com/francoluca35/comandas-multiples-sub008/pkg/pagination"
)

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *gorm.DB) domainRepo.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Append(ctx context.Context, entry *entity.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ledgerRepository) GetByIdempotencyKey(ctx context.Context, key string) (*entity.LedgerEntry, error) {
	var entry entity.LedgerEntry
	err := r.db.WithContext(ctx).First(&entry, "idempotency_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &entry, err
}

func (r *ledgerRepository) SumByKind(ctx context.Context, ledger enum.Ledger, since time.Time) (map[enum.EntryKind]int64, error) {
	var rows []struct {
		Kind  enum.EntryKind
		Total int64
	}
	err := r.db.WithContext(ctx).Model(&entity.LedgerEntry{}).
		Select("kind, COALESCE(SUM(amount), 0) as total").
		Where("ledger = ? AND occurred_at >= ?", ledger, since).
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sums := make(map[enum.EntryKind]int64, len(rows))
	for _, row := range rows {
		sums[row.Kind] = row.Total
	}
	return sums, nil
}

func (r *ledgerRepository) ListEntries(ctx context.Context, ledger enum.Ledger, since time.Time, params *pagination.PaginationParams) ([]entity.LedgerEntry, int64, error) {
	var entries []entity.LedgerEntry
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.LedgerEntry{}).
		Where("ledger = ? AND occurred_at >= ?", ledger, since)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("occurred_at DESC").
		Find(&entries).Error

	return entries, total, err
}

func (r *ledgerRepository) GetCheckpoint(ctx context.Context, ledger enum.Ledger) (*entity.LedgerCheckpoint, error) {
	var checkpoint entity.LedgerCheckpoint
	err := r.db.WithContext(ctx).First(&checkpoint, "ledger = ?", ledger).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &checkpoint, err
}

func (r *ledgerRepository) CreateCheckpoint(ctx context.Context, checkpoint *entity.LedgerCheckpoint) error {
	return r.db.WithContext(ctx).Create(checkpoint).Error
}

func (r *ledgerRepository) BumpCheckpoint(ctx context.Context, ledger enum.Ledger, expectedVersion int64) error {
	res := r.db.WithContext(ctx).Model(&entity.LedgerCheckpoint{}).
		Where("ledger = ? AND version = ?", ledger, expectedVersion).
		Update("version", expectedVersion+1)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainRepo.ErrVersionConflict
	}
	return nil
}

func (r *ledgerRepository) RebaseCheckpoint(ctx context.Context, ledger enum.Ledger, baseAmount int64, resetBy string, expectedVersion int64) error {
	res := r.db.WithContext(ctx).Model(&entity.LedgerCheckpoint{}).
		Where("ledger = ? AND version = ?", ledger, expectedVersion).
		Updates(map[string]interface{}{
			"base_amount": baseAmount,
			"version":     expectedVersion + 1,
			"reset_at":    time.Now(),
			"reset_by":    resetBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainRepo.ErrVersionConflict
	}
	return nil
}
