package repository

import (
	"context"
	"time"

	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/entity"
	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/enum"
	"github.com/francoluca35/comandas-multiples-sub008/pkg/pagination"
)

// LedgerRepository defines the interface for append-only ledger data operations
type LedgerRepository interface {
	// Append writes a new immutable entry
	Append(ctx context.Context, entry *entity.LedgerEntry) error
	GetByIdempotencyKey(ctx context.Context, key string) (*entity.LedgerEntry, error)
	// SumByKind folds entry amounts per kind for one ledger since a point in time
	SumByKind(ctx context.Context, ledger enum.Ledger, since time.Time) (map[enum.EntryKind]int64, error)
	ListEntries(ctx context.Context, ledger enum.Ledger, since time.Time, params *pagination.PaginationParams) ([]entity.LedgerEntry, int64, error)

	GetCheckpoint(ctx context.Context, ledger enum.Ledger) (*entity.LedgerCheckpoint, error)
	CreateCheckpoint(ctx context.Context, checkpoint *entity.LedgerCheckpoint) error
	// BumpCheckpoint is the compare-and-swap anchor for check-then-write
	// sequences (withdrawals). Returns ErrVersionConflict if the version moved.
	BumpCheckpoint(ctx context.Context, ledger enum.Ledger, expectedVersion int64) error
	// RebaseCheckpoint performs the audited reset: new base amount and reset
	// marker, conditional on the version. Entries are preserved.
	RebaseCheckpoint(ctx context.Context, ledger enum.Ledger, baseAmount int64, resetBy string, expectedVersion int64) error
}

// CounterRepository defines the interface for sales counter operations
type CounterRepository interface {
	// Increment upserts the (period, channel) row and adds one
	Increment(ctx context.Context, period string, channel enum.Channel) error
	List(ctx context.Context, period string) ([]entity.SalesCounter, error)
}
