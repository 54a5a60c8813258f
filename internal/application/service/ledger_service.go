package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/entity"
	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/enum"
	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/repository"
	"github.com/francoluca35/comandas-multiples-sub008/pkg/apperror"
	"github.com/francoluca35/comandas-multiples-sub008/pkg/pagination"
)

// LedgerService owns the append-only money ledger. Balances are a pure fold
// over entries since the checkpoint, computed on every read, never stored.
type LedgerService struct {
	ledgerRepo repository.LedgerRepository
	tx         repository.TxManager
	maxRetries int
}

// NewLedgerService creates a new ledger service
func NewLedgerService(ledgerRepo repository.LedgerRepository, tx repository.TxManager, maxRetries int) *LedgerService {
	if maxRetries <= 0 {
		maxRetries = 5
	}
	return &LedgerService{
		ledgerRepo: ledgerRepo,
		tx:         tx,
		maxRetries: maxRetries,
	}
}

// BalanceResult is the derived balance for one ledger in the current period
type BalanceResult struct {
	Ledger      enum.Ledger `json:"ledger"`
	Balance     float64     `json:"balance"`
	Base        float64     `json:"base"`
	Income      float64     `json:"income"`
	Deposits    float64     `json:"deposits"`
	Expenses    float64     `json:"expenses"`
	Withdrawals float64     `json:"withdrawals"`
	Since       time.Time   `json:"since"`
}

// balanceCents folds entries since the checkpoint into the derived balance
func balanceCents(checkpoint *entity.LedgerCheckpoint, sums map[enum.EntryKind]int64) int64 {
	return checkpoint.BaseAmount +
		sums[enum.EntryKindIncome] +
		sums[enum.EntryKindDeposit] -
		sums[enum.EntryKindExpense] -
		sums[enum.EntryKindWithdrawal]
}

// CurrentBalance derives the balance for a ledger since its last reset
func (s *LedgerService) CurrentBalance(ctx context.Context, ledger enum.Ledger) (*BalanceResult, error) {
	if !ledger.Valid() {
		return nil, apperror.NewValidationMessage("unknown ledger")
	}
	checkpoint, err := s.ledgerRepo.GetCheckpoint(ctx, ledger)
	if err != nil {
		return nil, err
	}
	if checkpoint == nil {
		return nil, apperror.NewNotFoundError("Ledger checkpoint")
	}
	sums, err := s.ledgerRepo.SumByKind(ctx, ledger, checkpoint.ResetAt)
	if err != nil {
		return nil, err
	}

	return &BalanceResult{
		Ledger:      ledger,
		Balance:     float64(balanceCents(checkpoint, sums)) / 100,
		Base:        float64(checkpoint.BaseAmount) / 100,
		Income:      float64(sums[enum.EntryKindIncome]) / 100,
		Deposits:    float64(sums[enum.EntryKindDeposit]) / 100,
		Expenses:    float64(sums[enum.EntryKindExpense]) / 100,
		Withdrawals: float64(sums[enum.EntryKindWithdrawal]) / 100,
		Since:       checkpoint.ResetAt,
	}, nil
}

// AppendInput describes a new ledger entry
type AppendInput struct {
	Ledger         enum.Ledger
	Kind           enum.EntryKind
	Amount         float64
	Reason         string
	IdempotencyKey *string
	OrderID        *uuid.UUID
}

func (in *AppendInput) validate() error {
	if !in.Ledger.Valid() {
		return apperror.NewValidationMessage("unknown ledger")
	}
	if !in.Kind.Valid() {
		return apperror.NewValidationMessage("unknown entry kind")
	}
	// Withdrawals go through Withdraw, which checks the derived balance under
	// the checkpoint CAS; a raw append would skip the funds check entirely
	if in.Kind == enum.EntryKindWithdrawal {
		return apperror.NewValidationMessage("withdrawals must use the withdraw operation")
	}
	if in.Amount <= 0 {
		return apperror.NewValidationMessage("amount must be positive")
	}
	return nil
}

// Append writes a new immutable entry. A repeated idempotency key returns the
// existing entry instead of creating a duplicate.
func (s *LedgerService) Append(ctx context.Context, input *AppendInput) (*entity.LedgerEntry, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	if input.IdempotencyKey != nil && *input.IdempotencyKey != "" {
		existing, err := s.ledgerRepo.GetByIdempotencyKey(ctx, *input.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	entry := &entity.LedgerEntry{
		Ledger:         input.Ledger,
		Kind:           input.Kind,
		Amount:         int64(math.Round(input.Amount * 100)),
		Reason:         input.Reason,
		IdempotencyKey: input.IdempotencyKey,
		OrderID:        input.OrderID,
		OccurredAt:     time.Now(),
	}
	if err := s.ledgerRepo.Append(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Deposit appends unconditionally; deposits only increase funds
func (s *LedgerService) Deposit(ctx context.Context, ledger enum.Ledger, amount float64, reason string) (*entity.LedgerEntry, error) {
	return s.Append(ctx, &AppendInput{
		Ledger: ledger,
		Kind:   enum.EntryKindDeposit,
		Amount: amount,
		Reason: reason,
	})
}

// Withdraw checks the derived balance and appends a withdrawal. The balance is
// derived, so check-then-write is racy by nature: the checkpoint version is
// the compare-and-swap anchor, and the whole sequence reruns on conflict.
func (s *LedgerService) Withdraw(ctx context.Context, ledger enum.Ledger, amount float64, reason string) (*entity.LedgerEntry, error) {
	if !ledger.Valid() {
		return nil, apperror.NewValidationMessage("unknown ledger")
	}
	if amount <= 0 {
		return nil, apperror.NewValidationMessage("amount must be positive")
	}
	amountCents := int64(math.Round(amount * 100))

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		checkpoint, err := s.ledgerRepo.GetCheckpoint(ctx, ledger)
		if err != nil {
			return nil, err
		}
		if checkpoint == nil {
			return nil, apperror.NewNotFoundError("Ledger checkpoint")
		}
		sums, err := s.ledgerRepo.SumByKind(ctx, ledger, checkpoint.ResetAt)
		if err != nil {
			return nil, err
		}
		if amountCents > balanceCents(checkpoint, sums) {
			return nil, apperror.NewInsufficientFundsError("withdrawal exceeds the current balance")
		}

		entry := &entity.LedgerEntry{
			Ledger:     ledger,
			Kind:       enum.EntryKindWithdrawal,
			Amount:     amountCents,
			Reason:     reason,
			OccurredAt: time.Now(),
		}
		err = s.tx.WithinTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
			// The version bump fails if any other writer moved the checkpoint
			// since our read, invalidating the balance we validated against
			if err := repos.Ledger.BumpCheckpoint(ctx, ledger, checkpoint.Version); err != nil {
				return err
			}
			return repos.Ledger.Append(ctx, entry)
		})
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return entry, nil
	}
	return nil, apperror.NewConcurrentModificationError("ledger was modified concurrently, retries exhausted")
}

// Reset rebases the checkpoint to a declared amount. Entries are preserved;
// the fold simply starts from the new marker. This is the only operation
// allowed to discard history from the derived balance.
func (s *LedgerService) Reset(ctx context.Context, ledger enum.Ledger, declared float64, resetBy string) (*entity.LedgerCheckpoint, error) {
	if !ledger.Valid() {
		return nil, apperror.NewValidationMessage("unknown ledger")
	}
	if declared < 0 {
		return nil, apperror.NewValidationMessage("declared amount cannot be negative")
	}

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		checkpoint, err := s.ledgerRepo.GetCheckpoint(ctx, ledger)
		if err != nil {
			return nil, err
		}
		if checkpoint == nil {
			return nil, apperror.NewNotFoundError("Ledger checkpoint")
		}
		err = s.ledgerRepo.RebaseCheckpoint(ctx, ledger, int64(math.Round(declared*100)), resetBy, checkpoint.Version)
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return s.ledgerRepo.GetCheckpoint(ctx, ledger)
	}
	return nil, apperror.NewConcurrentModificationError("ledger was modified concurrently, retries exhausted")
}

// ListEntries returns entries for the current period, newest first
func (s *LedgerService) ListEntries(ctx context.Context, ledger enum.Ledger, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.LedgerEntry], error) {
	if !ledger.Valid() {
		return nil, apperror.NewValidationMessage("unknown ledger")
	}
	checkpoint, err := s.ledgerRepo.GetCheckpoint(ctx, ledger)
	if err != nil {
		return nil, err
	}
	if checkpoint == nil {
		return nil, apperror.NewNotFoundError("Ledger checkpoint")
	}
	entries, total, err := s.ledgerRepo.ListEntries(ctx, ledger, checkpoint.ResetAt, params)
	if err != nil {
		return nil, err
	}
	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(entries, pag), nil
}
