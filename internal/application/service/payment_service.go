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
)

// PaymentService coordinates the payment finalization transaction: the one
// place in the system where multi-record atomicity is mandatory. Booking the
// income, bumping the sales counter and flipping the order to Paid either all
// happen or none do.
type PaymentService struct {
	tx         repository.TxManager
	maxRetries int
}

// NewPaymentService creates a new payment service
func NewPaymentService(tx repository.TxManager, maxRetries int) *PaymentService {
	if maxRetries <= 0 {
		maxRetries = 5
	}
	return &PaymentService{tx: tx, maxRetries: maxRetries}
}

// FinalizePaymentInput represents a payment confirmation from the gateway
type FinalizePaymentInput struct {
	OrderID        uuid.UUID
	Method         enum.PaymentMethod
	Tendered       float64
	IdempotencyKey *string
}

// FinalizePaymentResult is the outcome of a finalization
type FinalizePaymentResult struct {
	Order    *entity.Order       `json:"order"`
	Entry    *entity.LedgerEntry `json:"entry"`
	Replayed bool                `json:"replayed"`
}

// Finalize atomically closes an order: validates it is active, books the
// income entry, increments the channel's sales counter and transitions the
// order to Paid. A version conflict reruns the whole attempt; an order that
// turns out to be already paid surfaces InvalidStateError with no ledger
// write. A retried request carrying the same idempotency key returns the
// original booking untouched.
func (s *PaymentService) Finalize(ctx context.Context, input *FinalizePaymentInput) (*FinalizePaymentResult, error) {
	if !input.Method.Valid() {
		return nil, apperror.NewValidationMessage("unknown payment method")
	}
	if input.Tendered <= 0 {
		return nil, apperror.NewValidationMessage("tendered amount must be positive")
	}
	tenderedCents := int64(math.Round(input.Tendered * 100))

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		var result *FinalizePaymentResult
		err := s.tx.WithinTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
			if input.IdempotencyKey != nil && *input.IdempotencyKey != "" {
				existing, err := repos.Ledger.GetByIdempotencyKey(ctx, *input.IdempotencyKey)
				if err != nil {
					return err
				}
				if existing != nil {
					order, err := repos.Orders.GetByID(ctx, input.OrderID)
					if err != nil {
						return err
					}
					result = &FinalizePaymentResult{Order: order, Entry: existing, Replayed: true}
					return nil
				}
			}

			order, err := repos.Orders.GetByID(ctx, input.OrderID)
			if err != nil {
				return err
			}
			if order == nil {
				return apperror.NewNotFoundError("Order")
			}
			if order.State == enum.OrderStatePaid {
				return apperror.NewInvalidStateError("order is already paid")
			}
			if !order.State.IsActive() {
				return apperror.NewInvalidStateError("cannot finalize an order in state " + order.State.String())
			}
			if tenderedCents != order.Total {
				return apperror.NewValidationMessage("tendered amount must equal the order total")
			}

			entry := &entity.LedgerEntry{
				Ledger:         input.Method.Ledger(),
				Kind:           enum.EntryKindIncome,
				Amount:         order.Total,
				Reason:         "order payment",
				IdempotencyKey: input.IdempotencyKey,
				OrderID:        &order.ID,
				OccurredAt:     time.Now(),
			}
			if err := repos.Ledger.Append(ctx, entry); err != nil {
				return err
			}

			if err := repos.Counters.Increment(ctx, entity.PeriodOf(time.Now()), order.Channel); err != nil {
				return err
			}

			// Conditional on the version read above: an item edit racing this
			// transaction aborts the whole unit, income entry included
			if err := repos.Orders.TransitionState(ctx, order.ID,
				[]enum.OrderState{enum.OrderStateOccupied, enum.OrderStateInPreparation, enum.OrderStateServed},
				enum.OrderStatePaid, order.Version); err != nil {
				return err
			}

			order.State = enum.OrderStatePaid
			order.Version++
			result = &FinalizePaymentResult{Order: order, Entry: entry}
			return nil
		})
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return result, nil
	}
	return nil, apperror.NewConcurrentModificationError("order was modified concurrently, retries exhausted")
}
