package service

import (
	"context"
	"time"

	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/entity"
	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/repository"
)

// CounterService reads the per-period, per-channel sales counters. Increments
// happen inside the payment finalization transaction, never here.
type CounterService struct {
	counterRepo repository.CounterRepository
}

// NewCounterService creates a new counter service
func NewCounterService(counterRepo repository.CounterRepository) *CounterService {
	return &CounterService{counterRepo: counterRepo}
}

// List returns the counters for a period; an empty period means the current month
func (s *CounterService) List(ctx context.Context, period string) ([]entity.SalesCounter, error) {
	if period == "" {
		period = entity.PeriodOf(time.Now())
	}
	return s.counterRepo.List(ctx, period)
}
