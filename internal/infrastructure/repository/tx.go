package repository

import (
	"context"

	"gorm.io/gorm"

	domainRepo "github.com/francoluca35/comandas-multiples-sub008/internal/domain/repository"
)

type txManager struct {
	db *gorm.DB
}

// NewTxManager creates a transaction manager backed by gorm transactions
func NewTxManager(db *gorm.DB) domainRepo.TxManager {
	return &txManager{db: db}
}

// WithinTx opens a database transaction and hands fn a repository set bound to
// it. Any error from fn rolls the whole unit back.
func (m *txManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repos *domainRepo.Repositories) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &domainRepo.Repositories{
			Orders:        NewOrderRepository(tx),
			Tickets:       NewTicketRepository(tx),
			Ledger:        NewLedgerRepository(tx),
			Counters:      NewCounterRepository(tx),
			Notifications: NewNotificationRepository(tx),
			Sessions:      NewSessionRepository(tx),
		}
		return fn(ctx, repos)
	})
}
