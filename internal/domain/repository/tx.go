package repository

import "context"

// Repositories bundles every aggregate repository bound to one unit of work
type Repositories struct {
	Orders        OrderRepository
	Tickets       TicketRepository
	Ledger        LedgerRepository
	Counters      CounterRepository
	Notifications NotificationRepository
	Sessions      SessionRepository
}

// TxManager runs a function inside a single multi-record atomic transaction.
// The repositories handed to fn are bound to that transaction; returning an
// error rolls everything back. Payment finalization is the one place in the
// system that requires this; everything else converges through retries.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error
}
