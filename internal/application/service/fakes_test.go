package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/entity"
	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/enum"
	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/repository"
	"github.com/francoluca35/comandas-multiples-sub008/pkg/pagination"
)

// In-memory repositories mimicking the conditional-write semantics of the
// postgres implementations, so services can be tested without a database.

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*entity.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*entity.Order)}
}

func copyOrder(o *entity.Order) *entity.Order {
	cp := *o
	cp.Items = make([]entity.OrderItem, len(o.Items))
	copy(cp.Items, o.Items)
	return &cp
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	r.orders[order.ID] = copyOrder(order)
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	return copyOrder(order), nil
}

func (r *fakeOrderRepo) List(ctx context.Context, params *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Order
	for _, o := range r.orders {
		if params.State != nil && o.State != *params.State {
			continue
		}
		if params.Channel != nil && o.Channel != *params.Channel {
			continue
		}
		out = append(out, *copyOrder(o))
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) SaveWithVersion(ctx context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[order.ID]
	if !ok || stored.Version != order.Version {
		return repository.ErrVersionConflict
	}
	order.Version++
	r.orders[order.ID] = copyOrder(order)
	return nil
}

func (r *fakeOrderRepo) TransitionState(ctx context.Context, id uuid.UUID, from []enum.OrderState, to enum.OrderState, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[id]
	if !ok || stored.Version != expectedVersion {
		return repository.ErrVersionConflict
	}
	allowed := false
	for _, s := range from {
		if stored.State == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return repository.ErrVersionConflict
	}
	stored.State = to
	stored.Version++
	return nil
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[uuid.UUID]*entity.KitchenTicket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[uuid.UUID]*entity.KitchenTicket)}
}

func (r *fakeTicketRepo) Create(ctx context.Context, ticket *entity.KitchenTicket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	cp := *ticket
	r.tickets[ticket.ID] = &cp
	return nil
}

func (r *fakeTicketRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.KitchenTicket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, nil
	}
	cp := *ticket
	return &cp, nil
}

func (r *fakeTicketRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.KitchenTicket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		if t.OrderID == orderID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeTicketRepo) ListOpen(ctx context.Context) ([]entity.KitchenTicket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.KitchenTicket
	for _, t := range r.tickets {
		if t.State != enum.TicketStateReady {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTicketRepo) Save(ctx context.Context, ticket *entity.KitchenTicket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *ticket
	r.tickets[ticket.ID] = &cp
	return nil
}

func (r *fakeTicketRepo) DiscardByOrderID(ctx context.Context, orderID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.tickets {
		if t.OrderID == orderID {
			delete(r.tickets, id)
		}
	}
	return nil
}

type fakeLedgerRepo struct {
	mu          sync.Mutex
	entries     []entity.LedgerEntry
	checkpoints map[enum.Ledger]*entity.LedgerCheckpoint
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	repo := &fakeLedgerRepo{checkpoints: make(map[enum.Ledger]*entity.LedgerCheckpoint)}
	for _, ledger := range []enum.Ledger{enum.LedgerCash, enum.LedgerVirtual} {
		repo.checkpoints[ledger] = &entity.LedgerCheckpoint{
			ID:      uuid.New(),
			Ledger:  ledger,
			ResetAt: time.Now().Add(-time.Hour),
			ResetBy: "bootstrap",
		}
	}
	return repo
}

func (r *fakeLedgerRepo) Append(ctx context.Context, entry *entity.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeLedgerRepo) GetByIdempotencyKey(ctx context.Context, key string) (*entity.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].IdempotencyKey != nil && *r.entries[i].IdempotencyKey == key {
			cp := r.entries[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeLedgerRepo) SumByKind(ctx context.Context, ledger enum.Ledger, since time.Time) (map[enum.EntryKind]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sums := make(map[enum.EntryKind]int64)
	for i := range r.entries {
		e := &r.entries[i]
		if e.Ledger == ledger && !e.OccurredAt.Before(since) {
			sums[e.Kind] += e.Amount
		}
	}
	return sums, nil
}

func (r *fakeLedgerRepo) ListEntries(ctx context.Context, ledger enum.Ledger, since time.Time, params *pagination.PaginationParams) ([]entity.LedgerEntry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.LedgerEntry
	for i := range r.entries {
		e := r.entries[i]
		if e.Ledger == ledger && !e.OccurredAt.Before(since) {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeLedgerRepo) GetCheckpoint(ctx context.Context, ledger enum.Ledger) (*entity.LedgerCheckpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	checkpoint, ok := r.checkpoints[ledger]
	if !ok {
		return nil, nil
	}
	cp := *checkpoint
	return &cp, nil
}

func (r *fakeLedgerRepo) CreateCheckpoint(ctx context.Context, checkpoint *entity.LedgerCheckpoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *checkpoint
	r.checkpoints[checkpoint.Ledger] = &cp
	return nil
}

func (r *fakeLedgerRepo) BumpCheckpoint(ctx context.Context, ledger enum.Ledger, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	checkpoint, ok := r.checkpoints[ledger]
	if !ok || checkpoint.Version != expectedVersion {
		return repository.ErrVersionConflict
	}
	checkpoint.Version++
	return nil
}

func (r *fakeLedgerRepo) RebaseCheckpoint(ctx context.Context, ledger enum.Ledger, baseAmount int64, resetBy string, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	checkpoint, ok := r.checkpoints[ledger]
	if !ok || checkpoint.Version != expectedVersion {
		return repository.ErrVersionConflict
	}
	checkpoint.BaseAmount = baseAmount
	checkpoint.ResetAt = time.Now()
	checkpoint.ResetBy = resetBy
	checkpoint.Version++
	return nil
}

type fakeCounterRepo struct {
	mu     sync.Mutex
	counts map[string]map[enum.Channel]int64
}

func newFakeCounterRepo() *fakeCounterRepo {
	return &fakeCounterRepo{counts: make(map[string]map[enum.Channel]int64)}
}

func (r *fakeCounterRepo) Increment(ctx context.Context, period string, channel enum.Channel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts[period] == nil {
		r.counts[period] = make(map[enum.Channel]int64)
	}
	r.counts[period][channel]++
	return nil
}

func (r *fakeCounterRepo) List(ctx context.Context, period string) ([]entity.SalesCounter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.SalesCounter
	for channel, count := range r.counts[period] {
		out = append(out, entity.SalesCounter{Period: period, Channel: channel, Count: count})
	}
	return out, nil
}

func (r *fakeCounterRepo) get(period string, channel enum.Channel) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[period][channel]
}

type fakeNotificationRepo struct {
	mu     sync.Mutex
	events []entity.NotificationEvent
	acks   map[uuid.UUID]map[uuid.UUID]bool
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{acks: make(map[uuid.UUID]map[uuid.UUID]bool)}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, event *entity.NotificationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	r.events = append(r.events, *event)
	return nil
}

func (r *fakeNotificationRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.NotificationEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.events {
		if r.events[i].ID == id {
			cp := r.events[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeNotificationRepo) Acknowledge(ctx context.Context, eventID, terminalID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.acks[eventID] == nil {
		r.acks[eventID] = make(map[uuid.UUID]bool)
	}
	r.acks[eventID][terminalID] = true
	return nil
}

func (r *fakeNotificationRepo) ListUnread(ctx context.Context, terminalID uuid.UUID, since time.Time, types []enum.NotificationType) ([]entity.NotificationEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.NotificationEvent
	for i := range r.events {
		e := r.events[i]
		if e.CreatedAt.Before(since) || r.acks[e.ID][terminalID] {
			continue
		}
		if len(types) > 0 {
			found := false
			for _, t := range types {
				if e.Type == t {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		out = append(out, e)
	}
	return out, nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entity.EmployeeSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*entity.EmployeeSession)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.EmployeeSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.EmployeeID == session.EmployeeID && s.ClosedAt == nil {
			return repository.ErrVersionConflict
		}
	}
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if session.OpenedAt.IsZero() {
		session.OpenedAt = time.Now()
	}
	cp := *session
	r.sessions[session.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.EmployeeSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *session
	return &cp, nil
}

func (r *fakeSessionRepo) GetOpenByEmployee(ctx context.Context, employeeID uuid.UUID) (*entity.EmployeeSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.EmployeeID == employeeID && s.ClosedAt == nil {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) Close(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok || session.ClosedAt != nil {
		return repository.ErrVersionConflict
	}
	now := time.Now()
	session.ClosedAt = &now
	return nil
}

type fakeEmployeeRepo struct {
	employees map[uuid.UUID]*entity.Employee
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[uuid.UUID]*entity.Employee)}
}

func (r *fakeEmployeeRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Employee, error) {
	employee, ok := r.employees[id]
	if !ok {
		return nil, nil
	}
	cp := *employee
	return &cp, nil
}

// fakeTxManager runs the function against the shared fake repositories,
// restoring their state when the function fails so an aborted transaction
// leaves no partial writes behind.
type fakeTxManager struct {
	repos    *repository.Repositories
	orders   *fakeOrderRepo
	ledger   *fakeLedgerRepo
	counters *fakeCounterRepo
}

type fakeTxSnapshot struct {
	orders      map[uuid.UUID]*entity.Order
	entries     []entity.LedgerEntry
	checkpoints map[enum.Ledger]*entity.LedgerCheckpoint
	counts      map[string]map[enum.Channel]int64
}

func (m *fakeTxManager) snapshot() *fakeTxSnapshot {
	snap := &fakeTxSnapshot{}
	if m.orders != nil {
		m.orders.mu.Lock()
		snap.orders = make(map[uuid.UUID]*entity.Order, len(m.orders.orders))
		for id, o := range m.orders.orders {
			snap.orders[id] = copyOrder(o)
		}
		m.orders.mu.Unlock()
	}
	if m.ledger != nil {
		m.ledger.mu.Lock()
		snap.entries = append([]entity.LedgerEntry(nil), m.ledger.entries...)
		snap.checkpoints = make(map[enum.Ledger]*entity.LedgerCheckpoint, len(m.ledger.checkpoints))
		for l, c := range m.ledger.checkpoints {
			cp := *c
			snap.checkpoints[l] = &cp
		}
		m.ledger.mu.Unlock()
	}
	if m.counters != nil {
		m.counters.mu.Lock()
		snap.counts = make(map[string]map[enum.Channel]int64, len(m.counters.counts))
		for period, byChannel := range m.counters.counts {
			cp := make(map[enum.Channel]int64, len(byChannel))
			for ch, n := range byChannel {
				cp[ch] = n
			}
			snap.counts[period] = cp
		}
		m.counters.mu.Unlock()
	}
	return snap
}

func (m *fakeTxManager) restore(snap *fakeTxSnapshot) {
	if m.orders != nil {
		m.orders.mu.Lock()
		m.orders.orders = snap.orders
		m.orders.mu.Unlock()
	}
	if m.ledger != nil {
		m.ledger.mu.Lock()
		m.ledger.entries = snap.entries
		m.ledger.checkpoints = snap.checkpoints
		m.ledger.mu.Unlock()
	}
	if m.counters != nil {
		m.counters.mu.Lock()
		m.counters.counts = snap.counts
		m.counters.mu.Unlock()
	}
}

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repos *repository.Repositories) error) error {
	snap := m.snapshot()
	if err := fn(ctx, m.repos); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}
