package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/entity"
	"github.com/francoluca35/comandas-multiples-sub008/pkg/apperror"
)

type sessionFixture struct {
	svc          *SessionService
	sessionRepo  *fakeSessionRepo
	employeeRepo *fakeEmployeeRepo
	employeeID   uuid.UUID
	terminalID   uuid.UUID
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	sessionRepo := newFakeSessionRepo()
	employeeRepo := newFakeEmployeeRepo()

	hash, err := bcrypt.GenerateFromPassword([]byte("4321"), bcrypt.MinCost)
	require.NoError(t, err)

	employeeID := uuid.New()
	employeeRepo.employees[employeeID] = &entity.Employee{
		ID:      employeeID,
		Name:    "Lucia",
		PinHash: string(hash),
		Active:  true,
	}

	return &sessionFixture{
		svc:          NewSessionService(sessionRepo, employeeRepo, 5),
		sessionRepo:  sessionRepo,
		employeeRepo: employeeRepo,
		employeeID:   employeeID,
		terminalID:   uuid.New(),
	}
}

func TestOpenSessionWithValidPin(t *testing.T) {
	f := newSessionFixture(t)

	session, err := f.svc.Open(context.Background(), f.employeeID, f.terminalID, "4321")
	require.NoError(t, err)
	assert.Equal(t, f.employeeID, session.EmployeeID)
	assert.Equal(t, f.terminalID, session.TerminalID)
	assert.True(t, session.IsOpen())
}

func TestOpenSessionWrongPin(t *testing.T) {
	f := newSessionFixture(t)

	_, err := f.svc.Open(context.Background(), f.employeeID, f.terminalID, "0000")
	require.Error(t, err)
	assert.Equal(t, 401, apperror.GetAppError(err).Code)
}

func TestOpenSessionUnknownEmployee(t *testing.T) {
	f := newSessionFixture(t)

	_, err := f.svc.Open(context.Background(), uuid.New(), f.terminalID, "4321")
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestOpenSessionInactiveEmployee(t *testing.T) {
	f := newSessionFixture(t)
	f.employeeRepo.employees[f.employeeID].Active = false

	_, err := f.svc.Open(context.Background(), f.employeeID, f.terminalID, "4321")
	require.Error(t, err)
	assert.Equal(t, 403, apperror.GetAppError(err).Code)
}

func TestAtMostOneOpenSessionPerEmployee(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	_, err := f.svc.Open(ctx, f.employeeID, f.terminalID, "4321")
	require.NoError(t, err)

	// Same employee, different terminal
	_, err = f.svc.Open(ctx, f.employeeID, uuid.New(), "4321")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))
}

func TestCloseThenReopen(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	first, err := f.svc.Open(ctx, f.employeeID, f.terminalID, "4321")
	require.NoError(t, err)

	closed, err := f.svc.Close(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, closed.IsOpen())

	second, err := f.svc.Open(ctx, f.employeeID, f.terminalID, "4321")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCloseIsIdempotent(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	session, err := f.svc.Open(ctx, f.employeeID, f.terminalID, "4321")
	require.NoError(t, err)

	closedOnce, err := f.svc.Close(ctx, session.ID)
	require.NoError(t, err)
	closedTwice, err := f.svc.Close(ctx, session.ID)
	require.NoError(t, err)

	assert.Equal(t, closedOnce.ClosedAt.Unix(), closedTwice.ClosedAt.Unix())
}

func TestCloseUnknownSession(t *testing.T) {
	f := newSessionFixture(t)

	_, err := f.svc.Close(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}
