package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/entity"
	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/repository"
	"github.com/francoluca35/comandas-multiples-sub008/pkg/apperror"
)

// SessionService enforces "at most one open session per employee" the same way
// payment finalization does: read-check-write under bounded retry, with a
// partial unique index as the database backstop.
type SessionService struct {
	sessionRepo  repository.SessionRepository
	employeeRepo repository.EmployeeRepository
	maxRetries   int
}

// NewSessionService creates a new session service
func NewSessionService(sessionRepo repository.SessionRepository, employeeRepo repository.EmployeeRepository, maxRetries int) *SessionService {
	if maxRetries <= 0 {
		maxRetries = 5
	}
	return &SessionService{
		sessionRepo:  sessionRepo,
		employeeRepo: employeeRepo,
		maxRetries:   maxRetries,
	}
}

// Open starts a shift for an employee after verifying their PIN
func (s *SessionService) Open(ctx context.Context, employeeID, terminalID uuid.UUID, pin string) (*entity.EmployeeSession, error) {
	employee, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, apperror.NewNotFoundError("Employee")
	}
	if !employee.Active {
		return nil, apperror.ErrForbidden
	}
	if err := bcrypt.CompareHashAndPassword([]byte(employee.PinHash), []byte(pin)); err != nil {
		return nil, apperror.ErrUnauthorized
	}

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		existing, err := s.sessionRepo.GetOpenByEmployee(ctx, employeeID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewInvalidStateError("employee already has an open session")
		}

		session := &entity.EmployeeSession{
			EmployeeID: employeeID,
			TerminalID: terminalID,
		}
		if err := s.sessionRepo.Create(ctx, session); err != nil {
			// Likely lost the race to the unique open-session index; re-read
			// to confirm and surface the invariant violation instead
			continue
		}
		return session, nil
	}
	return nil, apperror.NewConcurrentModificationError("session state changed concurrently, retries exhausted")
}

// Close ends a session. Closing an already-closed session is a no-op.
func (s *SessionService) Close(ctx context.Context, sessionID uuid.UUID) (*entity.EmployeeSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Session")
	}
	if !session.IsOpen() {
		return session, nil
	}

	err = s.sessionRepo.Close(ctx, sessionID)
	if err != nil && !errors.Is(err, repository.ErrVersionConflict) {
		return nil, err
	}
	return s.sessionRepo.GetByID(ctx, sessionID)
}
