package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/entity"
)

// SessionRepository defines the interface for employee session operations
type SessionRepository interface {
	Create(ctx context.Context, session *entity.EmployeeSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.EmployeeSession, error)
	GetOpenByEmployee(ctx context.Context, employeeID uuid.UUID) (*entity.EmployeeSession, error)
	// Close sets closed_at conditionally on the session still being open.
	// Returns ErrVersionConflict if another writer closed it first.
	Close(ctx context.Context, id uuid.UUID) error
}

// EmployeeRepository is the read-only view of staff owned by the surrounding app
type EmployeeRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Employee, error)
}
