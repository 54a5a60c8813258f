package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/entity"
	domainRepo "github.com/francoluca35/comandas-multiples-sub008/internal/domain/repository"
)

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new employee session repository
func NewSessionRepository(db *gorm.DB) domainRepo.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *entity.EmployeeSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.EmployeeSession, error) {
	var session entity.EmployeeSession
	err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *sessionRepository) GetOpenByEmployee(ctx context.Context, employeeID uuid.UUID) (*entity.EmployeeSession, error) {
	var session entity.EmployeeSession
	err := r.db.WithContext(ctx).
		First(&session, "employee_id = ? AND closed_at IS NULL", employeeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *sessionRepository) Close(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&entity.EmployeeSession{}).
		Where("id = ? AND closed_at IS NULL", id).
		Update("closed_at", time.Now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainRepo.ErrVersionConflict
	}
	return nil
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a read-only employee repository
func NewEmployeeRepository(db *gorm.DB) domainRepo.EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Employee, error) {
	var employee entity.Employee
	err := r.db.WithContext(ctx).First(&employee, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &employee, err
}
