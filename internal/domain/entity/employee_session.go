package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmployeeSession tracks one employee's shift at a terminal. At most one open
// session per employee; enforced by read-check-write under retry, with a
// partial unique index as the database backstop.
type EmployeeSession struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	EmployeeID uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_sessions_open_employee,where:closed_at IS NULL" json:"employee_id"`
	TerminalID uuid.UUID  `gorm:"type:uuid;not null;index" json:"terminal_id"`
	OpenedAt   time.Time  `gorm:"not null" json:"opened_at"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new session
func (s *EmployeeSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.OpenedAt.IsZero() {
		s.OpenedAt = time.Now()
	}
	return nil
}

// TableName returns the table name for the EmployeeSession model
func (EmployeeSession) TableName() string {
	return "employee_sessions"
}

// IsOpen reports whether the session has not been closed yet
func (s *EmployeeSession) IsOpen() bool {
	return s.ClosedAt == nil
}
