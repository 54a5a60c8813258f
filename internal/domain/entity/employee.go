package entity

import (
	"time"

	"github.com/google/uuid"
)

// Employee is a read model of the venue staff. The surrounding application
// owns employee CRUD; this backend only reads the row to verify the PIN when
// a session opens.
type Employee struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"size:150;not null" json:"name"`
	PinHash   string    `gorm:"size:100;not null" json:"-"` // bcrypt hash
	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the Employee model
func (Employee) TableName() string {
	return "employees"
}
