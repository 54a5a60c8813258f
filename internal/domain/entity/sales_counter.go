package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/enum"
)

// SalesCounter counts finalized orders per calendar month and channel.
// Incremented exactly once per successful payment finalization.
type SalesCounter struct {
	ID        uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	Period    string       `gorm:"size:7;not null;uniqueIndex:idx_counters_period_channel" json:"period"` // YYYY-MM
	Channel   enum.Channel `gorm:"size:20;not null;uniqueIndex:idx_counters_period_channel" json:"channel"`
	Count     int64        `gorm:"default:0" json:"count"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new counter
func (s *SalesCounter) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SalesCounter model
func (SalesCounter) TableName() string {
	return "sales_counters"
}

// PeriodOf formats a timestamp into the counter period key
func PeriodOf(t time.Time) string {
	return t.Format("2006-01")
}
