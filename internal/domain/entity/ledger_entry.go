package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/enum"
)

// LedgerEntry is an immutable financial movement. Corrections are new entries,
// never edits; rows are only removed by the audited checkpoint reset.
type LedgerEntry struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Ledger         enum.Ledger    `gorm:"size:20;not null;index" json:"ledger"`
	Kind           enum.EntryKind `gorm:"size:20;not null;index" json:"kind"`
	Amount         int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Reason         string         `gorm:"size:255" json:"reason"`
	IdempotencyKey *string        `gorm:"size:255;uniqueIndex" json:"idempotency_key,omitempty"`
	OrderID        *uuid.UUID     `gorm:"type:uuid;index" json:"order_id,omitempty"`
	OccurredAt     time.Time      `gorm:"not null;index" json:"occurred_at"`
	CreatedAt      time.Time      `json:"created_at"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (e LedgerEntry) MarshalJSON() ([]byte, error) {
	type Alias LedgerEntry
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(e),
		Amount: float64(e.Amount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new entry
func (e *LedgerEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	return nil
}

// TableName returns the table name for the LedgerEntry model
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

// LedgerCheckpoint anchors the derived balance for one ledger: the base amount,
// the moment the reporting period started, and the version used as the
// compare-and-swap anchor for check-then-write operations (withdrawals).
// The balance itself is never stored; it is always base + fold(entries since ResetAt).
type LedgerCheckpoint struct {
	ID         uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	Ledger     enum.Ledger `gorm:"size:20;not null;uniqueIndex" json:"ledger"`
	BaseAmount int64       `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Version    int64       `gorm:"default:0" json:"version"`
	ResetAt    time.Time   `gorm:"not null" json:"reset_at"`
	ResetBy    string      `gorm:"size:150" json:"reset_by,omitempty"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (c LedgerCheckpoint) MarshalJSON() ([]byte, error) {
	type Alias LedgerCheckpoint
	return json.Marshal(&struct {
		Alias
		BaseAmount float64 `json:"base_amount"`
	}{
		Alias:      Alias(c),
		BaseAmount: float64(c.BaseAmount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new checkpoint
func (c *LedgerCheckpoint) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.ResetAt.IsZero() {
		c.ResetAt = time.Now()
	}
	return nil
}

// TableName returns the table name for the LedgerCheckpoint model
func (LedgerCheckpoint) TableName() string {
	return "ledger_checkpoints"
}
