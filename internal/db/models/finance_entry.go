package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EntryKind distinguishes income from expense ledger entries.
type EntryKind string

const (
	// EntryIncome marks money coming in.
	EntryIncome EntryKind = "income"
	// EntryExpense marks money going out.
	EntryExpense EntryKind = "expense"
)

// FinanceEntry represents a single ledger entry.
// Finance has asymmetric semantics: level 1 may create and edit own
// entries, only level 3 or admin may edit entries of others.
type FinanceEntry struct {
	ID          string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID    string          `gorm:"size:50;not null;index" json:"tenant_id"`
	Kind        EntryKind       `gorm:"type:varchar(10);not null" json:"kind"`
	Category    string          `gorm:"size:100" json:"category"`
	Description string          `gorm:"size:255" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	EntryDate   time.Time       `json:"entry_date"`
	CreatedBy   string          `gorm:"size:100" json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BeforeCreate assigns a uuid primary key when none was provided.
func (e *FinanceEntry) BeforeCreate(_ *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	return nil
}

// OwnerName implements the ownership capability for visibility filtering.
func (e FinanceEntry) OwnerName() string { return e.CreatedBy }

// AssigneeName implements the ownership capability; entries have no assignee.
func (e FinanceEntry) AssigneeName() string { return "" }

// CreatorName implements the ownership capability.
func (e FinanceEntry) CreatorName() string { return e.CreatedBy }

// TableName specifies the database table name for the FinanceEntry model.
func (FinanceEntry) TableName() string {
	return "finance_entries"
}
