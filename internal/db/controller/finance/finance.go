// Package finance provides tenant-scoped operations for income and expense
// entries.
package finance

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bizdesk/bizdesk/internal/db/models"
)

const whereTenantAndID = "tenant_id = ? AND id = ?"

var (
	// ErrEntryNotFound is returned when a finance entry is not found.
	ErrEntryNotFound = errors.New("finance entry not found")
	// ErrInvalidAmount is returned when an entry amount is not positive.
	ErrInvalidAmount = errors.New("entry amount must be positive")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Totals holds the aggregated income and expense of a tenant.
type Totals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Balance returns income minus expense.
func (t Totals) Balance() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

// List retrieves all finance entries of a tenant, newest entry date first.
func List(db *gorm.DB, tenantID string) ([]models.FinanceEntry, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var entries []models.FinanceEntry
	result := db.Where("tenant_id = ?", tenantID).Order("entry_date DESC, created_at DESC").Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}

// Get retrieves a finance entry by id within a tenant.
func Get(db *gorm.DB, tenantID, id string) (*models.FinanceEntry, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var entry models.FinanceEntry
	result := db.Where(whereTenantAndID, tenantID, id).First(&entry)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, result.Error
	}

	return &entry, nil
}

// Create creates a new finance entry.
func Create(db *gorm.DB, entry *models.FinanceEntry) error {
	if db == nil {
		return ErrDBNil
	}

	if !entry.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	return db.Create(entry).Error
}

// Update applies field updates to a finance entry within a tenant.
func Update(db *gorm.DB, tenantID, id string, updates map[string]interface{}) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(&models.FinanceEntry{}).Where(whereTenantAndID, tenantID, id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// Delete removes a finance entry within a tenant.
func Delete(db *gorm.DB, tenantID, id string) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Where(whereTenantAndID, tenantID, id).Delete(&models.FinanceEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// Sum aggregates income and expense of a tenant. Only entries visible to
// the caller should be aggregated; pass the already filtered slice.
func Sum(entries []models.FinanceEntry) Totals {
	totals := Totals{Income: decimal.Zero, Expense: decimal.Zero}

	for _, entry := range entries {
		switch entry.Kind {
		case models.EntryIncome:
			totals.Income = totals.Income.Add(entry.Amount)
		case models.EntryExpense:
			totals.Expense = totals.Expense.Add(entry.Amount)
		}
	}

	return totals
}
