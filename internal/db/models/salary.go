package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Salary represents one monthly salary record of an employee.
type Salary struct {
	ID         string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID   string          `gorm:"size:50;not null;index" json:"tenant_id"`
	EmployeeID string          `gorm:"type:varchar(36);not null;uniqueIndex:idx_employee_month" json:"employee_id"`
	Month      string          `gorm:"size:7;not null;uniqueIndex:idx_employee_month" json:"month"` // YYYY-MM
	Base       decimal.Decimal `gorm:"type:decimal(14,2)" json:"base"`
	Bonus      decimal.Decimal `gorm:"type:decimal(14,2)" json:"bonus"`
	Deduction  decimal.Decimal `gorm:"type:decimal(14,2)" json:"deduction"`
	Paid       bool            `gorm:"default:false" json:"paid"`
	CreatedBy  string          `gorm:"size:100" json:"created_by"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Net returns base + bonus - deduction.
func (s Salary) Net() decimal.Decimal {
	return s.Base.Add(s.Bonus).Sub(s.Deduction)
}

// BeforeCreate assigns a uuid primary key when none was provided.
func (s *Salary) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	return nil
}

// TableName specifies the database table name for the Salary model.
func (Salary) TableName() string {
	return "salaries"
}
