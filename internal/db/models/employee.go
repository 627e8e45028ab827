package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Employee represents a staff record in the HR module.
// Not every employee has a login; the optional UserID links the two.
type Employee struct {
	ID         string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID   string          `gorm:"size:50;not null;index" json:"tenant_id"`
	FullName   string          `gorm:"size:255;not null" json:"full_name"`
	Position   string          `gorm:"size:100" json:"position"`
	Team       string          `gorm:"size:100" json:"team"`
	BaseSalary decimal.Decimal `gorm:"type:decimal(14,2)" json:"base_salary"`
	UserID     *uint64         `json:"user_id"`
	HiredAt    *time.Time      `json:"hired_at"`
	LeftAt     *time.Time      `json:"left_at"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// BeforeCreate assigns a uuid primary key when none was provided.
func (e *Employee) BeforeCreate(_ *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	return nil
}

// TableName specifies the database table name for the Employee model.
func (Employee) TableName() string {
	return "employees"
}
