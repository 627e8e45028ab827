package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a stocked item in the warehouse module.
type Product struct {
	ID        string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID  string          `gorm:"size:50;not null;index" json:"tenant_id"`
	SKU       string          `gorm:"size:100;not null;uniqueIndex:idx_tenant_sku" json:"sku"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	Category  string          `gorm:"size:100" json:"category"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(14,2)" json:"unit_price"`
	Stock     int             `gorm:"not null;default:0" json:"stock"`
	CreatedBy string          `gorm:"size:100" json:"created_by"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BeforeCreate assigns a uuid primary key when none was provided.
func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	return nil
}

// TableName specifies the database table name for the Product model.
func (Product) TableName() string {
	return "products"
}
