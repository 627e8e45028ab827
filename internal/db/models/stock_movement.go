package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovementKind distinguishes goods-in from goods-out movements.
type MovementKind string

const (
	// MovementImport books stock into the warehouse.
	MovementImport MovementKind = "import"
	// MovementExport books stock out of the warehouse.
	MovementExport MovementKind = "export"
)

// StockMovement represents a single goods-in or goods-out booking.
// Applying a movement adjusts the stock counter of the referenced product.
type StockMovement struct {
	ID        string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID  string       `gorm:"size:50;not null;index" json:"tenant_id"`
	ProductID string       `gorm:"type:varchar(36);not null;index" json:"product_id"`
	Kind      MovementKind `gorm:"type:varchar(10);not null" json:"kind"`
	Quantity  int          `gorm:"not null" json:"quantity"`
	Note      string       `gorm:"size:255" json:"note"`
	CreatedBy string       `gorm:"size:100" json:"created_by"`
	CreatedAt time.Time    `json:"created_at"`
}

// BeforeCreate assigns a uuid primary key when none was provided.
func (m *StockMovement) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	return nil
}

// TableName specifies the database table name for the StockMovement model.
func (StockMovement) TableName() string {
	return "stock_movements"
}
