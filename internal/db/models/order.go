package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Order status lifecycle: draft -> confirmed -> shipped -> done, or cancelled.
const (
	OrderDraft     = "draft"
	OrderConfirmed = "confirmed"
	OrderShipped   = "shipped"
	OrderDone      = "done"
	OrderCancelled = "cancelled"
)

// OrderItem is a single line of an order, stored inside the items JSON column.
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Order represents a sales order.
type Order struct {
	ID        string                          `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID  string                          `gorm:"size:50;not null;index" json:"tenant_id"`
	Reference string                          `gorm:"size:20;not null;uniqueIndex:idx_tenant_reference" json:"reference"`
	Customer  string                          `gorm:"size:255;not null" json:"customer"`
	Phone     string                          `gorm:"size:50" json:"phone"`
	Address   string                          `gorm:"size:255" json:"address"`
	Items     datatypes.JSONType[[]OrderItem] `json:"items"`
	Total     decimal.Decimal                 `gorm:"type:decimal(14,2)" json:"total"`
	Status    string                          `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	CreatedBy string                          `gorm:"size:100" json:"created_by"`
	CreatedAt time.Time                       `json:"created_at"`
	UpdatedAt time.Time                       `json:"updated_at"`
}

// BeforeCreate assigns a uuid primary key when none was provided.
func (o *Order) BeforeCreate(_ *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	return nil
}

// OwnerName implements the ownership capability for visibility filtering.
func (o Order) OwnerName() string { return o.CreatedBy }

// AssigneeName implements the ownership capability; orders have no assignee.
func (o Order) AssigneeName() string { return "" }

// CreatorName implements the ownership capability.
func (o Order) CreatorName() string { return o.CreatedBy }

// TableName specifies the database table name for the Order model.
func (Order) TableName() string {
	return "orders"
}
