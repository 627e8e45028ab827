// Package order provides tenant-scoped operations for sales orders.
package order

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/bizdesk/bizdesk/internal/db/models"
	"github.com/bizdesk/bizdesk/internal/uniuri"
)

const (
	whereTenantAndID = "tenant_id = ? AND id = ?"

	referenceLen = 8
)

var (
	// ErrOrderNotFound is returned when an order is not found.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderNotDraft is returned when attempting to modify a confirmed order.
	ErrOrderNotDraft = errors.New("only draft orders can be modified")
	// ErrEmptyOrder is returned when an order has no items.
	ErrEmptyOrder = errors.New("order has no items")
	// ErrInvalidStatusChange is returned when a status change does not
	// follow the order lifecycle.
	ErrInvalidStatusChange = errors.New("invalid order status change")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// NewReference generates a human-readable order reference.
func NewReference() string {
	return "SO-" + uniuri.NewLenChars(referenceLen, []byte("ABCDEFGHJKLMNPQRSTUVWXYZ23456789"))
}

// List retrieves all orders of a tenant, newest first.
func List(db *gorm.DB, tenantID string) ([]models.Order, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var orders []models.Order
	result := db.Where("tenant_id = ?", tenantID).Order("created_at DESC").Find(&orders)
	if result.Error != nil {
		return nil, result.Error
	}

	return orders, nil
}

// Get retrieves an order by id within a tenant.
func Get(db *gorm.DB, tenantID, id string) (*models.Order, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var order models.Order
	result := db.Where(whereTenantAndID, tenantID, id).First(&order)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, result.Error
	}

	return &order, nil
}

// Create creates a new order. The total is recomputed from the items and a
// reference is assigned when missing.
func Create(db *gorm.DB, order *models.Order) error {
	if db == nil {
		return ErrDBNil
	}

	items := order.Items.Data()
	if len(items) == 0 {
		return ErrEmptyOrder
	}

	order.Total = Total(items)

	if order.Reference == "" {
		order.Reference = NewReference()
	}
	if order.Status == "" {
		order.Status = models.OrderDraft
	}

	return db.Create(order).Error
}

// Total sums up the item lines of an order.
func Total(items []models.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	return total
}

// UpdateItems replaces the items of a draft order and recomputes the total.
func UpdateItems(db *gorm.DB, tenantID, id string, items []models.OrderItem) error {
	if db == nil {
		return ErrDBNil
	}

	if len(items) == 0 {
		return ErrEmptyOrder
	}

	order, err := Get(db, tenantID, id)
	if err != nil {
		return err
	}

	if order.Status != models.OrderDraft {
		return ErrOrderNotDraft
	}

	order.Items = datatypes.NewJSONType(items)
	order.Total = Total(items)

	return db.Save(order).Error
}

// transitions lists the allowed next statuses per current status. Done and
// cancelled are terminal.
var transitions = map[string][]string{
	models.OrderDraft:     {models.OrderConfirmed, models.OrderCancelled},
	models.OrderConfirmed: {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped:   {models.OrderDone, models.OrderCancelled},
}

func canTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}

	return false
}

// SetStatus moves an order one step along its lifecycle
// (draft -> confirmed -> shipped -> done, cancelled from any open status).
func SetStatus(db *gorm.DB, tenantID, id, status string) error {
	if db == nil {
		return ErrDBNil
	}

	order, err := Get(db, tenantID, id)
	if err != nil {
		return err
	}

	if !canTransition(order.Status, status) {
		return ErrInvalidStatusChange
	}

	return db.Model(order).Update("status", status).Error
}

// Count returns the number of orders of a tenant.
func Count(db *gorm.DB, tenantID string) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64
	result := db.Model(&models.Order{}).Where("tenant_id = ?", tenantID).Count(&count)

	return count, result.Error
}
