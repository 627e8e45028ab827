// Package product provides tenant-scoped CRUD operations for warehouse
// products and stock movements.
package product

import (
	"errors"

	"gorm.io/gorm"

	"github.com/bizdesk/bizdesk/internal/db/models"
)

const (
	whereTenantAndID = "tenant_id = ? AND id = ?"

	// MovementWindow caps the number of movements returned per listing.
	MovementWindow = 200
)

var (
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrSKUExists is returned when attempting to create a product with a duplicate SKU.
	ErrSKUExists = errors.New("product with this sku already exists")
	// ErrInsufficientStock is returned when an export movement exceeds the current stock.
	ErrInsufficientStock = errors.New("insufficient stock for export")
	// ErrInvalidQuantity is returned when a movement quantity is not positive.
	ErrInvalidQuantity = errors.New("movement quantity must be positive")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// List retrieves all products of a tenant.
func List(db *gorm.DB, tenantID string) ([]models.Product, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var products []models.Product
	result := db.Where("tenant_id = ?", tenantID).Order("name").Find(&products)
	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

// Get retrieves a product by id within a tenant.
func Get(db *gorm.DB, tenantID, id string) (*models.Product, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var product models.Product
	result := db.Where(whereTenantAndID, tenantID, id).First(&product)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, result.Error
	}

	return &product, nil
}

// Create creates a new product. The SKU must be unique within the tenant.
func Create(db *gorm.DB, product *models.Product) error {
	if db == nil {
		return ErrDBNil
	}

	var existing models.Product
	result := db.Where("tenant_id = ? AND sku = ?", product.TenantID, product.SKU).First(&existing)
	if result.Error == nil {
		return ErrSKUExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	return db.Create(product).Error
}

// Update applies field updates to a product within a tenant.
func Update(db *gorm.DB, tenantID, id string, updates map[string]interface{}) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(&models.Product{}).Where(whereTenantAndID, tenantID, id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product within a tenant.
func Delete(db *gorm.DB, tenantID, id string) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Where(whereTenantAndID, tenantID, id).Delete(&models.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Count returns the number of products of a tenant.
func Count(db *gorm.DB, tenantID string) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64
	result := db.Model(&models.Product{}).Where("tenant_id = ?", tenantID).Count(&count)

	return count, result.Error
}

// ApplyMovement books a stock movement and adjusts the product counter in
// one transaction. Export movements beyond the current stock are refused.
func ApplyMovement(db *gorm.DB, movement *models.StockMovement) error {
	if db == nil {
		return ErrDBNil
	}

	if movement.Quantity <= 0 {
		return ErrInvalidQuantity
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var product models.Product

		err := tx.Where(whereTenantAndID, movement.TenantID, movement.ProductID).First(&product).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return err
		}

		delta := movement.Quantity
		if movement.Kind == models.MovementExport {
			if product.Stock < movement.Quantity {
				return ErrInsufficientStock
			}

			delta = -movement.Quantity
		}

		if err := tx.Model(&product).Update("stock", gorm.Expr("stock + ?", delta)).Error; err != nil {
			return err
		}

		return tx.Create(movement).Error
	})
}

// ListMovements retrieves the recent movements of a tenant, optionally
// filtered by kind, newest first, capped at MovementWindow rows.
func ListMovements(db *gorm.DB, tenantID string, kind models.MovementKind) ([]models.StockMovement, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	query := db.Where("tenant_id = ?", tenantID)
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var movements []models.StockMovement
	result := query.Order("created_at DESC").Limit(MovementWindow).Find(&movements)
	if result.Error != nil {
		return nil, result.Error
	}

	return movements, nil
}
