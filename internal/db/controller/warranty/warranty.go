// Package warranty provides tenant-scoped operations for warranty claims.
package warranty

import (
	"errors"

	"gorm.io/gorm"

	"github.com/bizdesk/bizdesk/internal/db/models"
)

const whereTenantAndID = "tenant_id = ? AND id = ?"

var (
	// ErrClaimNotFound is returned when a warranty claim is not found.
	ErrClaimNotFound = errors.New("warranty claim not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// List retrieves all warranty claims of a tenant, newest first.
func List(db *gorm.DB, tenantID string) ([]models.WarrantyClaim, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var claims []models.WarrantyClaim
	result := db.Where("tenant_id = ?", tenantID).Order("created_at DESC").Find(&claims)
	if result.Error != nil {
		return nil, result.Error
	}

	return claims, nil
}

// Get retrieves a warranty claim by id within a tenant.
func Get(db *gorm.DB, tenantID, id string) (*models.WarrantyClaim, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var claim models.WarrantyClaim
	result := db.Where(whereTenantAndID, tenantID, id).First(&claim)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrClaimNotFound
		}
		return nil, result.Error
	}

	return &claim, nil
}

// Create creates a new warranty claim.
func Create(db *gorm.DB, claim *models.WarrantyClaim) error {
	if db == nil {
		return ErrDBNil
	}

	if claim.Status == "" {
		claim.Status = models.ClaimReceived
	}

	return db.Create(claim).Error
}

// Update applies field updates to a warranty claim within a tenant.
func Update(db *gorm.DB, tenantID, id string, updates map[string]interface{}) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(&models.WarrantyClaim{}).Where(whereTenantAndID, tenantID, id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrClaimNotFound
	}

	return nil
}

// Count returns the number of warranty claims of a tenant.
func Count(db *gorm.DB, tenantID string) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64
	result := db.Model(&models.WarrantyClaim{}).Where("tenant_id = ?", tenantID).Count(&count)

	return count, result.Error
}
