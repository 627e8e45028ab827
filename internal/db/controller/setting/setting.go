// Package setting provides tenant-scoped key value settings.
package setting

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bizdesk/bizdesk/internal/db/models"
)

const whereTenantAndName = "tenant_id = ? AND name = ?"

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a setting value by name within a tenant.
func Get(db *gorm.DB, tenantID, name string) ([]byte, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var s models.Setting
	result := db.Where(whereTenantAndName, tenantID, name).First(&s)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, result.Error
	}

	return s.Value, nil
}

// Set writes a setting value, overwriting any previous value of the name.
func Set(db *gorm.DB, tenantID, name string, value []byte) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&models.Setting{TenantID: tenantID, Name: name, Value: value}).Error
}

// List retrieves all settings of a tenant.
func List(db *gorm.DB, tenantID string) ([]models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var settings []models.Setting
	result := db.Where("tenant_id = ?", tenantID).Order("name").Find(&settings)
	if result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

// Delete removes a setting within a tenant.
func Delete(db *gorm.DB, tenantID, name string) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Where(whereTenantAndName, tenantID, name).Delete(&models.Setting{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}
