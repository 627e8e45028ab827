// Package job provides tenant-scoped operations for technical repair jobs.
package job

import (
	"errors"

	"gorm.io/gorm"

	"github.com/bizdesk/bizdesk/internal/db/models"
	"github.com/bizdesk/bizdesk/internal/uniuri"
)

const (
	whereTenantAndID = "tenant_id = ? AND id = ?"

	referenceLen = 8
)

var (
	// ErrJobNotFound is returned when a repair job is not found.
	ErrJobNotFound = errors.New("repair job not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// NewReference generates a human-readable job reference.
func NewReference() string {
	return "RJ-" + uniuri.NewLenChars(referenceLen, []byte("ABCDEFGHJKLMNPQRSTUVWXYZ23456789"))
}

// List retrieves all repair jobs of a tenant, newest first.
func List(db *gorm.DB, tenantID string) ([]models.TechJob, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var jobs []models.TechJob
	result := db.Where("tenant_id = ?", tenantID).Order("created_at DESC").Find(&jobs)
	if result.Error != nil {
		return nil, result.Error
	}

	return jobs, nil
}

// Get retrieves a repair job by id within a tenant.
func Get(db *gorm.DB, tenantID, id string) (*models.TechJob, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var j models.TechJob
	result := db.Where(whereTenantAndID, tenantID, id).First(&j)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, result.Error
	}

	return &j, nil
}

// Create creates a new repair job and assigns a reference when missing.
func Create(db *gorm.DB, j *models.TechJob) error {
	if db == nil {
		return ErrDBNil
	}

	if j.Reference == "" {
		j.Reference = NewReference()
	}
	if j.Status == "" {
		j.Status = models.JobReceived
	}

	return db.Create(j).Error
}

// Update applies field updates to a repair job within a tenant.
func Update(db *gorm.DB, tenantID, id string, updates map[string]interface{}) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(&models.TechJob{}).Where(whereTenantAndID, tenantID, id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}

	return nil
}

// Count returns the number of repair jobs of a tenant.
func Count(db *gorm.DB, tenantID string) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64
	result := db.Model(&models.TechJob{}).Where("tenant_id = ?", tenantID).Count(&count)

	return count, result.Error
}
