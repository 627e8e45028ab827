// Package task provides tenant-scoped operations for media production tasks.
package task

import (
	"errors"

	"gorm.io/gorm"

	"github.com/bizdesk/bizdesk/internal/db/models"
)

const whereTenantAndID = "tenant_id = ? AND id = ?"

var (
	// ErrTaskNotFound is returned when a media task is not found.
	ErrTaskNotFound = errors.New("media task not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// List retrieves all media tasks of a tenant, newest first.
func List(db *gorm.DB, tenantID string) ([]models.MediaTask, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var tasks []models.MediaTask
	result := db.Where("tenant_id = ?", tenantID).Order("created_at DESC").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}

	return tasks, nil
}

// Get retrieves a media task by id within a tenant.
func Get(db *gorm.DB, tenantID, id string) (*models.MediaTask, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var task models.MediaTask
	result := db.Where(whereTenantAndID, tenantID, id).First(&task)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}

	return &task, nil
}

// Create creates a new media task.
func Create(db *gorm.DB, task *models.MediaTask) error {
	if db == nil {
		return ErrDBNil
	}

	if task.Status == "" {
		task.Status = models.TaskOpen
	}

	return db.Create(task).Error
}

// Update applies field updates to a media task within a tenant.
func Update(db *gorm.DB, tenantID, id string, updates map[string]interface{}) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(&models.MediaTask{}).Where(whereTenantAndID, tenantID, id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// Delete removes a media task within a tenant.
func Delete(db *gorm.DB, tenantID, id string) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Where(whereTenantAndID, tenantID, id).Delete(&models.MediaTask{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// Count returns the number of media tasks of a tenant.
func Count(db *gorm.DB, tenantID string) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64
	result := db.Model(&models.MediaTask{}).Where("tenant_id = ?", tenantID).Count(&count)

	return count, result.Error
}
