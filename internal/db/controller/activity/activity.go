// Package activity provides the per-tenant activity log.
package activity

import (
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/bizdesk/bizdesk/internal/db/models"
)

// RecentWindow caps the number of activity entries returned per listing.
const RecentWindow = 200

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Record stores one activity entry. Failures are logged but never bubble
// up; the log must not break the operation it describes.
func Record(db *gorm.DB, tenantID, actor, module, action, targetID, detail string) {
	if db == nil {
		return
	}

	entry := models.Activity{
		TenantID: tenantID,
		Actor:    actor,
		Module:   module,
		Action:   action,
		TargetID: targetID,
		Detail:   detail,
	}

	if err := db.Create(&entry).Error; err != nil {
		log.Error().Err(err).Str("module", module).Str("action", action).Msg("failed to record activity")
	}
}

// ListRecent retrieves the most recent activity of a tenant, newest first,
// capped at RecentWindow.
func ListRecent(db *gorm.DB, tenantID string) ([]models.Activity, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var entries []models.Activity
	result := db.Where("tenant_id = ?", tenantID).Order("id DESC").Limit(RecentWindow).Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}
