package daemon

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/bizdesk/bizdesk/internal/config"
	"github.com/bizdesk/bizdesk/internal/db/models"
	"github.com/bizdesk/bizdesk/internal/tenant"
)

// seed writes the tenant rows from configuration and a default admin user
// for the default tenant on first start.
func seed(cfg *config.Config, db *gorm.DB) {
	resolver := tenant.NewResolver(cfg.Tenant)

	for _, slug := range resolver.Slugs() {
		var existing models.Tenant
		if err := db.Where("slug = ?", slug).First(&existing).Error; err == nil {
			continue
		}

		db.Create(&models.Tenant{
			Slug:    slug,
			Name:    slug,
			Enabled: true,
		})
	}

	var count int64
	db.Model(&models.User{}).Where("tenant_id = ?", cfg.Tenant.Default).Count(&count)

	if count == 0 {
		// change the password right after first login
		db.Create(
			&models.User{
				TenantID:    cfg.Tenant.Default,
				Username:    "admin",
				DisplayName: "Administrator",
				Password:    models.HashPassword("changeme"),
				Role:        models.RoleAdmin,
				Status:      models.StatusApproved,
				Permissions: datatypes.NewJSONType(models.PermissionMap{}),
				AllowedTabs: datatypes.NewJSONType(models.TabMap{}),
			},
		)
	}
}
