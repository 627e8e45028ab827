package models

import "time"

// Tenant represents an isolated tenant in the system.
// Every domain row carries the tenant slug; no query ever crosses tenants.
// Rows are seeded from the configured subdomain table on startup.
type Tenant struct {
	// Slug is the unique tenant identifier derived from the subdomain table.
	Slug string `gorm:"primaryKey;size:50" json:"slug"`
	// Name is the display name of the company.
	Name string `gorm:"size:100" json:"name"`
	// Enabled indicates whether the tenant accepts logins.
	Enabled bool `gorm:"default:true" json:"enabled"`
	// CreatedAt is the timestamp when the tenant was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the tenant was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the Tenant model.
func (Tenant) TableName() string {
	return "tenants"
}
