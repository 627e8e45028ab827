// Package models contains database model definitions.
package models

// Setting represents a configuration setting stored per tenant.
type Setting struct {
	ID       uint64 `gorm:"primaryKey" json:"id"`
	TenantID string `gorm:"size:50;not null;uniqueIndex:idx_tenant_setting" json:"tenant_id"`
	Name     string `gorm:"size:100;not null;uniqueIndex:idx_tenant_setting" json:"name"`
	Value    []byte `gorm:"type:blob" json:"value"`
}

// TableName specifies the database table name for the Setting model.
func (Setting) TableName() string {
	return "settings"
}
