package models

import "time"

// Activity represents one entry in the per-tenant activity log.
// Every mutating handler records who did what to which record.
type Activity struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	TenantID  string    `gorm:"size:50;not null;index" json:"tenant_id"`
	Actor     string    `gorm:"size:100;not null" json:"actor"`
	Module    string    `gorm:"size:50;not null" json:"module"`
	Action    string    `gorm:"size:50;not null" json:"action"`
	TargetID  string    `gorm:"size:100" json:"target_id"`
	Detail    string    `gorm:"size:255" json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the database table name for the Activity model.
func (Activity) TableName() string {
	return "activities"
}
