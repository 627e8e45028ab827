package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Technical job status lifecycle.
const (
	JobReceived = "received"
	JobWorking  = "working"
	JobWaiting  = "waiting_parts"
	JobDone     = "done"
)

// TechJob represents a technical service job (repair, installation).
// Level-1 principals only see jobs they created or are assigned to.
type TechJob struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID  string    `gorm:"size:50;not null;index" json:"tenant_id"`
	Reference string    `gorm:"size:20;not null;uniqueIndex:idx_tenant_job_reference" json:"reference"`
	Device    string    `gorm:"size:255;not null" json:"device"`
	Issue     string    `gorm:"size:1024" json:"issue"`
	Status    string    `gorm:"type:varchar(20);not null;default:'received'" json:"status"`
	Assignee  string    `gorm:"size:100" json:"assignee"`
	CreatedBy string    `gorm:"size:100" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a uuid primary key when none was provided.
func (j *TechJob) BeforeCreate(_ *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}

	return nil
}

// OwnerName implements the ownership capability for visibility filtering.
func (j TechJob) OwnerName() string { return j.CreatedBy }

// AssigneeName implements the ownership capability.
func (j TechJob) AssigneeName() string { return j.Assignee }

// CreatorName implements the ownership capability.
func (j TechJob) CreatorName() string { return j.CreatedBy }

// TableName specifies the database table name for the TechJob model.
func (TechJob) TableName() string {
	return "tech_jobs"
}
