package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Media task status lifecycle.
const (
	TaskOpen       = "open"
	TaskInProgress = "in_progress"
	TaskReview     = "review"
	TaskDone       = "done"
)

// MediaTask represents a media production task (video, design, post).
// Level-1 principals only see tasks they created or are assigned to.
type MediaTask struct {
	ID        string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID  string     `gorm:"size:50;not null;index" json:"tenant_id"`
	Title     string     `gorm:"size:255;not null" json:"title"`
	Channel   string     `gorm:"size:100" json:"channel"`
	Status    string     `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	Assignee  string     `gorm:"size:100" json:"assignee"`
	CreatedBy string     `gorm:"size:100" json:"created_by"`
	DueDate   *time.Time `json:"due_date"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// BeforeCreate assigns a uuid primary key when none was provided.
func (t *MediaTask) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	return nil
}

// OwnerName implements the ownership capability for visibility filtering.
func (t MediaTask) OwnerName() string { return t.CreatedBy }

// AssigneeName implements the ownership capability.
func (t MediaTask) AssigneeName() string { return t.Assignee }

// CreatorName implements the ownership capability.
func (t MediaTask) CreatorName() string { return t.CreatedBy }

// TableName specifies the database table name for the MediaTask model.
func (MediaTask) TableName() string {
	return "media_tasks"
}
