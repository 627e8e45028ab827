package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Warranty claim status lifecycle: received -> processing -> resolved/rejected.
const (
	ClaimReceived   = "received"
	ClaimProcessing = "processing"
	ClaimResolved   = "resolved"
	ClaimRejected   = "rejected"
)

// WarrantyClaim represents a customer warranty claim on a sold product.
type WarrantyClaim struct {
	ID         string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID   string     `gorm:"size:50;not null;index" json:"tenant_id"`
	Product    string     `gorm:"size:255;not null" json:"product"`
	SerialNo   string     `gorm:"size:100" json:"serial_no"`
	Customer   string     `gorm:"size:255;not null" json:"customer"`
	Phone      string     `gorm:"size:50" json:"phone"`
	Status     string     `gorm:"type:varchar(20);not null;default:'received'" json:"status"`
	ReceivedAt time.Time  `json:"received_at"`
	ResolvedAt *time.Time `json:"resolved_at"`
	CreatedBy  string     `gorm:"size:100" json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// BeforeCreate assigns a uuid primary key when none was provided.
func (w *WarrantyClaim) BeforeCreate(_ *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}

	return nil
}

// TableName specifies the database table name for the WarrantyClaim model.
func (WarrantyClaim) TableName() string {
	return "warranty_claims"
}
