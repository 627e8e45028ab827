package models

import "time"

// ChatMessage represents one message in the tenant-wide internal chat.
// Listing is bounded to a fixed recent window; there is no realtime push.
type ChatMessage struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	TenantID  string    `gorm:"size:50;not null;index" json:"tenant_id"`
	Sender    string    `gorm:"size:100;not null" json:"sender"`
	Body      string    `gorm:"size:2048;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the database table name for the ChatMessage model.
func (ChatMessage) TableName() string {
	return "chat_messages"
}
