// Package chat provides tenant-scoped operations for the internal chat.
package chat

import (
	"errors"

	"gorm.io/gorm"

	"github.com/bizdesk/bizdesk/internal/db/models"
)

// RecentWindow caps the number of messages returned per listing.
const RecentWindow = 100

var (
	// ErrEmptyMessage is returned when a message body is blank.
	ErrEmptyMessage = errors.New("chat message body is empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// ListRecent retrieves the most recent messages of a tenant in
// chronological order, capped at RecentWindow.
func ListRecent(db *gorm.DB, tenantID string) ([]models.ChatMessage, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var messages []models.ChatMessage
	result := db.Where("tenant_id = ?", tenantID).Order("id DESC").Limit(RecentWindow).Find(&messages)
	if result.Error != nil {
		return nil, result.Error
	}

	// reverse to chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// Post stores a new chat message.
func Post(db *gorm.DB, message *models.ChatMessage) error {
	if db == nil {
		return ErrDBNil
	}

	if message.Body == "" {
		return ErrEmptyMessage
	}

	return db.Create(message).Error
}
