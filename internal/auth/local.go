package auth

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/bizdesk/bizdesk/internal/db/models"
)

// LocalProvider handles local database authentication and the account
// lifecycle (register pending -> approve/reject/suspend).
type LocalProvider struct {
	db *gorm.DB
}

const (
	whereTenantAndUsername = "tenant_id = ? AND username = ?"

	whereID = "id = ?"
)

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db: db,
	}
}

// Authenticate authenticates a user against the local database.
// Only approved accounts may log in; pending, rejected and suspended
// accounts are turned away with distinct errors.
func (p *LocalProvider) Authenticate(tenantID, username, password string) (*models.User, error) {
	var user models.User

	err := p.db.Where(whereTenantAndUsername, tenantID, username).First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	switch user.Status {
	case models.StatusApproved:
		// ok
	case models.StatusPending:
		return nil, ErrUserNotApproved
	default:
		return nil, ErrUserAccountDisabled
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	user.UpdatedAt = time.Now()
	p.db.Save(&user)

	return &user, nil
}

// Register creates a new pending user with an empty permission map.
// Every capability starts at level zero until an admin approves the
// account and assigns permissions.
func (p *LocalProvider) Register(
	tenantID, username, password, displayName, email, team string,
) (*models.User, error) {
	var existing models.User

	err := p.db.Where(whereTenantAndUsername, tenantID, username).First(&existing).Error
	if err == nil {
		return nil, ErrUserNameExists
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	user := models.User{
		TenantID:    tenantID,
		Username:    username,
		DisplayName: displayName,
		Email:       email,
		Password:    models.HashPassword(password),
		Role:        models.RoleStaff,
		Team:        team,
		Status:      models.StatusPending,
		Permissions: datatypes.NewJSONType(models.PermissionMap{}),
		AllowedTabs: datatypes.NewJSONType(models.TabMap{}),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := p.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// ChangePassword changes a user's password after verifying the old one.
func (p *LocalProvider) ChangePassword(userID uint64, oldPassword, newPassword string) error {
	var user models.User
	if err := p.db.Where(whereID, userID).First(&user).Error; err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	if !user.VerifyPassword(oldPassword) {
		return ErrInvalidOldPassword
	}

	return p.db.Model(&models.User{}).
		Where(whereID, userID).
		Update("password", models.HashPassword(newPassword)).Error
}

// ResetPassword resets a user's password (admin function).
func (p *LocalProvider) ResetPassword(userID uint64, newPassword string) error {
	return p.db.Model(&models.User{}).
		Where(whereID, userID).
		Update("password", models.HashPassword(newPassword)).Error
}

// SetStatus moves a user to a new lifecycle status.
func (p *LocalProvider) SetStatus(userID uint64, status models.UserStatus) error {
	return p.db.Model(&models.User{}).
		Where(whereID, userID).
		Update("status", status).Error
}

// SetRole changes a user's role flag.
func (p *LocalProvider) SetRole(userID uint64, role models.Role) error {
	return p.db.Model(&models.User{}).
		Where(whereID, userID).
		Update("role", role).Error
}

// SetPermissions replaces a user's module -> level map wholesale.
// The affected principal picks the change up on its next request, because
// sessions are revalidated against the stored row.
func (p *LocalProvider) SetPermissions(userID uint64, perms models.PermissionMap) error {
	return p.db.Model(&models.User{}).
		Where(whereID, userID).
		Update("permissions", datatypes.NewJSONType(perms)).Error
}

// SetAllowedTabs replaces a user's module -> allowed tab lists wholesale.
func (p *LocalProvider) SetAllowedTabs(userID uint64, tabs models.TabMap) error {
	return p.db.Model(&models.User{}).
		Where(whereID, userID).
		Update("allowed_tabs", datatypes.NewJSONType(tabs)).Error
}

// GetUserByID retrieves a user by ID.
func (p *LocalProvider) GetUserByID(userID uint64) (*models.User, error) {
	var user models.User
	if err := p.db.First(&user, userID).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// ListUsers lists the users of a tenant with optional status filter.
func (p *LocalProvider) ListUsers(
	tenantID string,
	status models.UserStatus,
	limit, offset int,
) ([]models.User, int64, error) {
	var users []models.User

	var total int64

	query := p.db.Model(&models.User{}).Where("tenant_id = ?", tenantID)

	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Limit(limit).Offset(offset).Order("id").Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}
