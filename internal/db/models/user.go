package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// Role represents the role flag of a user account.
// Admins implicitly hold full capability on every module; everyone else is
// governed by the per-module permission map.
type Role string

const (
	// RoleAdmin marks an administrator account.
	RoleAdmin Role = "admin"
	// RoleStaff marks a regular staff account.
	RoleStaff Role = "staff"
)

// UserStatus represents the lifecycle status of a user account.
// Accounts start pending after registration and are moved by an admin;
// they are never hard-deleted in the normal flow.
type UserStatus string

const (
	// StatusPending indicates a freshly registered account awaiting approval.
	StatusPending UserStatus = "pending"
	// StatusApproved indicates an active account that may log in.
	StatusApproved UserStatus = "approved"
	// StatusRejected indicates a registration that was turned down.
	StatusRejected UserStatus = "rejected"
	// StatusSuspended indicates an account that was deactivated by an admin.
	StatusSuspended UserStatus = "suspended"
)

// PermissionMap maps a module name to a capability level:
// 0 = none, 1 = view own, 2 = view all, 3 = full edit.
// Missing keys mean level 0.
type PermissionMap map[string]int

// TabMap maps a module name to an explicit list of allowed tab identifiers.
// An absent or empty list means all tabs implied by the module level are
// allowed; a non-empty list narrows access to exactly the listed tabs.
type TabMap map[string][]string

// User represents a user account in the system.
// A user belongs to exactly one tenant and carries its own capability
// matrix (permission levels plus optional tab allow-lists) as JSON columns.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// TenantID is the slug of the tenant the user belongs to.
	TenantID string `gorm:"size:50;not null;uniqueIndex:idx_tenant_username" json:"tenant_id"`
	// Username is the login name, unique within the tenant.
	Username string `gorm:"size:100;not null;uniqueIndex:idx_tenant_username" json:"username"`
	// DisplayName is the human name ownership checks compare against.
	DisplayName string `gorm:"size:100" json:"display_name"`
	// Email is the user's email address.
	Email string `gorm:"size:255" json:"email"`
	// Password is the Argon2id hashed password.
	Password string `gorm:"size:255" json:"-"`
	// Role is the role flag (admin or staff).
	Role Role `gorm:"type:varchar(20);not null;default:'staff'" json:"role"`
	// Team is the team the user is a member of.
	Team string `gorm:"size:100" json:"team"`
	// Status is the account lifecycle status.
	Status UserStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	// Permissions is the module -> level capability map.
	Permissions datatypes.JSONType[PermissionMap] `json:"permissions"`
	// AllowedTabs is the optional module -> allowed tab list map.
	AllowedTabs datatypes.JSONType[TabMap] `json:"allowed_tabs"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
	// DeletedAt is the soft delete timestamp (nil if not deleted, managed by GORM).
	DeletedAt *time.Time `json:"-"`
}

// Sanitized returns a copy of the user with the password hash stripped.
// Use it whenever the user record leaves the process (session snapshot,
// API response).
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
// This function should be used when creating or updating user passwords.
// It uses the default Argon2id parameters for secure password hashing.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
// It uses constant-time comparison to prevent timing attacks.
// Returns true if the password matches, false otherwise.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Msgf("failed to verify password: %v", err)
		return false
	}

	return match
}
