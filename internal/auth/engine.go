package auth

import (
	"github.com/bizdesk/bizdesk/internal/db/models"
)

// This file implements the authorization engine: pure predicates over the
// principal that never touch the database and never mutate their inputs.
// Every predicate fails closed on a nil principal or an unknown module key.

// Owned is the ownership capability a domain record exposes for
// visibility filtering. Records name their owner in different fields;
// implementing this interface resolves them in one place per type.
type Owned interface {
	// OwnerName returns the owner-like attribute of the record.
	OwnerName() string
	// AssigneeName returns the assignee, or "" if the type has none.
	AssigneeName() string
	// CreatorName returns the creator of the record.
	CreatorName() string
}

// IsAdmin reports whether the principal carries the administrator role.
// A nil principal is never an admin.
func IsAdmin(u *models.User) bool {
	return u != nil && u.Role == models.RoleAdmin
}

// PermissionLevel returns the capability level of the principal for the
// given module. Admins hold LevelFull on every module unconditionally;
// otherwise the stored permission map decides, defaulting to LevelNone
// for missing keys. Out-of-range stored values are clamped.
func PermissionLevel(u *models.User, module string) int {
	if u == nil {
		return LevelNone
	}

	if IsAdmin(u) {
		return LevelFull
	}

	level, ok := u.Permissions.Data()[module]
	if !ok {
		return LevelNone
	}

	if level < LevelNone {
		return LevelNone
	}

	if level > LevelFull {
		return LevelFull
	}

	return level
}

// HasPermission reports whether the principal meets the minimum capability
// level for the module.
func HasPermission(u *models.User, module string, minLevel int) bool {
	return PermissionLevel(u, module) >= minLevel
}

// CanView reports whether the principal may view the module at all (>= 1).
func CanView(u *models.User, module string) bool {
	return HasPermission(u, module, LevelViewOwn)
}

// CanViewAll reports whether the principal may view every record of the
// module (>= 2).
func CanViewAll(u *models.User, module string) bool {
	return HasPermission(u, module, LevelViewAll)
}

// CanEdit reports whether the principal holds full edit rights on the
// module (>= 3).
func CanEdit(u *models.User, module string) bool {
	return HasPermission(u, module, LevelFull)
}

// CanAccessModule reports whether the principal may enter the module.
func CanAccessModule(u *models.User, module string) bool {
	if IsAdmin(u) {
		return true
	}

	return PermissionLevel(u, module) > LevelNone
}

// CanAccessTab reports whether the principal may enter a specific tab of a
// module. Admins pass every tab check. A module level of zero denies every
// tab regardless of allow-list content. An absent or empty allow-list means
// all tabs implied by the module level are allowed; a non-empty list is a
// narrowing filter and grants exactly its members, never anything beyond
// the module level.
func CanAccessTab(u *models.User, module, tab string) bool {
	if IsAdmin(u) {
		return true
	}

	if PermissionLevel(u, module) == LevelNone {
		return false
	}

	allowed := u.AllowedTabs.Data()[module]
	if len(allowed) == 0 {
		return true
	}

	for _, t := range allowed {
		if t == tab {
			return true
		}
	}

	return false
}

// FilterByPermission returns the subset of records visible to the
// principal within the module. A nil principal sees nothing. Level 2 and
// above returns the input unchanged and order-preserving. Below that only
// records whose owner, assignee or creator equals the principal's display
// name survive. Gating out level 0 entirely is the caller's job via
// CanAccessModule; this function only applies the ownership filter.
func FilterByPermission[T Owned](u *models.User, records []T, module string) []T {
	if u == nil {
		return []T{}
	}

	if CanViewAll(u, module) {
		return records
	}

	name := u.DisplayName
	if name == "" {
		return []T{}
	}

	filtered := make([]T, 0, len(records))

	for _, r := range records {
		if r.OwnerName() == name || r.AssigneeName() == name || r.CreatorName() == name {
			filtered = append(filtered, r)
		}
	}

	return filtered
}

// CanCreateFinance reports whether the principal may create ledger
// entries: admin or any finance level above zero. Junior staff may create
// entries they will only ever be able to edit themselves.
func CanCreateFinance(u *models.User) bool {
	if IsAdmin(u) {
		return true
	}

	return PermissionLevel(u, ModuleFinance) >= LevelViewOwn
}

// CanEditFinance reports whether the principal may edit any ledger entry:
// admin or finance level 3.
func CanEditFinance(u *models.User) bool {
	if IsAdmin(u) {
		return true
	}

	return PermissionLevel(u, ModuleFinance) >= LevelFull
}

// CanEditOwnFinance reports whether the principal may edit the ledger
// entry created by createdBy: admins and level 3 always may, level 1 and 2
// only for their own entries.
func CanEditOwnFinance(u *models.User, createdBy string) bool {
	if CanEditFinance(u) {
		return true
	}

	if u == nil {
		return false
	}

	level := PermissionLevel(u, ModuleFinance)
	if level == LevelViewOwn || level == LevelViewAll {
		return u.DisplayName != "" && createdBy == u.DisplayName
	}

	return false
}
