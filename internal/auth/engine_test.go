package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	"github.com/bizdesk/bizdesk/internal/db/models"
)

func staffUser(name string, perms models.PermissionMap, tabs models.TabMap) *models.User {
	return &models.User{
		ID:          7,
		TenantID:    "acme",
		Username:    name,
		DisplayName: name,
		Role:        models.RoleStaff,
		Status:      models.StatusApproved,
		Permissions: datatypes.NewJSONType(perms),
		AllowedTabs: datatypes.NewJSONType(tabs),
	}
}

func adminUser(name string) *models.User {
	u := staffUser(name, models.PermissionMap{}, models.TabMap{})
	u.Role = models.RoleAdmin

	return u
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, IsAdmin(adminUser("Root")))
	assert.False(t, IsAdmin(staffUser("Bob", nil, nil)))
	assert.False(t, IsAdmin(nil))
}

func TestAdminOverridesPermissionMap(t *testing.T) {
	// Even a restrictive stored map must not limit an admin.
	admin := adminUser("Root")
	admin.Permissions = datatypes.NewJSONType(models.PermissionMap{ModuleSales: 0})
	admin.AllowedTabs = datatypes.NewJSONType(models.TabMap{ModuleWarehouse: {TabImport}})

	for _, m := range Modules() {
		assert.Equal(t, LevelFull, PermissionLevel(admin, m), "module %s", m)
		assert.True(t, CanAccessModule(admin, m), "module %s", m)
		assert.True(t, CanAccessTab(admin, m, TabInventory), "module %s", m)
		assert.True(t, CanAccessTab(admin, m, "anything"), "module %s", m)
	}
}

func TestPermissionLevel(t *testing.T) {
	u := staffUser("Bob", models.PermissionMap{
		ModuleWarehouse: 1,
		ModuleSales:     2,
		ModuleFinance:   3,
		ModuleChat:      99, // out of range, clamped
		ModuleMedia:     -4, // out of range, clamped
	}, nil)

	assert.Equal(t, LevelViewOwn, PermissionLevel(u, ModuleWarehouse))
	assert.Equal(t, LevelViewAll, PermissionLevel(u, ModuleSales))
	assert.Equal(t, LevelFull, PermissionLevel(u, ModuleFinance))
	assert.Equal(t, LevelNone, PermissionLevel(u, ModuleHRM))
	assert.Equal(t, LevelNone, PermissionLevel(u, "unknown-module"))
	assert.Equal(t, LevelFull, PermissionLevel(u, ModuleChat))
	assert.Equal(t, LevelNone, PermissionLevel(u, ModuleMedia))
	assert.Equal(t, LevelNone, PermissionLevel(nil, ModuleSales))
}

func TestHasPermissionWrappers(t *testing.T) {
	u := staffUser("Bob", models.PermissionMap{ModuleSales: 2}, nil)

	assert.True(t, CanView(u, ModuleSales))
	assert.True(t, CanViewAll(u, ModuleSales))
	assert.False(t, CanEdit(u, ModuleSales))
	assert.False(t, CanView(u, ModuleFinance))
	assert.False(t, CanView(nil, ModuleSales))
}

func TestCanAccessModuleMatchesLevel(t *testing.T) {
	u := staffUser("Bob", models.PermissionMap{
		ModuleWarehouse: 1,
		ModuleSales:     0,
	}, nil)

	for _, m := range Modules() {
		assert.Equal(t, PermissionLevel(u, m) > LevelNone, CanAccessModule(u, m), "module %s", m)
	}

	assert.False(t, CanAccessModule(nil, ModuleWarehouse))
}

func TestCanAccessTab_LevelZeroDeniesEverything(t *testing.T) {
	// An allow-list can never grant a tab when the module level is 0.
	u := staffUser("Bob", models.PermissionMap{ModuleWarehouse: 0},
		models.TabMap{ModuleWarehouse: {TabInventory, TabImport}})

	assert.False(t, CanAccessTab(u, ModuleWarehouse, TabInventory))
	assert.False(t, CanAccessTab(u, ModuleWarehouse, TabImport))

	// Missing module key behaves the same as an explicit zero.
	u2 := staffUser("Bob", models.PermissionMap{},
		models.TabMap{ModuleFinance: {TabEntries}})
	assert.False(t, CanAccessTab(u2, ModuleFinance, TabEntries))
}

func TestCanAccessTab_EmptyListAllowsAll(t *testing.T) {
	// Absent or empty allow-list means "all tabs within level", not "deny all".
	noList := staffUser("Bob", models.PermissionMap{ModuleWarehouse: 1}, nil)
	emptyList := staffUser("Bob", models.PermissionMap{ModuleWarehouse: 1},
		models.TabMap{ModuleWarehouse: {}})

	for _, tab := range []string{TabInventory, TabImport, TabExport, "made-up-tab"} {
		assert.True(t, CanAccessTab(noList, ModuleWarehouse, tab), "tab %s", tab)
		assert.True(t, CanAccessTab(emptyList, ModuleWarehouse, tab), "tab %s", tab)
	}
}

func TestCanAccessTab_ListNarrows(t *testing.T) {
	u := staffUser("Bob", models.PermissionMap{ModuleWarehouse: 1},
		models.TabMap{ModuleWarehouse: {TabInventory}})

	assert.True(t, CanAccessTab(u, ModuleWarehouse, TabInventory))
	assert.False(t, CanAccessTab(u, ModuleWarehouse, TabImport))
	assert.False(t, CanAccessTab(u, ModuleWarehouse, TabExport))

	// A list for one module does not affect another module.
	u2 := staffUser("Bob", models.PermissionMap{ModuleWarehouse: 1, ModuleHRM: 1},
		models.TabMap{ModuleWarehouse: {TabInventory}})
	assert.True(t, CanAccessTab(u2, ModuleHRM, TabSalaries))
}

func TestFilterByPermission_ViewAllReturnsUnchanged(t *testing.T) {
	u := staffUser("Bob", models.PermissionMap{ModuleMedia: 2}, nil)

	tasks := []models.MediaTask{
		{ID: "a", Title: "clip", CreatedBy: "Alice"},
		{ID: "b", Title: "banner", CreatedBy: "Bob"},
		{ID: "c", Title: "post", CreatedBy: "Carol", Assignee: "Dave"},
	}

	got := FilterByPermission(u, tasks, ModuleMedia)
	assert.Equal(t, tasks, got)
}

func TestFilterByPermission_ViewOwnFiltersByThreeFields(t *testing.T) {
	u := staffUser("Bob", models.PermissionMap{ModuleMedia: 1}, nil)

	tasks := []models.MediaTask{
		{ID: "a", CreatedBy: "Bob"},                      // creator match
		{ID: "b", CreatedBy: "Alice", Assignee: "Bob"},   // assignee match
		{ID: "c", CreatedBy: "Alice", Assignee: "Carol"}, // no match
		{ID: "d", Title: "Bob", CreatedBy: "Alice"},      // superficial field must not match
	}

	got := FilterByPermission(u, tasks, ModuleMedia)

	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}

func TestFilterByPermission_FailsClosed(t *testing.T) {
	tasks := []models.MediaTask{{ID: "a", CreatedBy: "Bob"}}

	assert.Empty(t, FilterByPermission[models.MediaTask](nil, tasks, ModuleMedia))

	// A principal without a display name can own nothing.
	u := staffUser("", models.PermissionMap{ModuleMedia: 1}, nil)
	u.DisplayName = ""
	assert.Empty(t, FilterByPermission(u, []models.MediaTask{{ID: "x", CreatedBy: "", Assignee: ""}}, ModuleMedia))
}

func TestFilterByPermission_LevelZeroStillOwnershipFiltered(t *testing.T) {
	// Level 0 callers are normally stopped by CanAccessModule upstream;
	// the filter itself only applies the ownership rule.
	u := staffUser("Bob", models.PermissionMap{}, nil)

	tasks := []models.MediaTask{
		{ID: "a", CreatedBy: "Bob"},
		{ID: "b", CreatedBy: "Alice"},
	}

	got := FilterByPermission(u, tasks, ModuleMedia)
	assert.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestFinancePermissions(t *testing.T) {
	tests := []struct {
		name          string
		level         int
		admin         bool
		createdBy     string
		canCreate     bool
		canEditAny    bool
		canEditRecord bool
	}{
		{"level 0", 0, false, "Bob", false, false, false},
		{"level 1 own", 1, false, "Bob", true, false, true},
		{"level 1 other", 1, false, "Alice", true, false, false},
		{"level 2 own", 2, false, "Bob", true, false, true},
		{"level 2 other", 2, false, "Alice", true, false, false},
		{"level 3 other", 3, false, "Alice", true, true, true},
		{"admin other", 0, true, "Alice", true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := staffUser("Bob", models.PermissionMap{ModuleFinance: tt.level}, nil)
			if tt.admin {
				u.Role = models.RoleAdmin
			}

			assert.Equal(t, tt.canCreate, CanCreateFinance(u))
			assert.Equal(t, tt.canEditAny, CanEditFinance(u))
			assert.Equal(t, tt.canEditRecord, CanEditOwnFinance(u, tt.createdBy))
		})
	}

	assert.False(t, CanCreateFinance(nil))
	assert.False(t, CanEditFinance(nil))
	assert.False(t, CanEditOwnFinance(nil, "Bob"))
}

func TestPredicatesAreIdempotent(t *testing.T) {
	u := staffUser("Bob", models.PermissionMap{ModuleWarehouse: 1},
		models.TabMap{ModuleWarehouse: {TabInventory}})
	snapshot := *u

	for i := 0; i < 3; i++ {
		assert.False(t, IsAdmin(u))
		assert.Equal(t, LevelViewOwn, PermissionLevel(u, ModuleWarehouse))
		assert.True(t, CanAccessTab(u, ModuleWarehouse, TabInventory))
		assert.False(t, CanAccessTab(u, ModuleWarehouse, TabImport))
		_ = FilterByPermission(u, []models.MediaTask{{CreatedBy: "Bob"}}, ModuleMedia)
	}

	// read-only checks must not mutate the principal
	assert.Equal(t, snapshot, *u)
}

// Example scenarios from the permission model documentation.
func TestScenarios(t *testing.T) {
	// warehouse level 1, no allow-list -> inventory tab accessible
	bob := staffUser("Bob", models.PermissionMap{ModuleWarehouse: 1}, nil)
	assert.True(t, CanAccessTab(bob, ModuleWarehouse, TabInventory))

	// same principal with a narrowed list -> import tab denied
	bob2 := staffUser("Bob", models.PermissionMap{ModuleWarehouse: 1},
		models.TabMap{ModuleWarehouse: {TabInventory}})
	assert.False(t, CanAccessTab(bob2, ModuleWarehouse, TabImport))

	// finance level 2 sees foreign records unfiltered
	bob3 := staffUser("Bob", models.PermissionMap{ModuleFinance: 2}, nil)
	entries := []models.FinanceEntry{{ID: "e1", CreatedBy: "Alice"}}
	assert.Equal(t, entries, FilterByPermission(bob3, entries, ModuleFinance))

	// finance level 1 edits own entries only
	bob4 := staffUser("Bob", models.PermissionMap{ModuleFinance: 1}, nil)
	assert.True(t, CanEditOwnFinance(bob4, "Bob"))
	assert.False(t, CanEditOwnFinance(bob4, "Alice"))
}
