package auth

// Capability levels of the per-module permission map.
// A missing module key means LevelNone.
const (
	// LevelNone grants no access to the module.
	LevelNone = 0
	// LevelViewOwn grants read access to records owned by the principal.
	LevelViewOwn = 1
	// LevelViewAll grants read access to every record of the module.
	LevelViewAll = 2
	// LevelFull grants read and write access to every record of the module.
	LevelFull = 3
)

// Module names form a closed namespace used as permission-map keys.
// Unknown keys are not an error; they simply resolve to LevelNone.
const (
	// ModuleDashboard covers the report dashboard.
	ModuleDashboard = "dashboard"
	// ModuleMedia covers media-task tracking.
	ModuleMedia = "media"
	// ModuleWarehouse covers products and stock movements.
	ModuleWarehouse = "warehouse"
	// ModuleSales covers sales orders.
	ModuleSales = "sales"
	// ModuleTechnical covers technical service jobs.
	ModuleTechnical = "technical"
	// ModuleFinance covers the ledger.
	ModuleFinance = "finance"
	// ModuleWarranty covers warranty claims.
	ModuleWarranty = "warranty"
	// ModuleHRM covers employees and salaries.
	ModuleHRM = "hrm"
	// ModuleSettings covers user administration and tenant settings.
	ModuleSettings = "settings"
	// ModuleChat covers the internal chat.
	ModuleChat = "chat"
)

// Tab identifiers, scoped within their module. They are only consulted by
// the allow-list check layer; module levels remain the primary gate.
const (
	// TabInventory is the product list tab of the warehouse module.
	TabInventory = "inventory"
	// TabImport is the goods-in tab of the warehouse module.
	TabImport = "import"
	// TabExport is the goods-out tab of the warehouse module.
	TabExport = "export"

	// TabEntries is the ledger tab of the finance module.
	TabEntries = "entries"

	// TabEmployees is the staff list tab of the hrm module.
	TabEmployees = "employees"
	// TabSalaries is the salary records tab of the hrm module.
	TabSalaries = "salaries"

	// TabUsers is the user administration tab of the settings module.
	TabUsers = "users"
	// TabActivity is the activity log tab of the settings module.
	TabActivity = "activity"
	// TabGeneral is the tenant settings tab of the settings module.
	TabGeneral = "general"
)

// Modules returns the closed set of module names.
func Modules() []string {
	return []string{
		ModuleDashboard,
		ModuleMedia,
		ModuleWarehouse,
		ModuleSales,
		ModuleTechnical,
		ModuleFinance,
		ModuleWarranty,
		ModuleHRM,
		ModuleSettings,
		ModuleChat,
	}
}
