// Package auth provides authentication and authorization functionality for the application.
//
// Authorization is a capability matrix held on the user record itself:
// a module -> level map (0 none, 1 view own, 2 view all, 3 full edit) and
// an optional module -> allowed-tab list. An administrator role overrides
// the matrix and holds level 3 everywhere.
//
// # Authorization Engine
//
// The engine is a set of pure predicates that never perform I/O and never
// mutate the principal:
//   - IsAdmin: check the administrator role flag
//   - PermissionLevel: resolve the capability level for a module
//   - HasPermission / CanView / CanViewAll / CanEdit: minimum-level checks
//   - CanAccessModule: module entry check
//   - CanAccessTab: tab entry check; an explicit allow-list only narrows,
//     it never grants tabs beyond the module level
//   - FilterByPermission: ownership-scoped visibility of record sets
//   - CanCreateFinance / CanEditFinance / CanEditOwnFinance: the finance
//     module's asymmetric create/edit rules
//
// Every predicate fails closed: a nil principal or an unknown module key
// yields false or an empty result, never an error.
//
// # Authentication
//
// LocalProvider handles username/password authentication against the
// local database with Argon2id password hashing, plus the account
// lifecycle: registration creates a pending, level-0 account which an
// admin approves, rejects or suspends. Accounts are never hard-deleted in
// the normal flow.
//
// # Middleware
//
// Fiber middleware functions are provided for route protection:
//   - RequireModule: protect routes behind module access
//   - RequireTab: protect routes behind a tab allow-list check
//   - RequireLevel: protect routes behind a minimum capability level
//   - RequireAdmin: protect admin-only routes
//
// The middleware reads the principal the web auth middleware placed in
// fiber locals after session revalidation; it performs no database work
// of its own.
//
// Example usage:
//
//	app.Get("/api/sales/orders",
//	    auth.RequireModule(auth.ModuleSales),
//	    handler,
//	)
//
//	orders = auth.FilterByPermission(principal, orders, auth.ModuleSales)
package auth
