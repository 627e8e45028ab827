// Package main provides the entry point for the BizDesk backend.
// It initializes and runs a multi-tenant business-management JSON API
// using the Fiber framework, covering inventory, sales, finance, HR,
// warranty, media-task tracking and internal chat. The application uses
// gorm for data persistence, resolves tenant identity from the request
// subdomain and enforces a per-module capability matrix on every route.
package main
