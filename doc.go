// Package main provides the entry point for the GoEstate-Admin service.
// It initializes and runs a web server using the Fiber framework that exposes
// a multi-tenant REST API for managing commercial real-estate portfolios:
// customers, sites, buildings, floors, assets, tenants, vendors, documents
// and users. The application uses gorm for data persistence and a two-tier
// authorization layer (resource-specific grants with role/module fallback)
// to gate every route.
package main
