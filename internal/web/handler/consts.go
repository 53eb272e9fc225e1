package handler

const (
	// APIBasePath is the version prefix for all REST routes.
	APIBasePath = "/api/v1"

	// RootPath is the root path the route group.
	RootPath = "/"

	// DefaultPageSize for pagination.
	DefaultPageSize = 25

	// MaxPageSize callers may request per page.
	MaxPageSize = 100

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)
