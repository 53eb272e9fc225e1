package authz

// moduleNames is the authoritative mapping from resource type to the module
// name registered on roles. A static table instead of string pluralization,
// so renamed modules or irregular plurals never silently break resolution.
var moduleNames = map[string]string{ //nolint:gochecknoglobals
	"customer": "customers",
	"site":     "sites",
	"building": "buildings",
	"floor":    "floors",
	"asset":    "assets",
	"tenant":   "tenants",
	"vendor":   "vendors",
	"document": "documents",
	"user":     "users",
	"role":     "roles",
}

// ModuleForResource returns the module name for a resource type.
// Unregistered types keep the historical suffix-append convention.
func ModuleForResource(resourceType string) string {
	if module, ok := moduleNames[resourceType]; ok {
		return module
	}

	return resourceType + "s"
}
