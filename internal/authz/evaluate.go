package authz

import (
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/db/models"
)

// matchResult is the outcome of the resource-access scan.
type matchResult int

const (
	// noMatch means no entry targets the resource; fall through to roles.
	noMatch matchResult = iota
	// granted means a matching entry carries the requested flag.
	granted
	// denied means a matching entry exists but does not carry the flag.
	// This is terminal: a matching entry is authoritative.
	denied
)

// evaluateResourceAccess scans the user's resource-access entries for the
// first one matching the (resourceType, resourceID) pair, exact string
// equality on both. When an entry matches, its flags decide; role fallthrough
// happens only on noMatch, never on denied.
func evaluateResourceAccess(
	user *models.User,
	resourceType, resourceID string,
	flag Flag,
) (matchResult, *models.ResourceAccess) {
	for i := range user.ResourceAccess {
		entry := &user.ResourceAccess[i]

		if entry.ResourceType != resourceType || entry.ResourceID != resourceID {
			continue
		}

		if entry.Flag(string(flag)) {
			return granted, entry
		}

		return denied, entry
	}

	return noMatch, nil
}

// evaluateRoles scans the user's roles in list order for the first active
// role whose permission row for the module carries the requested flag.
// There is no aggregation across roles: the first qualifying role wins, and
// no qualifying role means denial.
func evaluateRoles(user *models.User, moduleName string, flag Flag) (bool, string) {
	for i := range user.Roles {
		role := &user.Roles[i]

		if !role.Active {
			continue
		}

		for j := range role.Permissions {
			perm := &role.Permissions[j]

			if perm.ModuleName != moduleName {
				continue
			}

			if perm.Flag(string(flag)) {
				return true, role.Name
			}
		}
	}

	return false, ""
}
