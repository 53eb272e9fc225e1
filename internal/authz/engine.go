package authz

import (
	"gorm.io/gorm"

	"github.com/GoEstate-Admin/GoEstate-Admin/internal/db/models"
)

// Source names the evaluator that produced the final verdict.
type Source string

const (
	// SourceResourceAccess means a resource-specific grant decided.
	SourceResourceAccess Source = "resource_access"
	// SourceRole means a role's module permission decided.
	SourceRole Source = "role"
	// SourceDenied means no evaluator granted access.
	SourceDenied Source = "denied"
)

// Decision is the structured result of an authorization check.
// A negative decision is a successful evaluation, not an error.
type Decision struct {
	// Allowed is the verdict.
	Allowed bool
	// Source names the deciding evaluator.
	Source Source
	// Grant is the matched resource-access entry when Source is
	// resource_access; its flags are echoed back on denial for diagnostics.
	Grant *models.ResourceAccess
	// RoleName is the granting role when Source is role.
	RoleName string
}

// Engine resolves identities and evaluates authorization decisions.
// Evaluation is read-only over the user snapshot the identity lookup
// returned; concurrent calls need no coordination.
type Engine struct {
	db *gorm.DB
}

// NewEngine creates a new authorization engine.
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// AuthorizeResource decides whether the user may perform action on the given
// resource instance. Resource-specific grants are consulted first and are
// authoritative when they match; roles are the fallback only when no grant
// targets the resource.
func (e *Engine) AuthorizeResource(
	identifier, resourceType, action, resourceID string,
) (Decision, error) {
	if resourceID == "" {
		return Decision{}, ErrResourceIDMissing
	}

	user, flag, err := e.resolveAndNormalize(identifier, action)
	if err != nil {
		return Decision{}, err
	}

	switch result, grant := evaluateResourceAccess(user, resourceType, resourceID, flag); result {
	case granted:
		return e.record(Decision{Allowed: true, Source: SourceResourceAccess, Grant: grant}), nil
	case denied:
		// terminal: a matching entry with the flag false blocks the request
		// even if a role would otherwise allow it
		return e.record(Decision{Allowed: false, Source: SourceResourceAccess, Grant: grant}), nil
	case noMatch:
	}

	return e.decideByRoles(user, ModuleForResource(resourceType), flag), nil
}

// AuthorizeModule decides whether the user may perform action on a module as
// a whole. No resource id is involved, so resource-specific grants are
// skipped and roles decide directly.
func (e *Engine) AuthorizeModule(identifier, moduleName, action string) (Decision, error) {
	user, flag, err := e.resolveAndNormalize(identifier, action)
	if err != nil {
		return Decision{}, err
	}

	return e.decideByRoles(user, moduleName, flag), nil
}

// resolveAndNormalize runs the shared front half of both entry points:
// identity resolution, the active check, and action normalization.
func (e *Engine) resolveAndNormalize(identifier, action string) (*models.User, Flag, error) {
	user, err := ResolveUser(e.db, identifier)
	if err != nil {
		return nil, "", err
	}

	if !user.Active {
		return nil, "", ErrAccountInactive
	}

	flag, err := NormalizeAction(action)
	if err != nil {
		return nil, "", err
	}

	return user, flag, nil
}

func (e *Engine) decideByRoles(user *models.User, moduleName string, flag Flag) Decision {
	if ok, roleName := evaluateRoles(user, moduleName, flag); ok {
		return e.record(Decision{Allowed: true, Source: SourceRole, RoleName: roleName})
	}

	return e.record(Decision{Allowed: false, Source: SourceDenied})
}

func (e *Engine) record(d Decision) Decision {
	observeDecision(d)
	return d
}
