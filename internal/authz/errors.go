package authz

import "errors"

var (
	// ErrUserNotFound is returned when no identity-resolution strategy locates a user.
	// Distinct from a denial: "you don't exist" is not "you lack access".
	ErrUserNotFound = errors.New("user not found")

	// ErrAccountInactive is returned when the resolved user account is inactive.
	// Inactive accounts are rejected before any permission logic runs.
	ErrAccountInactive = errors.New("account inactive")

	// ErrInvalidAction is returned when an action string maps to no permission flag.
	ErrInvalidAction = errors.New("invalid action; must be one of view/create/edit/delete")

	// ErrResourceIDMissing is returned when a resource-scoped check is requested
	// but the resource id accessor yielded nothing.
	ErrResourceIDMissing = errors.New("resource id not provided")
)
