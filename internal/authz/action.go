package authz

import "strings"

// Flag is one of the four permission flags carried by resource-access
// entries and module permission rows.
type Flag string

const (
	// FlagView allows viewing.
	FlagView Flag = "can_view"
	// FlagCreate allows creating.
	FlagCreate Flag = "can_create"
	// FlagEdit allows editing.
	FlagEdit Flag = "can_edit"
	// FlagDelete allows deleting.
	FlagDelete Flag = "can_delete"
)

// NormalizeAction maps a human action verb to its permission flag.
// Matching is case-insensitive and accepts the synonyms read, add, update
// and remove. Unknown verbs return ErrInvalidAction.
func NormalizeAction(action string) (Flag, error) {
	switch strings.ToLower(action) {
	case "view", "read":
		return FlagView, nil
	case "create", "add":
		return FlagCreate, nil
	case "edit", "update":
		return FlagEdit, nil
	case "delete", "remove":
		return FlagDelete, nil
	default:
		return "", ErrInvalidAction
	}
}
