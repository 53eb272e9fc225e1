package authz

import (
	"errors"
	"fmt"
	"regexp"

	"gorm.io/gorm"

	"github.com/GoEstate-Admin/GoEstate-Admin/internal/db/models"
)

// entityIDPattern matches the canonical 24-character hex primary-key format.
var entityIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// IsEntityID reports whether the identifier has the canonical primary-key format.
func IsEntityID(identifier string) bool {
	return entityIDPattern.MatchString(identifier)
}

// ResolveUser locates exactly one user for an opaque identifier, trying in
// strict order: primary key (only when the identifier has the canonical
// 24-hex format), external identity-provider subject, then custom account id.
// A primary-key miss is not fatal; resolution proceeds to the next strategy.
// Roles with their module permissions and the resource-access list are
// eagerly loaded so evaluation never needs a second fetch.
func ResolveUser(db *gorm.DB, identifier string) (*models.User, error) {
	if identifier == "" {
		return nil, ErrUserNotFound
	}

	// fresh chain per strategy, gorm accumulates conditions on a reused one
	loaded := func() *gorm.DB {
		return db.
			Preload("Roles.Permissions").
			Preload("ResourceAccess")
	}

	var user models.User

	if IsEntityID(identifier) {
		err := loaded().Where("id = ?", identifier).First(&user).Error
		if err == nil {
			return &user, nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to query user by id: %w", err)
		}
		// miss, fall through to the next strategy
	}

	err := loaded().Where("external_id = ?", identifier).First(&user).Error
	if err == nil {
		return &user, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to query user by external id: %w", err)
	}

	err = loaded().Where("account_id = ?", identifier).First(&user).Error
	if err == nil {
		return &user, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to query user by account id: %w", err)
	}

	return nil, ErrUserNotFound
}
