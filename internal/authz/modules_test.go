package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModuleForResource(t *testing.T) {
	testCases := []struct {
		name         string
		resourceType string
		expected     string
	}{
		{name: "building", resourceType: "building", expected: "buildings"},
		{name: "customer", resourceType: "customer", expected: "customers"},
		{name: "tenant maps to tenants", resourceType: "tenant", expected: "tenants"},
		{name: "user", resourceType: "user", expected: "users"},
		{name: "role", resourceType: "role", expected: "roles"},
		{name: "unregistered type gets suffix", resourceType: "meter", expected: "meters"},
		{name: "empty type", resourceType: "", expected: "s"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ModuleForResource(tc.resourceType))
		})
	}
}
