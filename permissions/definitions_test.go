package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrantedPermissions(t *testing.T) {
	admin := GrantedPermissions(true)
	user := GrantedPermissions(false)

	assert.ElementsMatch(t, GetAllPermissionKeys(), admin)
	assert.Contains(t, user, FarmView)
	assert.Contains(t, user, FarmEdit)
	assert.Contains(t, user, ReferentEdit)
	assert.NotContains(t, user, FarmCreate)
	assert.NotContains(t, user, FarmDelete)
}

func TestIsValidPermissionKey(t *testing.T) {
	assert.True(t, IsValidPermissionKey(FarmDelete))
	assert.False(t, IsValidPermissionKey("album.create"))
}
