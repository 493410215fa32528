package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionListUnmarshalArray(t *testing.T) {
	var p PermissionList
	require.NoError(t, json.Unmarshal([]byte(`["edit_content","view_topics"]`), &p))
	assert.Equal(t, PermissionList{"edit_content", "view_topics"}, p)
}

func TestPermissionListUnmarshalLegacyMap(t *testing.T) {
	var p PermissionList
	raw := `{"view_topics": true, "edit_content": true, "delete_users": false}`
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	// Denied keys are dropped, granted keys come out sorted.
	assert.Equal(t, PermissionList{"edit_content", "view_topics"}, p)
}

func TestPermissionListUnmarshalEmptyArray(t *testing.T) {
	var p PermissionList
	require.NoError(t, json.Unmarshal([]byte(`[]`), &p))
	require.NotNil(t, p)
	assert.Empty(t, p)
}

func TestPermissionListUnmarshalRejectsOtherShapes(t *testing.T) {
	var p PermissionList
	assert.Error(t, json.Unmarshal([]byte(`"edit_content"`), &p))
	assert.Error(t, json.Unmarshal([]byte(`42`), &p))
}

func TestContentManagerPermissionsAreSubsetOfCatalog(t *testing.T) {
	catalog := make(map[Permission]bool, len(AllPermissions))
	for _, p := range AllPermissions {
		catalog[p] = true
	}
	for _, p := range ContentManagerPermissions {
		assert.True(t, catalog[p], "permission %q not in catalog", p)
	}
}

func TestContentManagerPermissionsExcludeSensitiveActions(t *testing.T) {
	denied := []Permission{
		PermissionViewUsers,
		PermissionCreateUser,
		PermissionEditUser,
		PermissionDeleteUsers,
		PermissionManageSMTP,
		PermissionManageSync,
		PermissionManageSystemSettings,
	}
	for _, d := range denied {
		for _, p := range ContentManagerPermissions {
			assert.NotEqual(t, d, p)
		}
	}
}

func TestUserIsActive(t *testing.T) {
	assert.True(t, (&User{Status: UserStatusActive}).IsActive())
	assert.False(t, (&User{Status: UserStatusInactive}).IsActive())
}
