package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserHashesPassword(t *testing.T) {
	user, err := CreateUser("Jordan Blake", "jordan@example.com", "secret123", ROLE_LEAGUE_MANAGER)
	require.NoError(t, err)

	assert.NotEqual(t, "secret123", user.Password)
	assert.True(t, user.CheckPassword("secret123"))
	assert.False(t, user.CheckPassword("wrong"))
	assert.Equal(t, STATUS_ACTIVE, user.Status)
	assert.True(t, user.IsActive())
}

func TestCreateUserValidation(t *testing.T) {
	_, err := CreateUser("ab", "jordan@example.com", "secret123", ROLE_LEAGUE_MANAGER)
	assert.Error(t, err, "name shorter than 3 chars must fail")

	_, err = CreateUser("Jordan Blake", "not-an-email", "secret123", ROLE_LEAGUE_MANAGER)
	assert.Error(t, err)

	_, err = CreateUser("Jordan Blake", "jordan@example.com", "secret123", "superuser")
	assert.Error(t, err, "unknown role must fail")
}

func TestUserTenantIDResolution(t *testing.T) {
	manager := &User{ID: 10, Role: ROLE_LEAGUE_MANAGER}
	assert.Equal(t, uint(10), manager.TenantID())

	parent := uint(10)
	assistant := &User{ID: 11, Role: ROLE_ASSISTANT_MANAGER, ParentLeagueManagerID: &parent}
	assert.Equal(t, uint(10), assistant.TenantID())

	// An assistant without a parent link falls back to itself.
	orphan := &User{ID: 12, Role: ROLE_ASSISTANT_MANAGER}
	assert.Equal(t, uint(12), orphan.TenantID())
}

func TestUserIssueAPIKey(t *testing.T) {
	user := &User{ID: 1}

	key, err := user.IssueAPIKey()
	require.NoError(t, err)
	require.NotEmpty(t, key)

	assert.True(t, strings.HasPrefix(key, "lhq_"))
	assert.Equal(t, key[:16], user.APIKeyPrefix)
	assert.Equal(t, HashAPIKey(key), user.APIKeyHash)
	assert.NotNil(t, user.APIKeyCreatedAt)
	assert.True(t, user.HasActiveAPIKey())

	// A second issue replaces the first key.
	key2, err := user.IssueAPIKey()
	require.NoError(t, err)
	assert.NotEqual(t, key, key2)
	assert.Equal(t, HashAPIKey(key2), user.APIKeyHash)
}
