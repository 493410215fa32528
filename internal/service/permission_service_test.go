package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abenitj/biblefacts-backend/internal/model"
)

type fakePermissionCache struct {
	entries map[int][]string
	failing bool
	sets    int
}

func newFakePermissionCache() *fakePermissionCache {
	return &fakePermissionCache{entries: map[int][]string{}}
}

func (c *fakePermissionCache) Get(_ context.Context, userID int) ([]string, error) {
	if c.failing {
		return nil, errors.New("cache down")
	}
	return c.entries[userID], nil
}

func (c *fakePermissionCache) Set(_ context.Context, userID int, permissions []string) error {
	if c.failing {
		return errors.New("cache down")
	}
	c.sets++
	c.entries[userID] = permissions
	return nil
}

func (c *fakePermissionCache) Invalidate(_ context.Context, userID int) error {
	delete(c.entries, userID)
	return nil
}

type fakeUserGetter struct {
	users map[int]*model.User
	err   error
}

func (g *fakeUserGetter) GetByID(_ context.Context, id int) (*model.User, error) {
	if g.err != nil {
		return nil, g.err
	}
	u, ok := g.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func TestDefaultPermissionsForAdminIsFullCatalog(t *testing.T) {
	defaults := DefaultPermissionsFor(model.RoleAdmin)
	require.Len(t, defaults, len(model.AllPermissions))
	for i, p := range model.AllPermissions {
		assert.Equal(t, string(p), defaults[i])
	}
}

func TestDefaultPermissionsForContentManager(t *testing.T) {
	defaults := DefaultPermissionsFor(model.RoleContentManager)
	require.Len(t, defaults, len(model.ContentManagerPermissions))
	assert.NotContains(t, defaults, string(model.PermissionManageSMTP))
	assert.NotContains(t, defaults, string(model.PermissionDeleteUsers))
	assert.Contains(t, defaults, string(model.PermissionEditContent))
}

func TestDefaultPermissionsForUnknownRoleIsEmpty(t *testing.T) {
	assert.Empty(t, DefaultPermissionsFor(model.Role("intern")))
}

func TestCheckPermissionEmptyRequirementPasses(t *testing.T) {
	assert.True(t, CheckPermission(model.RoleContentManager, nil, ""))
	assert.True(t, CheckPermission(model.RoleAdmin, []string{}, ""))
}

func TestCheckPermissionNilListFallsBackToRoleDefaults(t *testing.T) {
	// A nil list must behave exactly like the role defaults, never stricter.
	for _, p := range model.AllPermissions {
		withNil := CheckPermission(model.RoleContentManager, nil, string(p))
		withDefaults := CheckPermission(model.RoleContentManager,
			DefaultPermissionsFor(model.RoleContentManager), string(p))
		assert.Equal(t, withDefaults, withNil, "permission %q", p)
	}
}

func TestCheckPermissionExplicitEmptyListDeniesEverything(t *testing.T) {
	// An empty non-nil list is an explicit override that grants nothing.
	assert.False(t, CheckPermission(model.RoleAdmin, []string{}, string(model.PermissionViewDashboard)))
}

func TestResolvePermissionsOverrideReplacesDefaults(t *testing.T) {
	user := &model.User{
		Role:        model.RoleAdmin,
		Permissions: model.PermissionList{"view_topics"},
	}
	assert.Equal(t, []string{"view_topics"}, ResolvePermissions(user))
}

func TestResolvePermissionsNilFallsBackToRole(t *testing.T) {
	user := &model.User{Role: model.RoleContentManager}
	assert.Equal(t, DefaultPermissionsFor(model.RoleContentManager), ResolvePermissions(user))
}

func TestEffectiveServesFromCache(t *testing.T) {
	cache := newFakePermissionCache()
	cache.entries[7] = []string{"view_topics"}
	svc := NewPermissionService(&fakeUserGetter{}, cache, zerolog.Nop())

	got := svc.Effective(context.Background(), 7, model.RoleAdmin)
	assert.Equal(t, []string{"view_topics"}, got)
	assert.Zero(t, cache.sets)
}

func TestEffectiveResolvesAndFillsCacheOnMiss(t *testing.T) {
	cache := newFakePermissionCache()
	users := &fakeUserGetter{users: map[int]*model.User{
		7: {ID: 7, Role: model.RoleAdmin, Permissions: model.PermissionList{"edit_content"}},
	}}
	svc := NewPermissionService(users, cache, zerolog.Nop())

	got := svc.Effective(context.Background(), 7, model.RoleAdmin)
	assert.Equal(t, []string{"edit_content"}, got)
	assert.Equal(t, []string{"edit_content"}, cache.entries[7])
}

func TestEffectiveDegradesToRoleDefaultsWhenStoreFails(t *testing.T) {
	cache := newFakePermissionCache()
	users := &fakeUserGetter{err: errors.New("db down")}
	svc := NewPermissionService(users, cache, zerolog.Nop())

	got := svc.Effective(context.Background(), 7, model.RoleContentManager)
	assert.Equal(t, DefaultPermissionsFor(model.RoleContentManager), got)
}

func TestEffectiveDegradesWhenCacheFails(t *testing.T) {
	cache := newFakePermissionCache()
	cache.failing = true
	users := &fakeUserGetter{users: map[int]*model.User{
		3: {ID: 3, Role: model.RoleContentManager},
	}}
	svc := NewPermissionService(users, cache, zerolog.Nop())

	got := svc.Effective(context.Background(), 3, model.RoleContentManager)
	assert.Equal(t, DefaultPermissionsFor(model.RoleContentManager), got)
}

func TestRefreshOverwritesCachedSet(t *testing.T) {
	cache := newFakePermissionCache()
	cache.entries[5] = []string{"view_topics", "edit_content"}
	svc := NewPermissionService(&fakeUserGetter{}, cache, zerolog.Nop())

	// Refresh narrows the set; a plain Effective could never do this before
	// expiry.
	user := &model.User{ID: 5, Role: model.RoleAdmin, Permissions: model.PermissionList{"view_topics"}}
	got := svc.Refresh(context.Background(), user)

	assert.Equal(t, []string{"view_topics"}, got)
	assert.Equal(t, []string{"view_topics"}, cache.entries[5])
}

func TestInvalidateDropsEntry(t *testing.T) {
	cache := newFakePermissionCache()
	cache.entries[5] = []string{"view_topics"}
	svc := NewPermissionService(&fakeUserGetter{}, cache, zerolog.Nop())

	svc.Invalidate(context.Background(), 5)
	assert.Nil(t, cache.entries[5])
}

func TestPermissionCacheEntryExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entry := permissionCacheEntry{ExpiresAt: now.Add(24 * time.Hour)}

	assert.False(t, entry.expired(now))
	assert.False(t, entry.expired(now.Add(24*time.Hour-time.Second)))
	// Exactly at the boundary the entry is stale.
	assert.True(t, entry.expired(now.Add(24*time.Hour)))
	assert.True(t, entry.expired(now.Add(25*time.Hour)))
}
