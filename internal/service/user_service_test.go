package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abenitj/biblefacts-backend/internal/model"
)

type fakeUserStore struct {
	users  map[int]*model.User
	nextID int
}

func newFakeUserStore(users ...*model.User) *fakeUserStore {
	s := &fakeUserStore{users: map[int]*model.User{}, nextID: 1}
	for _, u := range users {
		s.users[u.ID] = u
		if u.ID >= s.nextID {
			s.nextID = u.ID + 1
		}
	}
	return s
}

func (s *fakeUserStore) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id int) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *u
	return &copied, nil
}

func (s *fakeUserStore) Create(_ context.Context, u *model.User) error {
	u.ID = s.nextID
	s.nextID++
	copied := *u
	s.users[u.ID] = &copied
	return nil
}

func (s *fakeUserStore) Update(_ context.Context, u *model.User) error {
	copied := *u
	s.users[u.ID] = &copied
	return nil
}

func (s *fakeUserStore) Delete(_ context.Context, id int) error {
	delete(s.users, id)
	return nil
}

func (s *fakeUserStore) UpdateProfile(_ context.Context, id int, email *string, passwordHash *string) error {
	u := s.users[id]
	if email != nil {
		u.Email = email
	}
	if passwordHash != nil {
		u.PasswordHash = *passwordHash
	}
	return nil
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, id int, passwordHash string) error {
	s.users[id].PasswordHash = passwordHash
	return nil
}

func (s *fakeUserStore) SetWelcomeEmailSent(_ context.Context, id int, sent bool) error {
	if u, ok := s.users[id]; ok {
		u.WelcomeEmailSent = sent
	}
	return nil
}

func (s *fakeUserStore) SetAvatar(_ context.Context, id int, url string) error {
	s.users[id].AvatarURL = &url
	return nil
}

func newUserFixture(t *testing.T, users ...*model.User) (*UserService, *fakeUserStore, *fakePermissionCache) {
	t.Helper()
	store := newFakeUserStore(users...)
	auth := newAuthFixture("user-service-secret")
	smtp, _, _ := newSMTPFixture(t)
	cache := newFakePermissionCache()
	permissions := NewPermissionService(store, cache, zerolog.Nop())
	return NewUserService(store, auth, smtp, permissions, zerolog.Nop()), store, cache
}

func TestUpdateUserClearPermissionsRevertsToRoleDefaults(t *testing.T) {
	svc, store, _ := newUserFixture(t, &model.User{
		ID:          5,
		Username:    "manager",
		Role:        model.RoleContentManager,
		Status:      model.UserStatusActive,
		Permissions: model.PermissionList{"view_dashboard"},
	})

	updated, err := svc.Update(context.Background(), 5, &model.UpdateUserRequest{ClearPermissions: true})
	require.NoError(t, err)

	assert.Nil(t, updated.Permissions)
	assert.Nil(t, store.users[5].Permissions)
	// With the override gone the effective set is the role default again.
	assert.Equal(t, DefaultPermissionsFor(model.RoleContentManager), ResolvePermissions(store.users[5]))
}

func TestUpdateUserNilPermissionsLeavesOverrideUntouched(t *testing.T) {
	svc, store, _ := newUserFixture(t, &model.User{
		ID:          5,
		Username:    "manager",
		Role:        model.RoleContentManager,
		Status:      model.UserStatusActive,
		Permissions: model.PermissionList{"view_dashboard"},
	})

	newEmail := "manager@example.com"
	_, err := svc.Update(context.Background(), 5, &model.UpdateUserRequest{Email: &newEmail})
	require.NoError(t, err)

	assert.Equal(t, model.PermissionList{"view_dashboard"}, store.users[5].Permissions)
	require.NotNil(t, store.users[5].Email)
	assert.Equal(t, newEmail, *store.users[5].Email)
}

func TestUpdateUserReplacesOverride(t *testing.T) {
	svc, store, cache := newUserFixture(t, &model.User{
		ID:       5,
		Username: "manager",
		Role:     model.RoleContentManager,
		Status:   model.UserStatusActive,
	})

	_, err := svc.Update(context.Background(), 5, &model.UpdateUserRequest{
		Permissions: []string{"view_topics"},
	})
	require.NoError(t, err)

	assert.Equal(t, model.PermissionList{"view_topics"}, store.users[5].Permissions)
	// Update refreshes the cached set immediately.
	assert.Equal(t, []string{"view_topics"}, cache.entries[5])
}

func TestUpdateUserNotFound(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	_, err := svc.Update(context.Background(), 99, &model.UpdateUserRequest{ClearPermissions: true})
	assert.ErrorIs(t, err, ErrNotFound)
}
