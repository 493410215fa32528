package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/abenitj/biblefacts-backend/internal/model"
)

// userGetter is the slice of the user repository the resolver needs.
type userGetter interface {
	GetByID(ctx context.Context, id int) (*model.User, error)
}

// PermissionCache stores resolved permission sets with an expiry. Expired
// entries read as misses and are purged by the implementation.
type PermissionCache interface {
	Get(ctx context.Context, userID int) ([]string, error)
	Set(ctx context.Context, userID int, permissions []string) error
	Invalidate(ctx context.Context, userID int) error
}

// DefaultPermissionsFor returns the permission set implied by a role alone:
// the full catalog for admins, the curated content subset for content
// managers, and nothing for anything else.
func DefaultPermissionsFor(role model.Role) []string {
	switch role {
	case model.RoleAdmin:
		return permissionKeys(model.AllPermissions)
	case model.RoleContentManager:
		return permissionKeys(model.ContentManagerPermissions)
	default:
		return []string{}
	}
}

// CheckPermission answers whether a user with the given role and permission
// list may perform the required action. An empty requirement always passes.
// A nil list means the resolved set is not available yet; the role defaults
// apply so the answer is never stricter than the resolved default.
func CheckPermission(role model.Role, permissions []string, required string) bool {
	if required == "" {
		return true
	}
	if permissions == nil {
		permissions = DefaultPermissionsFor(role)
	}
	for _, p := range permissions {
		if p == required {
			return true
		}
	}
	return false
}

// ResolvePermissions computes the effective set for a user: the explicit
// override when present, otherwise the role defaults. Overrides replace the
// defaults entirely, never merge with them.
func ResolvePermissions(user *model.User) []string {
	if user.Permissions != nil {
		return []string(user.Permissions)
	}
	return DefaultPermissionsFor(user.Role)
}

func permissionKeys(permissions []model.Permission) []string {
	keys := make([]string, len(permissions))
	for i, p := range permissions {
		keys[i] = string(p)
	}
	return keys
}

// PermissionService resolves and caches effective permission sets.
type PermissionService struct {
	users userGetter
	cache PermissionCache
	log   zerolog.Logger
}

// NewPermissionService creates a new PermissionService.
func NewPermissionService(users userGetter, cache PermissionCache, log zerolog.Logger) *PermissionService {
	return &PermissionService{
		users: users,
		cache: cache,
		log:   log.With().Str("component", "permission_service").Logger(),
	}
}

// Effective returns the cached permission set for a user, resolving and
// filling the cache on a miss. Cache failures degrade to a resolve from the
// store; store failures degrade to role defaults. Errors are logged, never
// propagated as blocking failures.
func (s *PermissionService) Effective(ctx context.Context, userID int, role model.Role) []string {
	cached, err := s.cache.Get(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Int("user_id", userID).Msg("permission cache read failed")
	} else if cached != nil {
		return cached
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.log.Warn().Err(err).Int("user_id", userID).Msg("permission resolve failed, using role defaults")
		}
		return DefaultPermissionsFor(role)
	}

	permissions := ResolvePermissions(user)
	if err := s.cache.Set(ctx, userID, permissions); err != nil {
		s.log.Warn().Err(err).Int("user_id", userID).Msg("permission cache write failed")
	}
	return permissions
}

// Refresh re-resolves from the user row and overwrites the cache. This is the
// only path that can narrow a previously cached set.
func (s *PermissionService) Refresh(ctx context.Context, user *model.User) []string {
	permissions := ResolvePermissions(user)
	if err := s.cache.Set(ctx, user.ID, permissions); err != nil {
		s.log.Warn().Err(err).Int("user_id", user.ID).Msg("permission cache write failed")
	}
	return permissions
}

// Invalidate drops the cached set, forcing the next read to resolve.
func (s *PermissionService) Invalidate(ctx context.Context, userID int) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.log.Warn().Err(err).Int("user_id", userID).Msg("permission cache invalidate failed")
	}
}
