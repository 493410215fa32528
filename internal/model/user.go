package model

import (
	"encoding/json"
	"sort"
	"time"
)

// Role determines a user's default permission set.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleContentManager Role = "content_manager"
)

// User status values.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// PermissionList is an ordered set of permission keys. A nil list means the
// user has no explicit override and falls back to role defaults.
//
// The previous system persisted permissions either as a flat string array or
// as a legacy map of boolean flags; UnmarshalJSON normalizes both shapes into
// the flat form.
type PermissionList []string

// UnmarshalJSON accepts ["edit_content", ...] or the legacy
// {"edit_content": true, ...} shape. Legacy keys are emitted sorted so the
// normalized list is deterministic.
func (p *PermissionList) UnmarshalJSON(data []byte) error {
	var keys []string
	if err := json.Unmarshal(data, &keys); err == nil {
		*p = keys
		return nil
	}

	var flags map[string]bool
	if err := json.Unmarshal(data, &flags); err != nil {
		return err
	}
	keys = make([]string, 0, len(flags))
	for key, granted := range flags {
		if granted {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	*p = keys
	return nil
}

// User represents a staff account in the admin system.
type User struct {
	ID           int     `json:"id"`
	Username     string  `json:"username"`
	Email        *string `json:"email,omitempty"`
	PasswordHash string  `json:"-"`
	Role         Role    `json:"role"`
	Status       string  `json:"status"`
	AvatarURL    *string `json:"avatar_url,omitempty"`

	// Permissions, when non-nil, replaces the role defaults entirely.
	// It is never merged with them.
	Permissions PermissionList `json:"permissions,omitempty"`

	WelcomeEmailSent bool       `json:"welcome_email_sent"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// IsActive reports whether the account may sign in.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginResponse is returned after successful login.
type LoginResponse struct {
	Token       string   `json:"token"`
	User        User     `json:"user"`
	Permissions []string `json:"permissions"`
}

// CreateUserRequest is the payload for creating a staff account. The
// temporary password is generated server-side and delivered by email.
type CreateUserRequest struct {
	Username    string   `json:"username" binding:"required,min=3,max=100"`
	Email       string   `json:"email" binding:"required,email,max=255"`
	Role        Role     `json:"role" binding:"required,oneof=admin content_manager"`
	Permissions []string `json:"permissions,omitempty"`
}

// UpdateUserRequest is the payload for updating a staff account. A nil
// Permissions leaves the override untouched; ClearPermissions drops it so
// the account reverts to its role defaults.
type UpdateUserRequest struct {
	Email            *string  `json:"email,omitempty" binding:"omitempty,email,max=255"`
	Role             *Role    `json:"role,omitempty" binding:"omitempty,oneof=admin content_manager"`
	Status           *string  `json:"status,omitempty" binding:"omitempty,oneof=active inactive"`
	Permissions      []string `json:"permissions,omitempty"`
	ClearPermissions bool     `json:"clear_permissions,omitempty"`
}

// UpdateProfileRequest is the payload for the own-profile endpoint.
type UpdateProfileRequest struct {
	Email    *string `json:"email,omitempty" binding:"omitempty,email,max=255"`
	Password *string `json:"password,omitempty" binding:"omitempty,min=6,max=128"`
}
