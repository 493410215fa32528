package model

// Permission represents a string key for a specific admin action.
type Permission string

const (
	// PermissionViewDashboard allows viewing the admin dashboard.
	PermissionViewDashboard Permission = "view_dashboard"

	// PermissionViewReligions allows viewing religion lists and details.
	PermissionViewReligions Permission = "view_religions"

	// PermissionCreateReligion allows creating religions.
	PermissionCreateReligion Permission = "create_religion"

	// PermissionEditReligion allows updating religions.
	PermissionEditReligion Permission = "edit_religion"

	// PermissionDeleteReligion allows deleting religions.
	PermissionDeleteReligion Permission = "delete_religion"

	// PermissionViewTopics allows viewing topic lists and details.
	PermissionViewTopics Permission = "view_topics"

	// PermissionCreateTopic allows creating topics.
	PermissionCreateTopic Permission = "create_topic"

	// PermissionEditTopic allows updating topics.
	PermissionEditTopic Permission = "edit_topic"

	// PermissionDeleteTopic allows deleting topics.
	PermissionDeleteTopic Permission = "delete_topic"

	// PermissionViewContent allows viewing topic content.
	PermissionViewContent Permission = "view_content"

	// PermissionEditContent allows creating and replacing topic content.
	PermissionEditContent Permission = "edit_content"

	// PermissionViewUsers allows viewing admin user lists.
	PermissionViewUsers Permission = "view_users"

	// PermissionCreateUser allows creating admin users.
	PermissionCreateUser Permission = "create_user"

	// PermissionEditUser allows updating admin users.
	PermissionEditUser Permission = "edit_user"

	// PermissionDeleteUsers allows deleting admin users.
	PermissionDeleteUsers Permission = "delete_users"

	// PermissionManageSMTP allows managing SMTP configurations and sending email.
	PermissionManageSMTP Permission = "manage_smtp"

	// PermissionManageSync allows triggering content synchronization.
	PermissionManageSync Permission = "manage_sync"

	// PermissionManageSystemSettings allows editing application settings.
	PermissionManageSystemSettings Permission = "manage_system_settings"

	// PermissionViewProfile allows viewing the own profile.
	PermissionViewProfile Permission = "view_profile"

	// PermissionEditProfile allows editing the own profile.
	PermissionEditProfile Permission = "edit_profile"
)

// AllPermissions is the complete permission catalog, in display order.
var AllPermissions = []Permission{
	PermissionViewDashboard,
	PermissionViewReligions,
	PermissionCreateReligion,
	PermissionEditReligion,
	PermissionDeleteReligion,
	PermissionViewTopics,
	PermissionCreateTopic,
	PermissionEditTopic,
	PermissionDeleteTopic,
	PermissionViewContent,
	PermissionEditContent,
	PermissionViewUsers,
	PermissionCreateUser,
	PermissionEditUser,
	PermissionDeleteUsers,
	PermissionManageSMTP,
	PermissionManageSync,
	PermissionManageSystemSettings,
	PermissionViewProfile,
	PermissionEditProfile,
}

// ContentManagerPermissions is the curated subset granted to the
// content_manager role: content authoring plus own-profile access, and
// nothing touching users, SMTP, sync, or system settings.
var ContentManagerPermissions = []Permission{
	PermissionViewDashboard,
	PermissionViewReligions,
	PermissionCreateReligion,
	PermissionEditReligion,
	PermissionDeleteReligion,
	PermissionViewTopics,
	PermissionCreateTopic,
	PermissionEditTopic,
	PermissionDeleteTopic,
	PermissionViewContent,
	PermissionEditContent,
	PermissionViewProfile,
	PermissionEditProfile,
}

// PermissionGroup clusters related permissions for display. Grouping has no
// effect on authorization.
type PermissionGroup struct {
	Name        string       `json:"name"`
	Permissions []Permission `json:"permissions"`
}

// PermissionGroups is the display grouping of the catalog.
var PermissionGroups = []PermissionGroup{
	{Name: "Dashboard", Permissions: []Permission{PermissionViewDashboard}},
	{Name: "Religions", Permissions: []Permission{
		PermissionViewReligions, PermissionCreateReligion, PermissionEditReligion, PermissionDeleteReligion,
	}},
	{Name: "Topics", Permissions: []Permission{
		PermissionViewTopics, PermissionCreateTopic, PermissionEditTopic, PermissionDeleteTopic,
	}},
	{Name: "Content", Permissions: []Permission{PermissionViewContent, PermissionEditContent}},
	{Name: "Users", Permissions: []Permission{
		PermissionViewUsers, PermissionCreateUser, PermissionEditUser, PermissionDeleteUsers,
	}},
	{Name: "System", Permissions: []Permission{
		PermissionManageSMTP, PermissionManageSync, PermissionManageSystemSettings,
	}},
	{Name: "Profile", Permissions: []Permission{PermissionViewProfile, PermissionEditProfile}},
}
