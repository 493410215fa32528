package model

import "time"

// AppSetting is a single key/value application setting.
type AppSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Setting keys owned by the sync coordinator.
const (
	SettingContentVersion = "content_version"
	SettingLastSyncAt     = "last_sync_at"
)

// UpdateSettingsRequest is the payload for bulk-updating settings.
type UpdateSettingsRequest struct {
	Settings map[string]string `json:"settings" binding:"required"`
}
