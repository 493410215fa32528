package model

import "time"

// ContentStats counts the current content inventory.
type ContentStats struct {
	Religions int `json:"religions"`
	Topics    int `json:"topics"`
	Details   int `json:"details"`
	Users     int `json:"users,omitempty"`
}

// SyncEvent records a manual publish of the content snapshot. The username
// is stored on the row itself so history survives account deletion; the ID
// link is cleared when the account goes away.
type SyncEvent struct {
	ID              int       `json:"id"`
	TriggeredBy     *int      `json:"triggered_by,omitempty"`
	TriggeredByName string    `json:"triggered_by_username"`
	ReligionCount   int       `json:"religion_count"`
	TopicCount      int       `json:"topic_count"`
	DetailCount     int       `json:"detail_count"`
	TriggeredAt     time.Time `json:"triggered_at"`
}

// SyncResult is returned from a successful trigger.
type SyncResult struct {
	Version     int          `json:"version"`
	Timestamp   time.Time    `json:"timestamp"`
	TriggeredBy string       `json:"triggered_by"`
	Stats       ContentStats `json:"stats"`
}

// SyncStatus is the lightweight document served to polling clients.
type SyncStatus struct {
	Version       int          `json:"version"`
	LastSyncAt    *time.Time   `json:"last_sync_at,omitempty"`
	Stats         ContentStats `json:"stats"`
	RecentChanges ContentStats `json:"recent_changes"`
}

// CheckUpdatesRequest carries the client's last-known state.
type CheckUpdatesRequest struct {
	Version    int        `json:"version" binding:"min=0"`
	LastSyncAt *time.Time `json:"last_sync_at,omitempty"`
}

// CheckUpdatesResponse tells the client whether newer content exists.
type CheckUpdatesResponse struct {
	HasUpdate      bool       `json:"has_update"`
	CurrentVersion int        `json:"current_version"`
	LastSyncAt     *time.Time `json:"last_sync_at,omitempty"`
}

// SnapshotTopic is a topic with its detail inlined for the download payload.
type SnapshotTopic struct {
	Topic
	Detail *TopicDetail `json:"detail,omitempty"`
}

// Snapshot is the full content state transmitted to mobile clients.
// No pagination, no deltas: every download carries the complete dataset.
type Snapshot struct {
	Religions   []Religion      `json:"religions"`
	Topics      []SnapshotTopic `json:"topics"`
	Version     int             `json:"version"`
	LastUpdated time.Time       `json:"last_updated"`
}
