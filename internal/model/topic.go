package model

import "time"

// Topic belongs to a religion and optionally carries one TopicDetail.
type Topic struct {
	ID          int       `json:"id"`
	ReligionID  int       `json:"religion_id"`
	Title       string    `json:"title"`
	TitleEn     *string   `json:"title_en,omitempty"`
	Description string    `json:"description"`
	HasContent  bool      `json:"has_content"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Reference is a single scripture reference within a TopicDetail.
type Reference struct {
	Verse       string `json:"verse"`
	Text        string `json:"text"`
	Explanation string `json:"explanation"`
}

// TopicDetail is the authored content of a topic. Version increases by one
// on every accepted save and is compare-and-swap checked on writes.
type TopicDetail struct {
	ID          int         `json:"id"`
	TopicID     int         `json:"topic_id"`
	Explanation string      `json:"explanation"`
	BibleVerses []string    `json:"bible_verses"`
	KeyPoints   []string    `json:"key_points"`
	References  []Reference `json:"references"`
	Version     int         `json:"version"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// CreateTopicRequest is the payload for creating a topic.
type CreateTopicRequest struct {
	ReligionID  int     `json:"religion_id" binding:"required,min=1"`
	Title       string  `json:"title" binding:"required,max=200"`
	TitleEn     *string `json:"title_en,omitempty" binding:"omitempty,max=200"`
	Description string  `json:"description" binding:"required"`
}

// UpdateTopicRequest is the payload for updating a topic.
type UpdateTopicRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	TitleEn     *string `json:"title_en,omitempty" binding:"omitempty,max=200"`
	Description string  `json:"description" binding:"required"`
}

// SaveContentRequest is the payload for creating or replacing topic content.
// Version must be the version the client last read, or 0 when no content
// exists yet.
type SaveContentRequest struct {
	Explanation string      `json:"explanation" binding:"required"`
	BibleVerses []string    `json:"bible_verses" binding:"required"`
	KeyPoints   []string    `json:"key_points" binding:"required"`
	References  []Reference `json:"references" binding:"required"`
	Version     int         `json:"version" binding:"min=0"`
}
