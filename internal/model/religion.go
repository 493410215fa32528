package model

import "time"

// Religion is a top-level content category.
type Religion struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	NameEn      *string   `json:"name_en,omitempty"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	TopicCount  int       `json:"topic_count,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateReligionRequest is the payload for creating a religion.
type CreateReligionRequest struct {
	Name        string  `json:"name" binding:"required,max=200"`
	NameEn      *string `json:"name_en,omitempty" binding:"omitempty,max=200"`
	Description string  `json:"description" binding:"required"`
	Color       string  `json:"color" binding:"required,hexcolor"`
}

// UpdateReligionRequest is the payload for updating a religion.
type UpdateReligionRequest struct {
	Name        string  `json:"name" binding:"required,max=200"`
	NameEn      *string `json:"name_en,omitempty" binding:"omitempty,max=200"`
	Description string  `json:"description" binding:"required"`
	Color       string  `json:"color" binding:"required,hexcolor"`
}
