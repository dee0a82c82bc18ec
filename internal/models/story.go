package models

import (
	"slices"
	"time"
)

// StoryLifetime is how long a story stays visible.
const StoryLifetime = 24 * time.Hour

// Story represents an ephemeral image or video
type Story struct {
	ID        string    `json:"id" bson:"_id" gorm:"primaryKey"`
	Author    Identity  `json:"author" bson:"author" gorm:"serializer:json;type:jsonb"`
	Media     Media     `json:"media" bson:"media" gorm:"serializer:json;type:jsonb"`
	Views     []string  `json:"views" bson:"views" gorm:"serializer:json;type:jsonb"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	ExpiresAt time.Time `json:"expiresAt" bson:"expires_at" gorm:"index"`
}

// NewStory creates a story that expires StoryLifetime after now
func NewStory(id string, author Identity, media Media, now time.Time) Story {
	return Story{
		ID:        id,
		Author:    author,
		Media:     media,
		Views:     []string{},
		CreatedAt: now,
		ExpiresAt: now.Add(StoryLifetime),
	}
}

func (s Story) RecordID() string { return s.ID }

// IsActive reports whether the story is still visible at now.
func (s Story) IsActive(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}

// MarkViewed records a view and reports whether it was the viewer's first.
func (s *Story) MarkViewed(userID string) bool {
	if slices.Contains(s.Views, userID) {
		return false
	}
	s.Views = append(s.Views, userID)
	return true
}

// CreateStoryRequest defines the form fields for creating a story
type CreateStoryRequest struct {
	Anonymous bool `form:"anonymous" json:"anonymous"`
}

// StoryGroup holds one author's active stories.
type StoryGroup struct {
	User    PublicUser `json:"user"`
	Stories []Story    `json:"stories"`
}
