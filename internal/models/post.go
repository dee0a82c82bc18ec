package models

import (
	"slices"
	"time"
)

type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Media is an uploaded image or video.
type Media struct {
	URL  string    `json:"url" bson:"url"`
	Kind MediaKind `json:"type" bson:"type"`
}

// Post represents a social media post
type Post struct {
	ID        string    `json:"id" bson:"_id" gorm:"primaryKey"`
	Author    Identity  `json:"author" bson:"author" gorm:"serializer:json;type:jsonb"`
	Content   string    `json:"content" bson:"content"`
	Media     *Media    `json:"media,omitempty" bson:"media,omitempty" gorm:"serializer:json;type:jsonb"`
	Likes     []string  `json:"likes" bson:"likes" gorm:"serializer:json;type:jsonb"`
	Comments  []Comment `json:"comments" bson:"comments" gorm:"serializer:json;type:jsonb"`
	Shares    int       `json:"shares" bson:"shares"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at" gorm:"index"`
}

func (p Post) RecordID() string { return p.ID }

func (p Post) LikedBy(userID string) bool {
	return slices.Contains(p.Likes, userID)
}

// ToggleLike adds or removes userID from the likes and reports whether the post is now liked.
func (p *Post) ToggleLike(userID string) bool {
	if i := slices.Index(p.Likes, userID); i >= 0 {
		p.Likes = slices.Delete(p.Likes, i, i+1)
		return false
	}
	p.Likes = append(p.Likes, userID)
	return true
}

// CreatePostRequest defines the form fields for creating a new post
type CreatePostRequest struct {
	Content   string `form:"content" json:"content" validate:"max=2000"`
	Anonymous bool   `form:"anonymous" json:"anonymous"`
}

// PostView is a post as rendered in feeds.
type PostView struct {
	ID        string        `json:"id"`
	Content   string        `json:"content"`
	Media     *Media        `json:"media,omitempty"`
	Anonymous bool          `json:"anonymous"`
	User      *PublicUser   `json:"user"`
	Likes     []string      `json:"likes"`
	Comments  []CommentView `json:"comments"`
	Shares    int           `json:"shares"`
	IsLiked   bool          `json:"isLiked"`
	CreatedAt time.Time     `json:"createdAt"`
}
