package models

import "time"

// Comment is a comment on a post. Comments live inside their post.
type Comment struct {
	ID        string    `json:"id" bson:"id"`
	AuthorID  string    `json:"userId" bson:"author_id"`
	Content   string    `json:"content" bson:"content"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// CreateCommentRequest defines the request body for commenting on a post
type CreateCommentRequest struct {
	Content string `json:"content" form:"content" validate:"required,min=1,max=500"`
}

// CommentView is a comment with its author's projection.
type CommentView struct {
	Comment
	User *PublicUser `json:"user"`
}
