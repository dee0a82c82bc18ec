package repositories

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	ToggleLike(ctx context.Context, postID, userID string) (*models.Post, bool, error)
	HasUserLikedPost(ctx context.Context, postID, userID string) (bool, error)
}

// StoreLikeRepository keeps likes as the like set of each post
type StoreLikeRepository struct {
	posts *StorePostRepository
}

// NewStoreLikeRepository creates a new StoreLikeRepository
func NewStoreLikeRepository(store *Store) *StoreLikeRepository {
	return &StoreLikeRepository{posts: NewStorePostRepository(store)}
}

// ToggleLike likes the post for userID, or unlikes it if already liked.
// It reports whether the post is liked afterwards.
func (r *StoreLikeRepository) ToggleLike(ctx context.Context, postID, userID string) (*models.Post, bool, error) {
	var liked bool
	post, err := r.posts.modify(ctx, postID, func(p *models.Post) {
		liked = p.ToggleLike(userID)
	})
	if err != nil {
		return nil, false, err
	}
	return post, liked, nil
}

func (r *StoreLikeRepository) HasUserLikedPost(ctx context.Context, postID, userID string) (bool, error) {
	post, err := r.posts.GetPostByID(ctx, postID)
	if err != nil {
		return false, err
	}
	return post.LikedBy(userID), nil
}
