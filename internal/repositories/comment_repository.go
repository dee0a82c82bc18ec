package repositories

import (
	"context"
	"slices"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, postID string, comment models.Comment) (*models.Post, error)
	GetCommentsByPostID(ctx context.Context, postID string) ([]models.Comment, error)
	DeleteComment(ctx context.Context, postID, commentID, userID string) error
}

// StoreCommentRepository keeps comments inside their post
type StoreCommentRepository struct {
	posts *StorePostRepository
}

// NewStoreCommentRepository creates a new StoreCommentRepository
func NewStoreCommentRepository(store *Store) *StoreCommentRepository {
	return &StoreCommentRepository{posts: NewStorePostRepository(store)}
}

func (r *StoreCommentRepository) CreateComment(ctx context.Context, postID string, comment models.Comment) (*models.Post, error) {
	return r.posts.modify(ctx, postID, func(p *models.Post) {
		p.Comments = append(p.Comments, comment)
	})
}

func (r *StoreCommentRepository) GetCommentsByPostID(ctx context.Context, postID string) ([]models.Comment, error) {
	post, err := r.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Comments == nil {
		return []models.Comment{}, nil
	}
	return post.Comments, nil
}

// DeleteComment removes a comment written by userID, or any comment on a post userID owns.
func (r *StoreCommentRepository) DeleteComment(ctx context.Context, postID, commentID, userID string) error {
	return r.posts.posts.Update(ctx, func(posts []models.Post) ([]models.Post, bool, error) {
		pi := indexOf(posts, postID)
		if pi < 0 {
			return nil, false, ErrNotFound
		}
		post := &posts[pi]
		ci := slices.IndexFunc(post.Comments, func(c models.Comment) bool { return c.ID == commentID })
		if ci < 0 {
			return nil, false, ErrNotFound
		}
		if post.Comments[ci].AuthorID != userID && !post.Author.Is(userID) {
			return nil, false, ErrForbidden
		}
		post.Comments = slices.Delete(post.Comments, ci, ci+1)
		return posts, true, nil
	})
}
