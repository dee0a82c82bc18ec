package repositories

import (
	"context"
	"slices"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPostsByUserID(ctx context.Context, userID string) ([]models.Post, error)
	GetAllPosts(ctx context.Context) ([]models.Post, error)
	DeletePost(ctx context.Context, id, userID string) error
	IncrementShares(ctx context.Context, id string) (*models.Post, error)
}

// StorePostRepository implements PostRepository over the posts collection
type StorePostRepository struct {
	posts *Guarded[models.Post]
}

// NewStorePostRepository creates a new StorePostRepository
func NewStorePostRepository(store *Store) *StorePostRepository {
	return &StorePostRepository{posts: store.Posts}
}

func (r *StorePostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return r.posts.Update(ctx, func(posts []models.Post) ([]models.Post, bool, error) {
		if indexOf(posts, post.ID) >= 0 {
			return nil, false, ErrAlreadyExists
		}
		return append(posts, *post), true, nil
	})
}

func (r *StorePostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	posts, err := r.posts.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(posts, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	return &posts[i], nil
}

// GetPostsByUserID returns the posts userID published under their name, newest first.
// Anonymous posts are never attributed.
func (r *StorePostRepository) GetPostsByUserID(ctx context.Context, userID string) ([]models.Post, error) {
	posts, err := r.posts.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	owned := slices.DeleteFunc(posts, func(p models.Post) bool { return !p.Author.Is(userID) })
	sortPostsNewestFirst(owned)
	return owned, nil
}

// GetAllPosts returns every post, newest first
func (r *StorePostRepository) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := r.posts.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	sortPostsNewestFirst(posts)
	return posts, nil
}

// DeletePost removes a post owned by userID
func (r *StorePostRepository) DeletePost(ctx context.Context, id, userID string) error {
	return r.posts.Update(ctx, func(posts []models.Post) ([]models.Post, bool, error) {
		i := indexOf(posts, id)
		if i < 0 {
			return nil, false, ErrNotFound
		}
		if !posts[i].Author.Is(userID) {
			return nil, false, ErrForbidden
		}
		return slices.Delete(posts, i, i+1), true, nil
	})
}

func (r *StorePostRepository) IncrementShares(ctx context.Context, id string) (*models.Post, error) {
	return r.modify(ctx, id, func(p *models.Post) {
		p.Shares++
	})
}

func (r *StorePostRepository) modify(ctx context.Context, id string, fn func(p *models.Post)) (*models.Post, error) {
	var result models.Post
	err := r.posts.Update(ctx, func(posts []models.Post) ([]models.Post, bool, error) {
		i := indexOf(posts, id)
		if i < 0 {
			return nil, false, ErrNotFound
		}
		fn(&posts[i])
		result = posts[i]
		return posts, true, nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func sortPostsNewestFirst(posts []models.Post) {
	slices.SortStableFunc(posts, func(a, b models.Post) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
