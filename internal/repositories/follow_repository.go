package repositories

import (
	"context"
	"slices"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	Follow(ctx context.Context, followerID, targetID string) (*models.User, bool, error)
	Unfollow(ctx context.Context, followerID, targetID string) (*models.User, bool, error)
	IsFollowing(ctx context.Context, followerID, targetID string) (bool, error)
}

// StoreFollowRepository keeps the follow graph in the followers and following
// sets of the users collection.
type StoreFollowRepository struct {
	users *Guarded[models.User]
}

// NewStoreFollowRepository creates a new StoreFollowRepository
func NewStoreFollowRepository(store *Store) *StoreFollowRepository {
	return &StoreFollowRepository{users: store.Users}
}

// Follow adds followerID to the followers of targetID and recomputes the target's level.
// It returns the target and whether anything changed.
func (r *StoreFollowRepository) Follow(ctx context.Context, followerID, targetID string) (*models.User, bool, error) {
	return r.update(ctx, followerID, targetID, func(follower, target *models.User) bool {
		if target.HasFollower(followerID) {
			return false
		}
		target.Followers = append(target.Followers, followerID)
		if !follower.IsFollowing(targetID) {
			follower.Following = append(follower.Following, targetID)
		}
		return true
	})
}

// Unfollow removes followerID from the followers of targetID and recomputes the target's level.
func (r *StoreFollowRepository) Unfollow(ctx context.Context, followerID, targetID string) (*models.User, bool, error) {
	return r.update(ctx, followerID, targetID, func(follower, target *models.User) bool {
		if !target.HasFollower(followerID) && !follower.IsFollowing(targetID) {
			return false
		}
		target.Followers = slices.DeleteFunc(target.Followers, func(id string) bool { return id == followerID })
		follower.Following = slices.DeleteFunc(follower.Following, func(id string) bool { return id == targetID })
		return true
	})
}

func (r *StoreFollowRepository) IsFollowing(ctx context.Context, followerID, targetID string) (bool, error) {
	users, err := r.users.LoadAll(ctx)
	if err != nil {
		return false, err
	}
	i := indexOf(users, targetID)
	if i < 0 {
		return false, ErrNotFound
	}
	return users[i].HasFollower(followerID), nil
}

func (r *StoreFollowRepository) update(ctx context.Context, followerID, targetID string, mutate func(follower, target *models.User) bool) (*models.User, bool, error) {
	if followerID == targetID {
		return nil, false, ErrSelfFollow
	}

	var (
		result  models.User
		changed bool
	)
	err := r.users.Update(ctx, func(users []models.User) ([]models.User, bool, error) {
		fi, ti := indexOf(users, followerID), indexOf(users, targetID)
		if fi < 0 || ti < 0 {
			return nil, false, ErrNotFound
		}
		follower, target := users[fi], users[ti]
		changed = mutate(&follower, &target)
		if changed {
			target = target.RecomputeLevel()
			users[fi], users[ti] = follower, target
		}
		result = target
		return users, changed, nil
	})
	if err != nil {
		return nil, false, err
	}
	return &result, changed, nil
}
