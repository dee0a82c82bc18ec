package repositories

import (
	"context"
	"strings"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) ([]models.User, error)
	ModifyUser(ctx context.Context, id string, fn func(user *models.User) error) (*models.User, error)
	SearchUsers(ctx context.Context, query string) ([]models.User, error)
}

// StoreUserRepository implements UserRepository over the users collection
type StoreUserRepository struct {
	users *Guarded[models.User]
}

// NewStoreUserRepository creates a new StoreUserRepository
func NewStoreUserRepository(store *Store) *StoreUserRepository {
	return &StoreUserRepository{users: store.Users}
}

// CreateUser stores a new user. Usernames and emails are unique, ignoring case.
func (r *StoreUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return r.users.Update(ctx, func(users []models.User) ([]models.User, bool, error) {
		if conflicting(users, user.ID, user.Username, user.Email) {
			return nil, false, ErrAlreadyExists
		}
		return append(users, *user), true, nil
	})
}

func (r *StoreUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.find(ctx, func(u models.User) bool { return u.ID == id })
}

func (r *StoreUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(ctx, func(u models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *StoreUserRepository) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	if firebaseUID == "" {
		return nil, ErrNotFound
	}
	return r.find(ctx, func(u models.User) bool { return u.FirebaseUID == firebaseUID })
}

func (r *StoreUserRepository) GetUsers(ctx context.Context) ([]models.User, error) {
	return r.users.LoadAll(ctx)
}

// GetUsersByIDs returns the users in ids order, skipping ids that do not resolve.
func (r *StoreUserRepository) GetUsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	users, err := r.users.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	index := models.IndexUsers(users)
	found := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := index[id]; ok {
			found = append(found, *u)
		}
	}
	return found, nil
}

// ModifyUser applies fn to the stored user in one locked cycle and returns the result.
// An error from fn aborts the change.
func (r *StoreUserRepository) ModifyUser(ctx context.Context, id string, fn func(user *models.User) error) (*models.User, error) {
	var modified models.User
	err := r.users.Update(ctx, func(users []models.User) ([]models.User, bool, error) {
		i := indexOf(users, id)
		if i < 0 {
			return nil, false, ErrNotFound
		}
		candidate := users[i]
		if err := fn(&candidate); err != nil {
			return nil, false, err
		}
		if conflicting(users, candidate.ID, candidate.Username, candidate.Email) {
			return nil, false, ErrAlreadyExists
		}
		users[i] = candidate
		modified = candidate
		return users, true, nil
	})
	if err != nil {
		return nil, err
	}
	return &modified, nil
}

// SearchUsers matches usernames containing query, ignoring case
func (r *StoreUserRepository) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	users, err := r.users.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	matches := []models.User{}
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Username), q) {
			matches = append(matches, u)
		}
	}
	return matches, nil
}

func (r *StoreUserRepository) find(ctx context.Context, match func(models.User) bool) (*models.User, error) {
	users, err := r.users.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if match(users[i]) {
			return &users[i], nil
		}
	}
	return nil, ErrNotFound
}

// conflicting reports whether a user other than id already holds username or email.
func conflicting(users []models.User, id, username, email string) bool {
	for _, u := range users {
		if u.ID == id {
			continue
		}
		if strings.EqualFold(u.Username, username) || strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}
