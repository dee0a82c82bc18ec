package middleware

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/nano-social/backend/internal/repositories"
)

// FirebaseTokenResolver accepts Firebase ID tokens in place of local JWTs,
// for accounts that signed in through Firebase.
type FirebaseTokenResolver struct {
	authClient *auth.Client
	users      repositories.UserRepository
}

// NewFirebaseTokenResolver creates a new FirebaseTokenResolver
func NewFirebaseTokenResolver(authClient *auth.Client, users repositories.UserRepository) *FirebaseTokenResolver {
	return &FirebaseTokenResolver{authClient: authClient, users: users}
}

// Resolve verifies the ID token and returns the local user linked to its Firebase UID.
func (r *FirebaseTokenResolver) Resolve(ctx context.Context, idToken string) (string, error) {
	token, err := r.authClient.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", fmt.Errorf("verifying firebase ID token: %w", err)
	}
	user, err := r.users.GetUserByFirebaseUID(ctx, token.UID)
	if err != nil {
		return "", fmt.Errorf("resolving firebase user %s: %w", token.UID, err)
	}
	return user.ID, nil
}
