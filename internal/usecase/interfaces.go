package usecase

import (
	"context"

	"roomlink/internal/infrastructure/firebase"
)

// AuthProvider is the slice of the authentication collaborator the use cases
// need; the concrete implementation lives in infrastructure/firebase.
type AuthProvider interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	VerifyToken(ctx context.Context, token string) (string, error)
	UpdateUserPassword(ctx context.Context, uid, newPassword string) error
	SignInWithEmailPassword(ctx context.Context, email, password string) (string, string, error)
	SignInWithIdp(ctx context.Context, providerToken string) (*firebase.OAuthResult, error)
	RefreshIDToken(ctx context.Context, refreshToken string) (string, string, error)
	SendPasswordResetEmail(ctx context.Context, email string) error
	SendEmailVerification(ctx context.Context, idToken string) error
}

// ViewMarkerStore remembers which listings a browsing session has already
// opened, so the view counter moves at most once per session per listing.
type ViewMarkerStore interface {
	MarkViewed(ctx context.Context, sessionID, collection, listingID string) (bool, error)
}
