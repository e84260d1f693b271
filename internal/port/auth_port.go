package port

import (
	"context"

	"github.com/vidranorte/vitrine-api/internal/domain"
)

// AuthAPI is the hosted auth service: sign-up with arbitrary metadata,
// password sign-in, sign-out. Email confirmation and password recovery are
// entirely the backend's business.
type AuthAPI interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*domain.AuthUser, error)
	SignInWithPassword(ctx context.Context, email, password string) (*domain.TokenResponse, error)
	SignOut(ctx context.Context, accessToken string) error
}

// ProfileStore writes the role-specific profile record at signup. The
// upsert is keyed by the auth user's id so retries are idempotent.
type ProfileStore interface {
	UpsertProfile(ctx context.Context, role domain.Role, profile *domain.Profile) error
}
