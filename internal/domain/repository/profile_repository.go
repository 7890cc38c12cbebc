package repository

import (
	"context"

	"roomlink/internal/domain/entity"
)

type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	GetByEmail(ctx context.Context, email string) (*entity.Profile, error)
	// Upsert writes the profile idempotently; repeated calls for the same
	// user must not fail or duplicate rows.
	Upsert(ctx context.Context, profile *entity.Profile) error
}
