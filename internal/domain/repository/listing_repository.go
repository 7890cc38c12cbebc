package repository

import (
	"context"

	"roomlink/internal/domain/entity"
	"roomlink/internal/domain/query"
)

type ListingRepository interface {
	Create(ctx context.Context, collection string, listing *entity.Listing) error
	GetByID(ctx context.Context, collection, id string) (*entity.Listing, error)
	// Execute runs a query description and returns the requested row range
	// together with the total number of matching rows.
	Execute(ctx context.Context, desc query.Description) ([]*entity.Listing, int64, error)
	Update(ctx context.Context, collection string, listing *entity.Listing) error
	Delete(ctx context.Context, collection, id string) error
	IncrementViews(ctx context.Context, collection, id string) error
	ListByOwner(ctx context.Context, collection, ownerID string) ([]*entity.Listing, error)
}
