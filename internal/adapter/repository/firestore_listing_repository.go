package repository

import (
	"context"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"roomlink/internal/domain/entity"
	"roomlink/internal/domain/query"
	"roomlink/internal/domain/repository"
	"roomlink/pkg/errors"
)

type firestoreListingRepository struct {
	client *firestore.Client
}

func NewFirestoreListingRepository(client *firestore.Client) repository.ListingRepository {
	return &firestoreListingRepository{
		client: client,
	}
}

func (r *firestoreListingRepository) Create(ctx context.Context, collection string, listing *entity.Listing) error {
	if listing.ID == "" {
		doc := r.client.Collection(collection).NewDoc()
		listing.ID = doc.ID
	}

	now := time.Now()
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = now
	}
	listing.UpdatedAt = now

	_, err := r.client.Collection(collection).Doc(listing.ID).Set(ctx, listing)
	if err != nil {
		return errors.Internal("Failed to create listing", err)
	}

	return nil
}

func (r *firestoreListingRepository) GetByID(ctx context.Context, collection, id string) (*entity.Listing, error) {
	doc, err := r.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Listing", err)
		}
		return nil, errors.Internal("Failed to get listing", err)
	}

	var listing entity.Listing
	if err := doc.DataTo(&listing); err != nil {
		return nil, errors.Internal("Failed to parse listing data", err)
	}

	return &listing, nil
}

// Execute runs a query description against Firestore. Exact-match filters
// are pushed down; substring clauses are evaluated over the candidate set
// because Firestore has no full-text operator. Sorting and the inclusive
// row range are applied after filtering so the total count reflects every
// matching row, not just the requested page.
func (r *firestoreListingRepository) Execute(ctx context.Context, desc query.Description) ([]*entity.Listing, int64, error) {
	q := r.client.Collection(desc.Collection).Query
	var residual []query.Clause

	for _, clause := range desc.Where {
		if len(clause) == 1 && clause[0].Op == query.OpEqual {
			q = q.Where(firestorePath(clause[0].Field), "==", clause[0].Value)
			continue
		}
		residual = append(residual, clause)
	}

	iter := q.Documents(ctx)
	var candidates []*entity.Listing
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate listings", err)
		}
		var listing entity.Listing
		if err := doc.DataTo(&listing); err != nil {
			return nil, 0, errors.Internal("Failed to parse listing data", err)
		}
		candidates = append(candidates, &listing)
	}

	matched := applyClauses(candidates, residual)
	sortListings(matched, desc.Sort)

	total := int64(len(matched))
	return sliceRange(matched, desc.From, desc.To), total, nil
}

func (r *firestoreListingRepository) Update(ctx context.Context, collection string, listing *entity.Listing) error {
	listing.UpdatedAt = time.Now()

	_, err := r.client.Collection(collection).Doc(listing.ID).Set(ctx, listing)
	if err != nil {
		return errors.Internal("Failed to update listing", err)
	}

	return nil
}

func (r *firestoreListingRepository) Delete(ctx context.Context, collection, id string) error {
	_, err := r.client.Collection(collection).Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete listing", err)
	}

	return nil
}

func (r *firestoreListingRepository) IncrementViews(ctx context.Context, collection, id string) error {
	_, err := r.client.Collection(collection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "views", Value: firestore.Increment(1)},
	})
	if err != nil {
		return errors.Internal("Failed to increment listing views", err)
	}

	return nil
}

func (r *firestoreListingRepository) ListByOwner(ctx context.Context, collection, ownerID string) ([]*entity.Listing, error) {
	iter := r.client.Collection(collection).Where("ownerId", "==", ownerID).Documents(ctx)

	var listings []*entity.Listing
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate owner listings", err)
		}
		var listing entity.Listing
		if err := doc.DataTo(&listing); err != nil {
			return nil, errors.Internal("Failed to parse listing data", err)
		}
		listings = append(listings, &listing)
	}

	sortListings(listings, []query.Order{
		{Field: query.FieldCreatedAt, Desc: true},
		{Field: query.FieldID, Desc: true},
	})

	return listings, nil
}

func firestorePath(field string) string {
	switch field {
	case query.FieldGenderPref:
		return "genderPref"
	case query.FieldCreatedAt:
		return "createdAt"
	default:
		return field
	}
}

func applyClauses(listings []*entity.Listing, clauses []query.Clause) []*entity.Listing {
	if len(clauses) == 0 {
		return listings
	}
	matched := make([]*entity.Listing, 0, len(listings))
	for _, l := range listings {
		if matchesAll(l, clauses) {
			matched = append(matched, l)
		}
	}
	return matched
}

func matchesAll(l *entity.Listing, clauses []query.Clause) bool {
	for _, clause := range clauses {
		if !matchesAny(l, clause) {
			return false
		}
	}
	return true
}

func matchesAny(l *entity.Listing, clause query.Clause) bool {
	for _, f := range clause {
		value := fieldValue(l, f.Field)
		switch f.Op {
		case query.OpEqual:
			if value == f.Value {
				return true
			}
		case query.OpContains:
			if strings.Contains(strings.ToLower(value), strings.ToLower(f.Value)) {
				return true
			}
		}
	}
	return false
}

func fieldValue(l *entity.Listing, field string) string {
	switch field {
	case query.FieldName:
		return l.Name
	case query.FieldLocation:
		return l.Location
	case query.FieldGenderPref:
		return l.GenderPref
	case query.FieldID:
		return l.ID
	default:
		return ""
	}
}

func sortListings(listings []*entity.Listing, orders []query.Order) {
	sort.SliceStable(listings, func(i, j int) bool {
		for _, o := range orders {
			cmp := compareField(listings[i], listings[j], o.Field)
			if cmp == 0 {
				continue
			}
			if o.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func compareField(a, b *entity.Listing, field string) int {
	switch field {
	case query.FieldPrice:
		switch {
		case a.Price < b.Price:
			return -1
		case a.Price > b.Price:
			return 1
		}
		return 0
	case query.FieldCreatedAt:
		switch {
		case a.CreatedAt.Before(b.CreatedAt):
			return -1
		case a.CreatedAt.After(b.CreatedAt):
			return 1
		}
		return 0
	case query.FieldID:
		return strings.Compare(a.ID, b.ID)
	default:
		return 0
	}
}

func sliceRange(listings []*entity.Listing, from, to int) []*entity.Listing {
	if from < 0 {
		from = 0
	}
	if from >= len(listings) {
		return []*entity.Listing{}
	}
	end := to + 1
	if end > len(listings) {
		end = len(listings)
	}
	return listings[from:end]
}
