package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"roomlink/internal/domain/entity"
	"roomlink/internal/domain/repository"
	"roomlink/internal/domain/service"
	"roomlink/pkg/errors"
	"roomlink/pkg/logger"
)

type ListingUseCase struct {
	listingRepo repository.ListingRepository
	photos      service.PhotoStorage
	viewMarks   ViewMarkerStore

	armMu     sync.Mutex
	armed     map[string]armedDelete
	armWindow time.Duration
}

type armedDelete struct {
	collection string
	listingID  string
	expires    time.Time
}

func NewListingUseCase(listingRepo repository.ListingRepository, photos service.PhotoStorage, viewMarks ViewMarkerStore, armWindow time.Duration) *ListingUseCase {
	return &ListingUseCase{
		listingRepo: listingRepo,
		photos:      photos,
		viewMarks:   viewMarks,
		armed:       make(map[string]armedDelete),
		armWindow:   armWindow,
	}
}

type SubmitInput struct {
	Collection  string
	Name        string
	Price       float64
	Location    string
	PhoneNumber string
	Description string
	GenderPref  string
}

type PhotoInput struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// Submit validates and persists a create-or-edit form. New photos are
// uploaded first, sequentially, so a failure can name the file that broke
// the submission; URLs are collected in selection order. An edit with no new
// photos keeps the listing's existing photos. Photos already uploaded when a
// later step fails are left in the object store; the form is the caller's to
// retry.
func (uc *ListingUseCase) Submit(ctx context.Context, ownerID string, input SubmitInput, editingID string, photos []PhotoInput) (*entity.Listing, error) {
	if !entity.ValidCollection(input.Collection) {
		return nil, errors.Validation("Unknown listing category", nil)
	}
	if input.Price < 0 {
		return nil, errors.Validation("Price cannot be negative", nil)
	}
	if editingID == "" && len(photos) == 0 {
		return nil, errors.Validation("Please upload at least one photo", nil)
	}
	if input.Collection == entity.CollectionRoommates {
		if input.GenderPref == "" {
			input.GenderPref = entity.GenderAny
		}
		if !entity.ValidGenderPref(input.GenderPref) {
			return nil, errors.Validation("Unknown gender preference", nil)
		}
	}

	var imageURLs []string
	for _, photo := range photos {
		url, err := uc.photos.UploadPhoto(ctx, photo.Reader, photo.ContentType, photo.Filename)
		if err != nil {
			return nil, errors.Internal(fmt.Sprintf("Failed to upload %s", photo.Filename), err)
		}
		imageURLs = append(imageURLs, url)
	}

	if editingID != "" {
		return uc.update(ctx, ownerID, input, editingID, imageURLs)
	}
	return uc.create(ctx, ownerID, input, imageURLs)
}

func (uc *ListingUseCase) create(ctx context.Context, ownerID string, input SubmitInput, imageURLs []string) (*entity.Listing, error) {
	listing := &entity.Listing{
		OwnerID:     ownerID,
		Name:        input.Name,
		Price:       input.Price,
		Location:    input.Location,
		PhoneNumber: input.PhoneNumber,
		Description: input.Description,
		ImageURLs:   imageURLs,
	}
	if input.Collection == entity.CollectionRoommates {
		listing.GenderPref = input.GenderPref
	}

	if err := uc.listingRepo.Create(ctx, input.Collection, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

func (uc *ListingUseCase) update(ctx context.Context, ownerID string, input SubmitInput, editingID string, imageURLs []string) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, input.Collection, editingID)
	if err != nil {
		return nil, err
	}
	if listing.OwnerID != ownerID {
		return nil, errors.Forbidden("You don't have permission to update this listing", nil)
	}

	listing.Name = input.Name
	listing.Price = input.Price
	listing.Location = input.Location
	listing.PhoneNumber = input.PhoneNumber
	listing.Description = input.Description
	if input.Collection == entity.CollectionRoommates {
		listing.GenderPref = input.GenderPref
	}
	// Editing without new photos keeps the existing ones.
	if len(imageURLs) > 0 {
		listing.ImageURLs = imageURLs
	}

	if err := uc.listingRepo.Update(ctx, input.Collection, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

// Delete implements the two-gesture confirmation: the first call for a
// listing arms it and deletes nothing; a second call for the same listing
// inside the window performs the deletion. Arming a different listing
// replaces the previous armed target.
func (uc *ListingUseCase) Delete(ctx context.Context, ownerID, collection, id string) (bool, error) {
	if !entity.ValidCollection(collection) {
		return false, errors.Validation("Unknown listing category", nil)
	}

	uc.armMu.Lock()
	entry, ok := uc.armed[ownerID]
	now := time.Now()
	if !ok || entry.collection != collection || entry.listingID != id || now.After(entry.expires) {
		uc.armed[ownerID] = armedDelete{
			collection: collection,
			listingID:  id,
			expires:    now.Add(uc.armWindow),
		}
		uc.armMu.Unlock()
		return true, nil
	}
	delete(uc.armed, ownerID)
	uc.armMu.Unlock()

	listing, err := uc.listingRepo.GetByID(ctx, collection, id)
	if err != nil {
		return false, err
	}
	if listing.OwnerID != ownerID {
		return false, errors.Forbidden("You don't have permission to delete this listing", nil)
	}

	return false, uc.listingRepo.Delete(ctx, collection, id)
}

// OwnedListing tags a listing with the collection it came from, for the
// combined "my active ads" view.
type OwnedListing struct {
	*entity.Listing
	Collection string `json:"collection"`
}

// ListMine returns the caller's listings from both collections, newest first.
func (uc *ListingUseCase) ListMine(ctx context.Context, ownerID string) ([]OwnedListing, error) {
	var combined []OwnedListing
	for _, collection := range []string{entity.CollectionHouses, entity.CollectionRoommates} {
		listings, err := uc.listingRepo.ListByOwner(ctx, collection, ownerID)
		if err != nil {
			return nil, err
		}
		for _, l := range listings {
			combined = append(combined, OwnedListing{Listing: l, Collection: collection})
		}
	}

	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].CreatedAt.After(combined[j].CreatedAt)
	})

	return combined, nil
}

// GetListing fetches one listing for a detail view and bumps its view
// counter the first time this browsing session opens it. A marker store
// failure skips the increment rather than failing the read.
func (uc *ListingUseCase) GetListing(ctx context.Context, collection, id, browseSessionID string) (*entity.Listing, error) {
	if !entity.ValidCollection(collection) {
		return nil, errors.NotFound("Listing", nil)
	}

	listing, err := uc.listingRepo.GetByID(ctx, collection, id)
	if err != nil {
		return nil, err
	}

	if browseSessionID != "" {
		first, err := uc.viewMarks.MarkViewed(ctx, browseSessionID, collection, id)
		if err != nil {
			logger.Warn("View marker lookup failed for %s/%s: %v", collection, id, err)
		} else if first {
			if err := uc.listingRepo.IncrementViews(ctx, collection, id); err != nil {
				logger.Warn("Failed to increment views for %s/%s: %v", collection, id, err)
			} else {
				listing.Views++
			}
		}
	}

	return listing, nil
}
