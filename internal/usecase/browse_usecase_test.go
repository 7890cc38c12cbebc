package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomlink/internal/domain/entity"
	"roomlink/internal/domain/query"
	"roomlink/pkg/errors"
)

// fakeListingRepo satisfies repository.ListingRepository for controller
// tests. Execute is pluggable so individual tests can delay or fail it.
type fakeListingRepo struct {
	mu        sync.Mutex
	executeFn func(ctx context.Context, desc query.Description) ([]*entity.Listing, int64, error)
	descs     []query.Description
}

func (f *fakeListingRepo) Execute(ctx context.Context, desc query.Description) ([]*entity.Listing, int64, error) {
	f.mu.Lock()
	f.descs = append(f.descs, desc)
	fn := f.executeFn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, desc)
	}
	return nil, 0, nil
}

func (f *fakeListingRepo) lastDesc() query.Description {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.descs[len(f.descs)-1]
}

func (f *fakeListingRepo) Create(ctx context.Context, collection string, listing *entity.Listing) error {
	return nil
}

func (f *fakeListingRepo) GetByID(ctx context.Context, collection, id string) (*entity.Listing, error) {
	return nil, errors.NotFound("Listing", nil)
}

func (f *fakeListingRepo) Update(ctx context.Context, collection string, listing *entity.Listing) error {
	return nil
}

func (f *fakeListingRepo) Delete(ctx context.Context, collection, id string) error {
	return nil
}

func (f *fakeListingRepo) IncrementViews(ctx context.Context, collection, id string) error {
	return nil
}

func (f *fakeListingRepo) ListByOwner(ctx context.Context, collection, ownerID string) ([]*entity.Listing, error) {
	return nil, nil
}

func strPtr(s string) *string { return &s }

func TestBrowseEmptyResultIsReadyNotFailed(t *testing.T) {
	repo := &fakeListingRepo{}
	c := NewBrowseController(repo, entity.CollectionHouses, 8)

	snap := c.Refresh(context.Background())

	assert.Equal(t, BrowseReady, snap.State)
	assert.NoError(t, snap.Err)
	assert.Empty(t, snap.Listings)
	assert.Equal(t, int64(0), snap.Total)
}

func TestBrowseFetchErrorYieldsFailedState(t *testing.T) {
	repo := &fakeListingRepo{
		executeFn: func(ctx context.Context, desc query.Description) ([]*entity.Listing, int64, error) {
			return nil, 0, errors.Internal("backend unavailable", nil)
		},
	}
	c := NewBrowseController(repo, entity.CollectionHouses, 8)

	snap := c.Refresh(context.Background())

	assert.Equal(t, BrowseFailed, snap.State)
	assert.Error(t, snap.Err)
}

func TestBrowseSetFilterResetsPage(t *testing.T) {
	repo := &fakeListingRepo{
		executeFn: func(ctx context.Context, desc query.Description) ([]*entity.Listing, int64, error) {
			return []*entity.Listing{{ID: "a"}}, 30, nil
		},
	}
	c := NewBrowseController(repo, entity.CollectionHouses, 8)

	c.Refresh(context.Background())
	snap := c.SetPage(context.Background(), 3)
	require.Equal(t, 3, snap.Page)
	assert.True(t, snap.ScrollTop)

	snap = c.SetFilter(context.Background(), FilterUpdate{Location: strPtr("Lagos")})
	assert.Equal(t, 1, snap.Page)
	assert.False(t, snap.ScrollTop)
	assert.Equal(t, 0, repo.lastDesc().From)
}

func TestBrowseSetPageClampsToKnownRange(t *testing.T) {
	repo := &fakeListingRepo{
		executeFn: func(ctx context.Context, desc query.Description) ([]*entity.Listing, int64, error) {
			return []*entity.Listing{{ID: "a"}}, 20, nil
		},
	}
	c := NewBrowseController(repo, entity.CollectionHouses, 8)
	c.Refresh(context.Background())

	snap := c.SetPage(context.Background(), 99)
	assert.Equal(t, 3, snap.Page)

	snap = c.SetPage(context.Background(), -4)
	assert.Equal(t, 1, snap.Page)
}

func TestBrowseStaleResponseIsDiscarded(t *testing.T) {
	releaseFirst := make(chan struct{})
	firstIssued := make(chan struct{})

	stale := []*entity.Listing{{ID: "stale"}}
	fresh := []*entity.Listing{{ID: "fresh"}}

	var calls int
	var mu sync.Mutex
	repo := &fakeListingRepo{}
	repo.executeFn = func(ctx context.Context, desc query.Description) ([]*entity.Listing, int64, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(firstIssued)
			// Hold the first response until the second fetch has finished.
			<-releaseFirst
			return stale, 1, nil
		}
		return fresh, 1, nil
	}

	c := NewBrowseController(repo, entity.CollectionHouses, 8)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Refresh(context.Background())
	}()

	<-firstIssued
	snap := c.SetFilter(context.Background(), FilterUpdate{Location: strPtr("Lagos")})
	require.Equal(t, BrowseReady, snap.State)
	require.Equal(t, "fresh", snap.Listings[0].ID)

	close(releaseFirst)
	wg.Wait()

	// The first fetch resolved last, but its rows must not overwrite the
	// newer result.
	snap = c.Snapshot()
	assert.Equal(t, "fresh", snap.Listings[0].ID)
	assert.Equal(t, BrowseReady, snap.State)
}

func TestBrowseResetRestoresDefaults(t *testing.T) {
	repo := &fakeListingRepo{}
	c := NewBrowseController(repo, entity.CollectionRoommates, 8)

	c.SetFilter(context.Background(), FilterUpdate{
		Location: strPtr("Abuja"),
		Gender:   strPtr(entity.GenderMale),
		Sort:     strPtr(query.SortPriceLow),
		Search:   strPtr("flat"),
	})
	c.Reset(context.Background())

	desc := repo.lastDesc()
	assert.Empty(t, desc.Where)
	assert.Equal(t, query.FieldCreatedAt, desc.Sort[0].Field)
	assert.Equal(t, 0, desc.From)
}

func TestBrowseRegistrySeparatesSessionsAndCollections(t *testing.T) {
	repo := &fakeListingRepo{}
	reg := NewBrowseRegistry(repo, 8)

	a := reg.Get("session-a", entity.CollectionHouses)
	b := reg.Get("session-b", entity.CollectionHouses)
	c := reg.Get("session-a", entity.CollectionRoommates)

	assert.NotSame(t, a, b)
	assert.NotSame(t, a, c)
	assert.Same(t, a, reg.Get("session-a", entity.CollectionHouses))

	a.SetFilter(context.Background(), FilterUpdate{Location: strPtr("Lagos")})
	b.Refresh(context.Background())
	assert.Empty(t, repo.lastDesc().Where)
}

func TestBrowseSnapshotTotalPages(t *testing.T) {
	repo := &fakeListingRepo{
		executeFn: func(ctx context.Context, desc query.Description) ([]*entity.Listing, int64, error) {
			return []*entity.Listing{{ID: "a"}}, 17, nil
		},
	}
	c := NewBrowseController(repo, entity.CollectionHouses, 8)

	snap := c.Refresh(context.Background())

	assert.Equal(t, 3, snap.TotalPages)
	assert.Equal(t, int64(17), snap.Total)
}

func TestBrowseControllerSurvivesTimeout(t *testing.T) {
	repo := &fakeListingRepo{
		executeFn: func(ctx context.Context, desc query.Description) ([]*entity.Listing, int64, error) {
			<-ctx.Done()
			return nil, 0, ctx.Err()
		},
	}
	c := NewBrowseController(repo, entity.CollectionHouses, 8)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	snap := c.Refresh(ctx)
	require.Equal(t, BrowseFailed, snap.State)

	// A later fetch recovers from the failed state.
	repo.executeFn = nil
	snap = c.Refresh(context.Background())
	assert.Equal(t, BrowseReady, snap.State)
	assert.NoError(t, snap.Err)
}
