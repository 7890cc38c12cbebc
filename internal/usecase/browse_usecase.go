package usecase

import (
	"context"
	"sync"

	"roomlink/internal/domain/entity"
	"roomlink/internal/domain/query"
	"roomlink/internal/domain/repository"
)

type BrowseState string

const (
	BrowseIdle    BrowseState = "idle"
	BrowseLoading BrowseState = "loading"
	BrowseReady   BrowseState = "ready"
	BrowseFailed  BrowseState = "failed"
)

// BrowseSnapshot is the view-ready result of the latest fetch. An empty
// Listings slice with State == BrowseReady is a valid "no matches" outcome,
// distinct from BrowseFailed.
type BrowseSnapshot struct {
	State      BrowseState
	Listings   []*entity.Listing
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
	ScrollTop  bool
	Err        error
}

// FilterUpdate is a partial change; nil fields keep their current value.
type FilterUpdate struct {
	Location *string
	Gender   *string
	Sort     *string
	Search   *string
}

// BrowseController owns the filter/sort/page state for one collection and
// drives fetches through the query builder. Overlapping fetches are resolved
// in request-issue order: every fetch takes a sequence number under the lock
// and a response is discarded when a newer request has been issued since,
// so a slow stale response can never overwrite a fresh one.
type BrowseController struct {
	repo       repository.ListingRepository
	collection string
	pageSize   int

	mu       sync.Mutex
	location string
	gender   string
	sort     string
	search   string
	page     int
	seq      uint64

	state     BrowseState
	rows      []*entity.Listing
	total     int64
	err       error
	scrollTop bool
}

func NewBrowseController(repo repository.ListingRepository, collection string, pageSize int) *BrowseController {
	return &BrowseController{
		repo:       repo,
		collection: collection,
		pageSize:   pageSize,
		location:   query.FilterAll,
		gender:     query.FilterAll,
		sort:       query.SortNewest,
		page:       1,
		state:      BrowseIdle,
	}
}

// SetFilter merges the partial update into the current filter state, resets
// the page to 1 and fetches.
func (c *BrowseController) SetFilter(ctx context.Context, update FilterUpdate) BrowseSnapshot {
	c.mu.Lock()
	if update.Location != nil {
		c.location = *update.Location
	}
	if update.Gender != nil {
		c.gender = *update.Gender
	}
	if update.Sort != nil {
		c.sort = *update.Sort
	}
	if update.Search != nil {
		c.search = *update.Search
	}
	c.page = 1
	c.scrollTop = false
	return c.fetchLocked(ctx)
}

// SubmitSearch commits a search box value into the active search term.
func (c *BrowseController) SubmitSearch(ctx context.Context, term string) BrowseSnapshot {
	return c.SetFilter(ctx, FilterUpdate{Search: &term})
}

// SetPage moves to page n, clamped to the known page range, and signals the
// view to scroll back to the top.
func (c *BrowseController) SetPage(ctx context.Context, n int) BrowseSnapshot {
	c.mu.Lock()
	if n < 1 {
		n = 1
	}
	if max := c.totalPagesLocked(); max > 0 && n > max {
		n = max
	}
	c.page = n
	c.scrollTop = true
	return c.fetchLocked(ctx)
}

// Refresh re-runs the current configuration.
func (c *BrowseController) Refresh(ctx context.Context) BrowseSnapshot {
	c.mu.Lock()
	c.scrollTop = false
	return c.fetchLocked(ctx)
}

// Reset restores the default configuration, the affordance offered on a
// failed fetch or an empty result.
func (c *BrowseController) Reset(ctx context.Context) BrowseSnapshot {
	c.mu.Lock()
	c.location = query.FilterAll
	c.gender = query.FilterAll
	c.sort = query.SortNewest
	c.search = ""
	c.page = 1
	c.scrollTop = false
	return c.fetchLocked(ctx)
}

func (c *BrowseController) Snapshot() BrowseSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// fetchLocked must be entered with the lock held; it releases the lock for
// the duration of the repository call.
func (c *BrowseController) fetchLocked(ctx context.Context) BrowseSnapshot {
	c.state = BrowseLoading
	c.seq++
	seq := c.seq
	desc := query.Build(query.Params{
		Collection: c.collection,
		Location:   c.location,
		Gender:     c.gender,
		SearchTerm: c.search,
		SortKey:    c.sort,
		Page:       c.page,
		PageSize:   c.pageSize,
	})
	c.mu.Unlock()

	rows, total, err := c.repo.Execute(ctx, desc)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		// A newer fetch was issued while this one was in flight; its result
		// wins regardless of arrival order.
		return c.snapshotLocked()
	}
	if err != nil {
		c.state = BrowseFailed
		c.err = err
		return c.snapshotLocked()
	}
	c.state = BrowseReady
	c.err = nil
	c.rows = rows
	c.total = total
	return c.snapshotLocked()
}

func (c *BrowseController) snapshotLocked() BrowseSnapshot {
	return BrowseSnapshot{
		State:      c.state,
		Listings:   c.rows,
		Total:      c.total,
		Page:       c.page,
		PageSize:   c.pageSize,
		TotalPages: c.totalPagesLocked(),
		ScrollTop:  c.scrollTop,
		Err:        c.err,
	}
}

func (c *BrowseController) totalPagesLocked() int {
	if c.pageSize <= 0 {
		return 0
	}
	pages := int(c.total) / c.pageSize
	if int(c.total)%c.pageSize > 0 {
		pages++
	}
	return pages
}
