package usecase

import (
	"sync"
	"time"

	"roomlink/internal/domain/repository"
)

// BrowseRegistry hands out one BrowseController per browsing session and
// collection, so filter state survives across requests from the same client.
// Idle entries are swept to keep the map from growing without bound.
type BrowseRegistry struct {
	repo     repository.ListingRepository
	pageSize int
	maxIdle  time.Duration

	mu      sync.Mutex
	entries map[string]*registryEntry
}

type registryEntry struct {
	controller *BrowseController
	lastSeen   time.Time
}

func NewBrowseRegistry(repo repository.ListingRepository, pageSize int) *BrowseRegistry {
	r := &BrowseRegistry{
		repo:     repo,
		pageSize: pageSize,
		maxIdle:  time.Hour,
		entries:  make(map[string]*registryEntry),
	}
	go r.sweep()
	return r
}

func (r *BrowseRegistry) Get(sessionID, collection string) *BrowseController {
	key := sessionID + ":" + collection

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[key]
	if !ok {
		entry = &registryEntry{
			controller: NewBrowseController(r.repo, collection, r.pageSize),
		}
		r.entries[key] = entry
	}
	entry.lastSeen = time.Now()
	return entry.controller
}

func (r *BrowseRegistry) sweep() {
	for {
		time.Sleep(10 * time.Minute)

		r.mu.Lock()
		now := time.Now()
		for key, entry := range r.entries {
			if now.Sub(entry.lastSeen) > r.maxIdle {
				delete(r.entries, key)
			}
		}
		r.mu.Unlock()
	}
}
