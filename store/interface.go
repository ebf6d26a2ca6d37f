package store

import (
	"time"

	"github.com/atticdev/attic/models"
	"github.com/atticdev/attic/types"
)

// ItemStore defines uniform access to one live collection. Every
// implementation reports missing items as NOT_FOUND and duplicate
// identifiers on create as CONFLICT, so callers can branch on
// types.CodeOf without knowing the backend.
type ItemStore interface {
	// Kind returns the item type this store holds.
	Kind() models.ItemType

	// Get retrieves an item by its unique identifier.
	Get(id string) (models.Item, error)

	// Create adds a new item to the collection. An empty identifier
	// is replaced with a generated one; an identifier that already
	// exists is rejected with CONFLICT.
	Create(item models.Item) (models.Item, error)

	// Delete removes an item from the collection by identifier.
	Delete(id string) error

	// List retrieves items, optionally filtered.
	List(filterFn func(models.Item) bool) ([]models.Item, error)

	// Close releases any resources held by the store.
	Close() error
}

// ItemStores bundles the five live collections.
type ItemStores map[models.ItemType]ItemStore

// ForType returns the store for the given item type.
func (s ItemStores) ForType(t models.ItemType) (ItemStore, error) {
	st, ok := s[t]
	if !ok {
		return nil, types.Errorf(types.CodeInvalidItemType, "no store for item type %q", t)
	}
	return st, nil
}

// Close closes every store in the bundle, returning the first error.
func (s ItemStores) Close() error {
	var first error
	for _, st := range s {
		if err := st.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// SortOrder controls archive listing order by completion time.
type SortOrder string

const (
	SortNewestFirst SortOrder = "desc"
	SortOldestFirst SortOrder = "asc"
)

// ArchiveFilters narrows an archive listing. Zero values mean "no
// constraint". Pending records are never returned regardless of
// filters.
type ArchiveFilters struct {
	ItemType  models.ItemType
	StartDate *time.Time
	EndDate   *time.Time
	ProjectID string
	Sort      SortOrder
	Limit     int
}

// ArchiveStore is the durable collection of archive records.
type ArchiveStore interface {
	// Insert persists a new record in the pending state.
	Insert(rec models.ArchiveRecord) error

	// MarkArchived flips a pending record to archived.
	MarkArchived(id string) error

	// Get retrieves a record by identifier, whatever its status.
	Get(id string) (models.ArchiveRecord, error)

	// Delete removes a record by identifier.
	Delete(id string) error

	// List returns archived records matching the filters,
	// most-recent-first unless the filters say otherwise.
	List(filters ArchiveFilters) ([]models.ArchiveRecord, error)

	// ListPending returns records stuck in the pending state for
	// longer than the grace window, for the reconciliation sweep.
	ListPending(olderThan time.Time) ([]models.ArchiveRecord, error)

	// Close releases the underlying database handle.
	Close() error
}
