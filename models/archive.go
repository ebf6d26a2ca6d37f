package models

import "time"

// ArchiveStatus tracks the two-phase move of an item into the
// archive. A record is inserted as pending, and becomes archived
// only once the live item has been deleted. Pending records are
// invisible to listing and analytics.
type ArchiveStatus string

const (
	ArchiveStatusPending  ArchiveStatus = "pending"
	ArchiveStatusArchived ArchiveStatus = "archived"
)

// ArchiveRecord is the durable, type-tagged snapshot of an archived
// item. Records are created only by the archival transaction and are
// never mutated afterward, except for the pending→archived flip and
// deletion on restore or cleanup.
type ArchiveRecord struct {
	ID       string        `json:"id"`
	UserID   string        `json:"user"`
	ItemType ItemType      `json:"itemType"`
	Status   ArchiveStatus `json:"status"`

	// OriginalID is the identifier the item had in its live
	// collection, kept for restore and deduplication.
	OriginalID  string `json:"originalId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// CreatedAt is the original creation time of the live item, not
	// the archive time. Nil when the source never recorded one.
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	// CompletedAt is the time the archival transaction ran.
	CompletedAt time.Time `json:"completedAt"`
	// CompletionTime is the span between CreatedAt and CompletedAt in
	// milliseconds. Nil when CreatedAt is unknown; never negative.
	CompletionTime *int64 `json:"completionTime,omitempty"`

	Priority  Priority `json:"priority,omitempty"`
	ProjectID string   `json:"project,omitempty"`

	// Metadata holds the type-specific leftover fields that do not
	// fit the flattened shape above. ItemType determines which keys
	// are valid; values are limited to JSON-serializable kinds.
	Metadata map[string]any `json:"metadata,omitempty"`
}
