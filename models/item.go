package models

import "fmt"

// ItemType identifies one of the five live collections an item can
// belong to. The set is closed; anything else is rejected up front.
type ItemType string

const (
	ItemTypeTask     ItemType = "task"
	ItemTypeProject  ItemType = "project"
	ItemTypeNote     ItemType = "note"
	ItemTypeBookmark ItemType = "bookmark"
	ItemTypeSnippet  ItemType = "snippet"
)

// AllItemTypes lists every known item type in a stable order.
var AllItemTypes = []ItemType{
	ItemTypeTask,
	ItemTypeProject,
	ItemTypeNote,
	ItemTypeBookmark,
	ItemTypeSnippet,
}

// ParseItemType validates a raw string against the known set.
func ParseItemType(s string) (ItemType, error) {
	t := ItemType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown item type %q", s)
	}
	return t, nil
}

// Valid reports whether t is one of the five known item types.
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeTask, ItemTypeProject, ItemTypeNote, ItemTypeBookmark, ItemTypeSnippet:
		return true
	}
	return false
}

// Priority represents the priority levels shared by tasks and projects.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
	PriorityNone   Priority = "none"
)

// Item is the uniform view of a live entity that the stores and the
// archive core operate on. Concrete types use value receivers so a
// slice of them round-trips through the list documents unchanged.
type Item interface {
	// ItemID returns the item's unique identifier within its collection.
	ItemID() string
	// Kind returns the collection the item belongs to.
	Kind() ItemType
	// WithID returns a copy of the item with the identifier replaced.
	WithID(id string) Item
}
