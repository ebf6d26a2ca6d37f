package models

import "time"

// Bookmark is a saved external URL. The URL is the one field a
// bookmark cannot exist without.
type Bookmark struct {
	ID          string    `json:"id" yaml:"id" toml:"id" validate:"required"`
	Title       string    `json:"title" yaml:"title" toml:"title" validate:"required,min=1,max=255"`
	URL         string    `json:"url" yaml:"url" toml:"url" validate:"required,url"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Folder      string    `json:"folder,omitempty" yaml:"folder,omitempty" toml:"folder,omitempty"`
	OwnerID     string    `json:"ownerId" yaml:"ownerId" toml:"ownerId" validate:"required"`
	Tags        []string  `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags,omitempty"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt" toml:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updatedAt" toml:"updatedAt"`
}

func (b Bookmark) ItemID() string { return b.ID }

func (b Bookmark) Kind() ItemType { return ItemTypeBookmark }

func (b Bookmark) WithID(id string) Item {
	b.ID = id
	return b
}
