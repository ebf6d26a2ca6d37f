package models

import "time"

// Snippet is a stored piece of code with a language tag.
type Snippet struct {
	ID          string    `json:"id" yaml:"id" toml:"id" validate:"required"`
	Title       string    `json:"title" yaml:"title" toml:"title" validate:"required,min=1,max=255"`
	Code        string    `json:"code,omitempty" yaml:"code,omitempty" toml:"code,omitempty"`
	Language    string    `json:"language,omitempty" yaml:"language,omitempty" toml:"language,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	OwnerID     string    `json:"ownerId" yaml:"ownerId" toml:"ownerId" validate:"required"`
	Tags        []string  `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags,omitempty"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt" toml:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updatedAt" toml:"updatedAt"`
}

func (s Snippet) ItemID() string { return s.ID }

func (s Snippet) Kind() ItemType { return ItemTypeSnippet }

func (s Snippet) WithID(id string) Item {
	s.ID = id
	return s
}
