package models

import "time"

// Note is a free-form text note, optionally tagged and colored.
type Note struct {
	ID        string    `json:"id" yaml:"id" toml:"id" validate:"required"`
	Title     string    `json:"title" yaml:"title" toml:"title" validate:"required,min=1,max=255"`
	Content   string    `json:"content,omitempty" yaml:"content,omitempty" toml:"content,omitempty"`
	OwnerID   string    `json:"ownerId" yaml:"ownerId" toml:"ownerId" validate:"required"`
	Tags      []string  `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags,omitempty"`
	Color     string    `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	Archived  bool      `json:"archived" yaml:"archived" toml:"archived"`
	ProjectID string    `json:"projectId,omitempty" yaml:"projectId,omitempty" toml:"projectId,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt" toml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt" toml:"updatedAt"`
}

func (n Note) ItemID() string { return n.ID }

func (n Note) Kind() ItemType { return ItemTypeNote }

func (n Note) WithID(id string) Item {
	n.ID = id
	return n
}
