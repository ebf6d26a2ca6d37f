package models

import "time"

// ProjectStatus represents the possible statuses of a project.
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusOnHold    ProjectStatus = "on-hold"
)

// Project groups tasks under an owner and an optional member list.
type Project struct {
	ID          string        `json:"id" yaml:"id" toml:"id" validate:"required"`
	Name        string        `json:"name" yaml:"name" toml:"name" validate:"required,min=1,max=255"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Status      ProjectStatus `json:"status" yaml:"status" toml:"status" validate:"required,oneof=active completed on-hold"`
	Priority    Priority      `json:"priority" yaml:"priority" toml:"priority" validate:"required,oneof=high medium low none"`
	OwnerID     string        `json:"ownerId" yaml:"ownerId" toml:"ownerId" validate:"required"`
	Members     []string      `json:"members,omitempty" yaml:"members,omitempty" toml:"members,omitempty"`
	StartDate   *time.Time    `json:"startDate,omitempty" yaml:"startDate,omitempty" toml:"startDate,omitempty"`
	EndDate     *time.Time    `json:"endDate,omitempty" yaml:"endDate,omitempty" toml:"endDate,omitempty"`
	Progress    int           `json:"progress" yaml:"progress" toml:"progress" validate:"min=0,max=100"`
	CreatedAt   time.Time     `json:"createdAt" yaml:"createdAt" toml:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt" yaml:"updatedAt" toml:"updatedAt"`
}

func (p Project) ItemID() string { return p.ID }

func (p Project) Kind() ItemType { return ItemTypeProject }

func (p Project) WithID(id string) Item {
	p.ID = id
	return p
}

// HasMember reports whether userID owns the project or appears in its
// member list.
func (p Project) HasMember(userID string) bool {
	if p.OwnerID == userID {
		return true
	}
	for _, m := range p.Members {
		if m == userID {
			return true
		}
	}
	return false
}
