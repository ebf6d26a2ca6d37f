package models

import "time"

// TaskStatus represents the possible statuses of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// Task represents a unit of work, optionally attached to a project.
type Task struct {
	ID            string     `json:"id" yaml:"id" toml:"id" validate:"required"`
	Title         string     `json:"title" yaml:"title" toml:"title" validate:"required,min=1,max=255"`
	Description   string     `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Status        TaskStatus `json:"status" yaml:"status" toml:"status" validate:"required,oneof=pending in-progress completed cancelled"`
	Priority      Priority   `json:"priority" yaml:"priority" toml:"priority" validate:"required,oneof=high medium low none"`
	Assignee      string     `json:"assignee,omitempty" yaml:"assignee,omitempty" toml:"assignee,omitempty"`
	ProjectID     string     `json:"projectId,omitempty" yaml:"projectId,omitempty" toml:"projectId,omitempty"`
	DueDate       *time.Time `json:"dueDate,omitempty" yaml:"dueDate,omitempty" toml:"dueDate,omitempty"`
	EstimatedTime int        `json:"estimatedTime,omitempty" yaml:"estimatedTime,omitempty" toml:"estimatedTime,omitempty"` // minutes
	CreatedAt     time.Time  `json:"createdAt" yaml:"createdAt" toml:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt" yaml:"updatedAt" toml:"updatedAt"`
	CompletedAt   *time.Time `json:"completedAt,omitempty" yaml:"completedAt,omitempty" toml:"completedAt,omitempty"`
}

func (t Task) ItemID() string { return t.ID }

func (t Task) Kind() ItemType { return ItemTypeTask }

func (t Task) WithID(id string) Item {
	t.ID = id
	return t
}

// NewTask creates a task with sensible defaults.
func NewTask(id, title string) Task {
	now := time.Now().UTC()
	return Task{
		ID:        id,
		Title:     title,
		Status:    TaskStatusPending,
		Priority:  PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
