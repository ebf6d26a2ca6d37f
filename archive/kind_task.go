package archive

import (
	"context"
	"time"

	"github.com/atticdev/attic/models"
	"github.com/atticdev/attic/types"
)

// restoredDueDateOffset is how far into the future a past due date is
// pushed when a task comes back from the archive.
const restoredDueDateOffset = 7 * 24 * time.Hour

type taskKind struct{}

func (taskKind) authorize(ctx context.Context, userID string, item models.Item, members MembershipResolver) (bool, error) {
	task, ok := item.(models.Task)
	if !ok {
		return false, wrongItemError(models.ItemTypeTask, item)
	}
	if task.Assignee == userID {
		return true, nil
	}
	if task.ProjectID == "" || members == nil {
		return false, nil
	}
	return members.HasProjectAccess(ctx, userID, task.ProjectID)
}

func (taskKind) completionGate(item models.Item) error {
	task, ok := item.(models.Task)
	if !ok {
		return wrongItemError(models.ItemTypeTask, item)
	}
	if task.Status != models.TaskStatusCompleted {
		return types.Errorf(types.CodeInvalidState, "cannot archive an item that is not completed (task %s is %s)", task.ID, task.Status)
	}
	return nil
}

func (taskKind) extract(item models.Item) (snapshot, error) {
	task, ok := item.(models.Task)
	if !ok {
		return snapshot{}, wrongItemError(models.ItemTypeTask, item)
	}
	meta := map[string]any{}
	if task.Assignee != "" {
		meta["assignee"] = task.Assignee
	}
	if task.DueDate != nil {
		meta["dueDate"] = timeMeta(task.DueDate)
	}
	if task.EstimatedTime > 0 {
		meta["estimatedTime"] = task.EstimatedTime
	}
	return snapshot{
		title:       task.Title,
		description: task.Description,
		priority:    task.Priority,
		projectID:   task.ProjectID,
		createdAt:   createdAtOf(task.CreatedAt),
		metadata:    meta,
	}, nil
}

func (taskKind) reconstruct(rec models.ArchiveRecord, actingUser string, now time.Time) (models.Item, error) {
	assignee := metaString(rec.Metadata, "assignee")
	if assignee == "" {
		assignee = actingUser
	}
	priority := rec.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	dueDate := metaTime(rec.Metadata, "dueDate")
	if dueDate != nil && dueDate.Before(now) {
		// The original deadline has passed; give the restored task a
		// fresh one rather than resurrecting it overdue.
		shifted := now.Add(restoredDueDateOffset)
		dueDate = &shifted
	}

	return models.Task{
		ID:            rec.OriginalID,
		Title:         rec.Title,
		Description:   rec.Description,
		Status:        models.TaskStatusInProgress,
		Priority:      priority,
		Assignee:      assignee,
		ProjectID:     rec.ProjectID,
		DueDate:       dueDate,
		EstimatedTime: metaInt(rec.Metadata, "estimatedTime"),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
