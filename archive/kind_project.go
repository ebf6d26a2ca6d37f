package archive

import (
	"context"
	"time"

	"github.com/atticdev/attic/models"
	"github.com/atticdev/attic/types"
)

type projectKind struct{}

func (projectKind) authorize(ctx context.Context, userID string, item models.Item, members MembershipResolver) (bool, error) {
	project, ok := item.(models.Project)
	if !ok {
		return false, wrongItemError(models.ItemTypeProject, item)
	}
	return project.HasMember(userID), nil
}

func (projectKind) completionGate(item models.Item) error {
	project, ok := item.(models.Project)
	if !ok {
		return wrongItemError(models.ItemTypeProject, item)
	}
	if project.Status != models.ProjectStatusCompleted {
		return types.Errorf(types.CodeInvalidState, "cannot archive an item that is not completed (project %s is %s)", project.ID, project.Status)
	}
	return nil
}

func (projectKind) extract(item models.Item) (snapshot, error) {
	project, ok := item.(models.Project)
	if !ok {
		return snapshot{}, wrongItemError(models.ItemTypeProject, item)
	}
	meta := map[string]any{
		"owner":    project.OwnerID,
		"progress": project.Progress,
	}
	if len(project.Members) > 0 {
		meta["members"] = project.Members
	}
	if project.StartDate != nil {
		meta["startDate"] = timeMeta(project.StartDate)
	}
	if project.EndDate != nil {
		meta["endDate"] = timeMeta(project.EndDate)
	}
	return snapshot{
		title:       project.Name,
		description: project.Description,
		priority:    project.Priority,
		createdAt:   createdAtOf(project.CreatedAt),
		metadata:    meta,
	}, nil
}

func (projectKind) reconstruct(rec models.ArchiveRecord, actingUser string, now time.Time) (models.Item, error) {
	owner := metaString(rec.Metadata, "owner")
	if owner == "" {
		owner = actingUser
	}
	members := metaStringSlice(rec.Metadata, "members")
	priority := rec.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	endDate := metaTime(rec.Metadata, "endDate")
	if endDate != nil && endDate.Before(now) {
		// A project coming back to life gets a month of runway
		// instead of an already-expired end date.
		shifted := now.AddDate(0, 1, 0)
		endDate = &shifted
	}

	return models.Project{
		ID:          rec.OriginalID,
		Name:        rec.Title,
		Description: rec.Description,
		Status:      models.ProjectStatusActive,
		Priority:    priority,
		OwnerID:     owner,
		Members:     members,
		StartDate:   metaTime(rec.Metadata, "startDate"),
		EndDate:     endDate,
		Progress:    metaInt(rec.Metadata, "progress"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
