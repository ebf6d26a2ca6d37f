package archive

import (
	"context"
	"time"

	"github.com/atticdev/attic/models"
)

type noteKind struct{}

func (noteKind) authorize(ctx context.Context, userID string, item models.Item, members MembershipResolver) (bool, error) {
	note, ok := item.(models.Note)
	if !ok {
		return false, wrongItemError(models.ItemTypeNote, item)
	}
	return note.OwnerID == userID, nil
}

// Notes have no completion state to gate on.
func (noteKind) completionGate(item models.Item) error { return nil }

func (noteKind) extract(item models.Item) (snapshot, error) {
	note, ok := item.(models.Note)
	if !ok {
		return snapshot{}, wrongItemError(models.ItemTypeNote, item)
	}
	meta := map[string]any{}
	if len(note.Tags) > 0 {
		meta["tags"] = note.Tags
	}
	if note.Color != "" {
		meta["color"] = note.Color
	}
	return snapshot{
		title:       note.Title,
		description: note.Content,
		projectID:   note.ProjectID,
		createdAt:   createdAtOf(note.CreatedAt),
		metadata:    meta,
	}, nil
}

func (noteKind) reconstruct(rec models.ArchiveRecord, actingUser string, now time.Time) (models.Item, error) {
	return models.Note{
		ID:        rec.OriginalID,
		Title:     rec.Title,
		Content:   rec.Description,
		OwnerID:   actingUser,
		Tags:      metaStringSlice(rec.Metadata, "tags"),
		Color:     metaString(rec.Metadata, "color"),
		Archived:  false,
		ProjectID: rec.ProjectID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
