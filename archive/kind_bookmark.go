package archive

import (
	"context"
	"time"

	"github.com/atticdev/attic/models"
	"github.com/atticdev/attic/types"
)

type bookmarkKind struct{}

func (bookmarkKind) authorize(ctx context.Context, userID string, item models.Item, members MembershipResolver) (bool, error) {
	bookmark, ok := item.(models.Bookmark)
	if !ok {
		return false, wrongItemError(models.ItemTypeBookmark, item)
	}
	return bookmark.OwnerID == userID, nil
}

func (bookmarkKind) completionGate(item models.Item) error { return nil }

func (bookmarkKind) extract(item models.Item) (snapshot, error) {
	bookmark, ok := item.(models.Bookmark)
	if !ok {
		return snapshot{}, wrongItemError(models.ItemTypeBookmark, item)
	}
	meta := map[string]any{
		"url": bookmark.URL,
	}
	if bookmark.Folder != "" {
		meta["folder"] = bookmark.Folder
	}
	if len(bookmark.Tags) > 0 {
		meta["tags"] = bookmark.Tags
	}
	return snapshot{
		title:       bookmark.Title,
		description: bookmark.Description,
		createdAt:   createdAtOf(bookmark.CreatedAt),
		metadata:    meta,
	}, nil
}

func (bookmarkKind) reconstruct(rec models.ArchiveRecord, actingUser string, now time.Time) (models.Item, error) {
	url := metaString(rec.Metadata, "url")
	if url == "" {
		// A bookmark without a URL is not a bookmark; refuse rather
		// than fabricate one.
		return nil, types.Errorf(types.CodeValidation, "archive record %s has no url in its bookmark metadata", rec.ID)
	}
	return models.Bookmark{
		ID:          rec.OriginalID,
		Title:       rec.Title,
		URL:         url,
		Description: rec.Description,
		Folder:      metaString(rec.Metadata, "folder"),
		OwnerID:     actingUser,
		Tags:        metaStringSlice(rec.Metadata, "tags"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
