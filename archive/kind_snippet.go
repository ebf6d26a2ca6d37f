package archive

import (
	"context"
	"time"

	"github.com/atticdev/attic/models"
)

// defaultSnippetLanguage is used when an archived snippet never
// recorded its language.
const defaultSnippetLanguage = "text"

type snippetKind struct{}

func (snippetKind) authorize(ctx context.Context, userID string, item models.Item, members MembershipResolver) (bool, error) {
	snippet, ok := item.(models.Snippet)
	if !ok {
		return false, wrongItemError(models.ItemTypeSnippet, item)
	}
	return snippet.OwnerID == userID, nil
}

func (snippetKind) completionGate(item models.Item) error { return nil }

func (snippetKind) extract(item models.Item) (snapshot, error) {
	snippet, ok := item.(models.Snippet)
	if !ok {
		return snapshot{}, wrongItemError(models.ItemTypeSnippet, item)
	}
	meta := map[string]any{}
	if snippet.Language != "" {
		meta["language"] = snippet.Language
	}
	if snippet.Code != "" {
		meta["code"] = snippet.Code
	}
	if len(snippet.Tags) > 0 {
		meta["tags"] = snippet.Tags
	}
	return snapshot{
		title:       snippet.Title,
		description: snippet.Description,
		createdAt:   createdAtOf(snippet.CreatedAt),
		metadata:    meta,
	}, nil
}

func (snippetKind) reconstruct(rec models.ArchiveRecord, actingUser string, now time.Time) (models.Item, error) {
	language := metaString(rec.Metadata, "language")
	if language == "" {
		language = defaultSnippetLanguage
	}
	return models.Snippet{
		ID:          rec.OriginalID,
		Title:       rec.Title,
		Code:        metaString(rec.Metadata, "code"),
		Language:    language,
		Description: rec.Description,
		OwnerID:     actingUser,
		Tags:        metaStringSlice(rec.Metadata, "tags"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
