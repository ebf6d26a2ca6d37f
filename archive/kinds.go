// Package archive implements the archival transaction, the restorer,
// and the productivity analytics over archived records. Each of the
// five item types registers one capability implementation here; the
// rest of the package never switches on the type tag directly.
package archive

import (
	"context"
	"time"

	"github.com/atticdev/attic/models"
	"github.com/atticdev/attic/types"
)

// MembershipResolver answers project-access questions for the
// authorization rules that reach beyond the item itself.
type MembershipResolver interface {
	// HasProjectAccess reports whether userID owns or is a member of
	// the given project. A missing project is simply "no access".
	HasProjectAccess(ctx context.Context, userID, projectID string) (bool, error)
}

// snapshot is what the extractor reduces a live item to: the
// flattened archive fields plus the type-specific metadata bag.
type snapshot struct {
	title       string
	description string
	priority    models.Priority
	projectID   string
	createdAt   *time.Time
	metadata    map[string]any
}

// itemKind is the per-type capability contract: authorization,
// completion gating, metadata extraction, and reconstruction.
type itemKind interface {
	authorize(ctx context.Context, userID string, item models.Item, members MembershipResolver) (bool, error)
	completionGate(item models.Item) error
	extract(item models.Item) (snapshot, error)
	reconstruct(rec models.ArchiveRecord, actingUser string, now time.Time) (models.Item, error)
}

// kindRegistry selects the capability implementation by type tag.
var kindRegistry = map[models.ItemType]itemKind{
	models.ItemTypeTask:     taskKind{},
	models.ItemTypeProject:  projectKind{},
	models.ItemTypeNote:     noteKind{},
	models.ItemTypeBookmark: bookmarkKind{},
	models.ItemTypeSnippet:  snippetKind{},
}

func kindFor(t models.ItemType) (itemKind, error) {
	k, ok := kindRegistry[t]
	if !ok {
		return nil, types.Errorf(types.CodeInvalidItemType, "invalid item type %q", t)
	}
	return k, nil
}

func wrongItemError(want models.ItemType, item models.Item) error {
	return types.Errorf(types.CodeInvalidItemType, "expected a %s, got a %s", want, item.Kind())
}

// Metadata bags survive a JSON round trip through the archive store,
// so values come back as the generic JSON kinds (float64 for numbers,
// []any for lists). The helpers below accept both the original and
// the round-tripped shapes.

// createdAtOf maps a zero creation time to nil: an item whose origin
// is unknown must not archive with a fabricated completion duration.
func createdAtOf(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func metaString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func metaStringSlice(m map[string]any, key string) []string {
	if m == nil {
		return nil
	}
	switch v := m[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func metaInt(m map[string]any, key string) int {
	if m == nil {
		return 0
	}
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func metaTime(m map[string]any, key string) *time.Time {
	s := metaString(m, key)
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}
	return &t
}

func timeMeta(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}
