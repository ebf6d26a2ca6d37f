package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/atticdev/attic/models"
	"github.com/atticdev/attic/store"
	"github.com/atticdev/attic/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func newTestStores(t *testing.T) store.ItemStores {
	t.Helper()

	dir := t.TempDir()
	stores := make(store.ItemStores, len(models.AllItemTypes))
	for _, kind := range models.AllItemTypes {
		s, err := store.NewFileItemStore(kind)
		require.NoError(t, err)
		require.NoError(t, s.Initialize(map[string]string{
			"dataFile":       filepath.Join(dir, string(kind)+"s.json"),
			"dataFileFormat": "json",
		}))
		stores[kind] = s
	}
	t.Cleanup(func() { _ = stores.Close() })
	return stores
}

func newTestService(t *testing.T) (*Service, store.ItemStores, store.ArchiveStore) {
	t.Helper()

	stores := newTestStores(t)
	archiveStore, err := store.NewSQLiteArchiveStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = archiveStore.Close() })

	svc := NewService(stores, archiveStore, ServiceOptions{
		Now: func() time.Time { return testNow },
	})
	return svc, stores, archiveStore
}

func completedTask(id, assignee string) models.Task {
	created := testNow.Add(-72 * time.Hour)
	completed := testNow.Add(-time.Hour)
	due := testNow.Add(-24 * time.Hour)
	return models.Task{
		ID:            id,
		Title:         "Ship the release",
		Description:   "Cut and publish",
		Status:        models.TaskStatusCompleted,
		Priority:      models.PriorityHigh,
		Assignee:      assignee,
		DueDate:       &due,
		EstimatedTime: 90,
		CreatedAt:     created,
		UpdatedAt:     completed,
		CompletedAt:   &completed,
	}
}

func TestArchiveRestoreRoundTrip(t *testing.T) {
	svc, stores, archiveStore := newTestService(t)
	ctx := context.Background()

	taskStore := stores[models.ItemTypeTask]
	_, err := taskStore.Create(completedTask("t1", "u1"))
	require.NoError(t, err)

	rec, err := svc.Archive(ctx, "u1", "task", "t1")
	require.NoError(t, err)

	assert.Equal(t, models.ArchiveStatusArchived, rec.Status)
	assert.Equal(t, "u1", rec.UserID)
	assert.Equal(t, models.ItemTypeTask, rec.ItemType)
	assert.Equal(t, "t1", rec.OriginalID)
	assert.Equal(t, "Ship the release", rec.Title)
	assert.Equal(t, models.PriorityHigh, rec.Priority)
	require.NotNil(t, rec.CompletionTime)
	assert.Equal(t, (72 * time.Hour).Milliseconds(), *rec.CompletionTime)
	assert.Equal(t, "u1", rec.Metadata["assignee"])

	// The live item is gone, the record is visible.
	_, err = taskStore.Get("t1")
	assert.True(t, types.IsCode(err, types.CodeNotFound))
	listed, err := svc.ListArchive(ctx, store.ArchiveFilters{})
	require.NoError(t, err)
	require.Len(t, listed, 1)

	restored, err := svc.Restore(ctx, "u1", rec.ID)
	require.NoError(t, err)

	task, ok := restored.(models.Task)
	require.True(t, ok)
	assert.Equal(t, "t1", task.ID)
	assert.Equal(t, models.TaskStatusInProgress, task.Status)
	assert.Equal(t, "u1", task.Assignee)
	assert.Equal(t, 90, task.EstimatedTime)
	// The original due date had passed, so it moves a week out.
	require.NotNil(t, task.DueDate)
	assert.Equal(t, testNow.Add(7*24*time.Hour), task.DueDate.UTC())

	// The record is gone and the item is live again.
	_, err = archiveStore.Get(rec.ID)
	assert.True(t, types.IsCode(err, types.CodeNotFound))
	_, err = taskStore.Get("t1")
	assert.NoError(t, err)
}

func TestArchiveRejectsUncompletedTask(t *testing.T) {
	svc, stores, archiveStore := newTestService(t)
	ctx := context.Background()

	task := completedTask("t1", "u1")
	task.Status = models.TaskStatusInProgress
	_, err := stores[models.ItemTypeTask].Create(task)
	require.NoError(t, err)

	_, err = svc.Archive(ctx, "u1", "task", "t1")
	assert.True(t, types.IsCode(err, types.CodeInvalidState), "got %v", err)

	// Nothing moved.
	_, err = stores[models.ItemTypeTask].Get("t1")
	assert.NoError(t, err)
	records, err := archiveStore.List(store.ArchiveFilters{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestArchiveForbiddenForStranger(t *testing.T) {
	svc, stores, _ := newTestService(t)
	ctx := context.Background()

	_, err := stores[models.ItemTypeTask].Create(completedTask("t1", "owner"))
	require.NoError(t, err)

	_, err = svc.Archive(ctx, "intruder", "task", "t1")
	assert.True(t, types.IsCode(err, types.CodeForbidden), "got %v", err)
}

func TestArchiveTaskViaProjectMembership(t *testing.T) {
	svc, stores, _ := newTestService(t)
	ctx := context.Background()

	project := models.Project{
		ID:        "p1",
		Name:      "Roadmap",
		Status:    models.ProjectStatusActive,
		Priority:  models.PriorityMedium,
		OwnerID:   "owner",
		Members:   []string{"member"},
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
	_, err := stores[models.ItemTypeProject].Create(project)
	require.NoError(t, err)

	task := completedTask("t1", "owner")
	task.ProjectID = "p1"
	_, err = stores[models.ItemTypeTask].Create(task)
	require.NoError(t, err)

	// A project member may archive a task in that project even though
	// it is assigned to someone else.
	_, err = svc.Archive(ctx, "member", "task", "t1")
	assert.NoError(t, err)
}

func TestArchiveUnknownType(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Archive(context.Background(), "u1", "widget", "w1")
	assert.True(t, types.IsCode(err, types.CodeInvalidItemType), "got %v", err)
}

func TestArchiveSameOriginalTwiceConflicts(t *testing.T) {
	svc, stores, _ := newTestService(t)
	ctx := context.Background()

	_, err := stores[models.ItemTypeTask].Create(completedTask("t1", "u1"))
	require.NoError(t, err)
	_, err = svc.Archive(ctx, "u1", "task", "t1")
	require.NoError(t, err)

	// The same identifier comes back to life and completes again; the
	// first record still holds the slot.
	_, err = stores[models.ItemTypeTask].Create(completedTask("t1", "u1"))
	require.NoError(t, err)

	_, err = svc.Archive(ctx, "u1", "task", "t1")
	assert.True(t, types.IsCode(err, types.CodeConflict), "got %v", err)

	// The conflict left the live item alone.
	_, err = stores[models.ItemTypeTask].Get("t1")
	assert.NoError(t, err)
}

func TestRestoreForbiddenForOtherUser(t *testing.T) {
	svc, stores, _ := newTestService(t)
	ctx := context.Background()

	_, err := stores[models.ItemTypeTask].Create(completedTask("t1", "u1"))
	require.NoError(t, err)
	rec, err := svc.Archive(ctx, "u1", "task", "t1")
	require.NoError(t, err)

	_, err = svc.Restore(ctx, "u2", rec.ID)
	assert.True(t, types.IsCode(err, types.CodeForbidden), "got %v", err)
}

func TestRestoreConflictsWithLiveItem(t *testing.T) {
	svc, stores, archiveStore := newTestService(t)
	ctx := context.Background()

	_, err := stores[models.ItemTypeTask].Create(completedTask("t1", "u1"))
	require.NoError(t, err)
	rec, err := svc.Archive(ctx, "u1", "task", "t1")
	require.NoError(t, err)

	// Someone recreates the identifier while the record exists.
	_, err = stores[models.ItemTypeTask].Create(completedTask("t1", "u1"))
	require.NoError(t, err)

	_, err = svc.Restore(ctx, "u1", rec.ID)
	assert.True(t, types.IsCode(err, types.CodeConflict), "got %v", err)

	// The record survives the refused restore.
	_, err = archiveStore.Get(rec.ID)
	assert.NoError(t, err)
}

func TestRestoreBookmarkWithoutURLFails(t *testing.T) {
	svc, stores, archiveStore := newTestService(t)
	ctx := context.Background()

	// A record that lost its url metadata (hand-edited or corrupted).
	rec := models.ArchiveRecord{
		ID:          "r1",
		UserID:      "u1",
		ItemType:    models.ItemTypeBookmark,
		Status:      models.ArchiveStatusArchived,
		OriginalID:  "b1",
		Title:       "Docs",
		CompletedAt: testNow.Add(-time.Hour),
	}
	require.NoError(t, archiveStore.Insert(rec))

	_, err := svc.Restore(ctx, "u1", "r1")
	assert.True(t, types.IsCode(err, types.CodeValidation), "got %v", err)

	// Nothing was written on either side.
	_, err = stores[models.ItemTypeBookmark].Get("b1")
	assert.True(t, types.IsCode(err, types.CodeNotFound))
	_, err = archiveStore.Get("r1")
	assert.NoError(t, err)
}

func TestRestoreProjectShiftsPastEndDate(t *testing.T) {
	svc, stores, _ := newTestService(t)
	ctx := context.Background()

	end := testNow.Add(-48 * time.Hour)
	project := models.Project{
		ID:        "p1",
		Name:      "Migration",
		Status:    models.ProjectStatusCompleted,
		Priority:  models.PriorityLow,
		OwnerID:   "u1",
		Members:   []string{"u2"},
		EndDate:   &end,
		Progress:  100,
		CreatedAt: testNow.Add(-30 * 24 * time.Hour),
		UpdatedAt: testNow,
	}
	_, err := stores[models.ItemTypeProject].Create(project)
	require.NoError(t, err)

	rec, err := svc.Archive(ctx, "u1", "project", "p1")
	require.NoError(t, err)

	restored, err := svc.Restore(ctx, "u1", rec.ID)
	require.NoError(t, err)

	got, ok := restored.(models.Project)
	require.True(t, ok)
	assert.Equal(t, models.ProjectStatusActive, got.Status)
	assert.Equal(t, "u1", got.OwnerID)
	assert.Equal(t, []string{"u2"}, got.Members)
	assert.Equal(t, 100, got.Progress)
	require.NotNil(t, got.EndDate)
	assert.Equal(t, testNow.AddDate(0, 1, 0), got.EndDate.UTC())
}

func TestPendingRecordsInvisible(t *testing.T) {
	svc, _, archiveStore := newTestService(t)
	ctx := context.Background()

	rec := models.ArchiveRecord{
		ID:          "r1",
		UserID:      "u1",
		ItemType:    models.ItemTypeTask,
		Status:      models.ArchiveStatusPending,
		OriginalID:  "t1",
		Title:       "Half-moved",
		CompletedAt: testNow.Add(-time.Hour),
	}
	require.NoError(t, archiveStore.Insert(rec))

	listed, err := svc.ListArchive(ctx, store.ArchiveFilters{})
	require.NoError(t, err)
	assert.Empty(t, listed)

	metrics, err := svc.Metrics(ctx, MetricsFilters{})
	require.NoError(t, err)
	assert.Zero(t, metrics.TotalItems)

	_, err = svc.Restore(ctx, "u1", "r1")
	assert.True(t, types.IsCode(err, types.CodeNotFound), "got %v", err)
}

func TestReconcilePending(t *testing.T) {
	svc, stores, archiveStore := newTestService(t)
	ctx := context.Background()

	// Pending with the live item gone: the move finished, finalize.
	finalize := models.ArchiveRecord{
		ID:          "r1",
		UserID:      "u1",
		ItemType:    models.ItemTypeTask,
		Status:      models.ArchiveStatusPending,
		OriginalID:  "gone",
		Title:       "Finished move",
		CompletedAt: testNow.Add(-3 * time.Hour),
	}
	require.NoError(t, archiveStore.Insert(finalize))

	// Pending with the live item still there: the move never finished,
	// roll the record back.
	_, err := stores[models.ItemTypeTask].Create(completedTask("still-here", "u1"))
	require.NoError(t, err)
	rollback := models.ArchiveRecord{
		ID:          "r2",
		UserID:      "u1",
		ItemType:    models.ItemTypeTask,
		Status:      models.ArchiveStatusPending,
		OriginalID:  "still-here",
		Title:       "Interrupted move",
		CompletedAt: testNow.Add(-3 * time.Hour),
	}
	require.NoError(t, archiveStore.Insert(rollback))

	// Pending but fresh: inside the grace window, untouched.
	fresh := models.ArchiveRecord{
		ID:          "r3",
		UserID:      "u1",
		ItemType:    models.ItemTypeTask,
		Status:      models.ArchiveStatusPending,
		OriginalID:  "in-flight",
		Title:       "Running move",
		CompletedAt: testNow.Add(-time.Minute),
	}
	require.NoError(t, archiveStore.Insert(fresh))

	result, err := svc.ReconcilePending(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Finalized)
	assert.Equal(t, 1, result.RolledBack)

	// r1 is now a visible archived record.
	got, err := archiveStore.Get("r1")
	require.NoError(t, err)
	assert.Equal(t, models.ArchiveStatusArchived, got.Status)

	// r2 is gone and its live item untouched.
	_, err = archiveStore.Get("r2")
	assert.True(t, types.IsCode(err, types.CodeNotFound))
	_, err = stores[models.ItemTypeTask].Get("still-here")
	assert.NoError(t, err)

	// r3 is still pending.
	got, err = archiveStore.Get("r3")
	require.NoError(t, err)
	assert.Equal(t, models.ArchiveStatusPending, got.Status)
}

func TestSnippetDefaultsLanguageOnRestore(t *testing.T) {
	svc, stores, _ := newTestService(t)
	ctx := context.Background()

	snippet := models.Snippet{
		ID:        "s1",
		Title:     "query",
		Code:      "SELECT 1;",
		OwnerID:   "u1",
		CreatedAt: testNow.Add(-time.Hour),
		UpdatedAt: testNow.Add(-time.Hour),
	}
	_, err := stores[models.ItemTypeSnippet].Create(snippet)
	require.NoError(t, err)

	rec, err := svc.Archive(ctx, "u1", "snippet", "s1")
	require.NoError(t, err)

	restored, err := svc.Restore(ctx, "u1", rec.ID)
	require.NoError(t, err)

	got, ok := restored.(models.Snippet)
	require.True(t, ok)
	assert.Equal(t, "SELECT 1;", got.Code)
	assert.Equal(t, "text", got.Language)
}

func TestArchiveTaskWithUnknownCreationTime(t *testing.T) {
	svc, stores, archiveStore := newTestService(t)
	ctx := context.Background()

	task := completedTask("t-old", "u1")
	task.CreatedAt = time.Time{}
	_, err := stores[models.ItemTypeTask].Create(task)
	require.NoError(t, err)

	rec, err := svc.Archive(ctx, "u1", "task", "t-old")
	require.NoError(t, err)

	// No creation time means no completion duration, not a duration
	// measured from year one.
	assert.Nil(t, rec.CreatedAt)
	assert.Nil(t, rec.CompletionTime)

	stored, err := archiveStore.Get(rec.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.CreatedAt)
	assert.Nil(t, stored.CompletionTime)
}

// flipFailArchiveStore fails every MarkArchived call so the record
// stays pending after an otherwise successful move.
type flipFailArchiveStore struct {
	store.ArchiveStore
}

func (flipFailArchiveStore) MarkArchived(id string) error {
	return types.Errorf(types.CodeStoreFailure, "simulated finalize failure")
}

func TestArchiveReportsPendingWhenFinalizeFails(t *testing.T) {
	stores := newTestStores(t)
	archiveStore, err := store.NewSQLiteArchiveStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = archiveStore.Close() })

	svc := NewService(stores, flipFailArchiveStore{archiveStore}, ServiceOptions{
		Now: func() time.Time { return testNow },
	})
	ctx := context.Background()

	_, err = stores[models.ItemTypeTask].Create(completedTask("t1", "u1"))
	require.NoError(t, err)

	rec, err := svc.Archive(ctx, "u1", "task", "t1")
	require.NoError(t, err)

	// The returned status must match what the store holds, not the
	// state the flip failed to reach.
	assert.Equal(t, models.ArchiveStatusPending, rec.Status)
	stored, err := archiveStore.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ArchiveStatusPending, stored.Status)
}
