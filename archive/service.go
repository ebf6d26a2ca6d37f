package archive

import (
	"context"
	"log/slog"
	"time"

	"github.com/atticdev/attic/internal/telemetry"
	"github.com/atticdev/attic/models"
	"github.com/atticdev/attic/store"
	"github.com/atticdev/attic/types"
	"github.com/google/uuid"
)

// Service orchestrates the archival transaction, the restorer, and
// the analytics reads over the archive store.
//
// The move between the live stores and the archive store is not
// atomic: the archival transaction inserts the record as pending,
// deletes the live item, then flips the record to archived. A crash
// between the steps leaves a pending record that ReconcilePending
// resolves later; pending records are invisible to every read path.
type Service struct {
	items   store.ItemStores
	archive store.ArchiveStore
	members MembershipResolver
	events  telemetry.Client
	log     *slog.Logger
	now     func() time.Time
	locks   *keyedLocks
}

// ServiceOptions carries the optional collaborators of a Service.
// Zero values select sensible defaults.
type ServiceOptions struct {
	// Members resolves project access for the task/project
	// authorization rules. Defaults to a lookup against the live
	// project collection.
	Members MembershipResolver
	// Events is the audit sink, notified fire-and-forget on
	// successful archive/restore. Defaults to a no-op client.
	Events telemetry.Client
	Logger *slog.Logger
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// NewService creates a Service over the given stores.
func NewService(items store.ItemStores, archiveStore store.ArchiveStore, opts ServiceOptions) *Service {
	s := &Service{
		items:   items,
		archive: archiveStore,
		members: opts.Members,
		events:  opts.Events,
		log:     opts.Logger,
		now:     opts.Now,
		locks:   newKeyedLocks(),
	}
	if s.members == nil {
		s.members = StoreMemberships{Items: items}
	}
	if s.events == nil {
		s.events = telemetry.NewNoopClient()
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func lockKey(t models.ItemType, id string) string {
	return string(t) + "/" + id
}

// Archive moves a live item into the archive. On success exactly one
// archive record exists and the live item is gone. A failure before
// the record is persisted leaves no trace; a failure of the live
// delete leaves the record pending and is surfaced as STORE_FAILURE.
func (s *Service) Archive(ctx context.Context, userID, itemType, itemID string) (models.ArchiveRecord, error) {
	t, err := models.ParseItemType(itemType)
	if err != nil {
		return models.ArchiveRecord{}, types.Errorf(types.CodeInvalidItemType, "invalid item type %q", itemType)
	}
	kind, err := kindFor(t)
	if err != nil {
		return models.ArchiveRecord{}, err
	}

	unlock := s.locks.lock(lockKey(t, itemID))
	defer unlock()

	st, err := s.items.ForType(t)
	if err != nil {
		return models.ArchiveRecord{}, err
	}
	item, err := st.Get(itemID)
	if err != nil {
		return models.ArchiveRecord{}, err
	}

	authorized, err := kind.authorize(ctx, userID, item, s.members)
	if err != nil {
		return models.ArchiveRecord{}, types.WrapError(types.CodeStoreFailure, "authorization lookup failed", err)
	}
	if !authorized {
		return models.ArchiveRecord{}, types.Errorf(types.CodeForbidden, "user %s may not archive %s %s", userID, t, itemID)
	}

	if err := kind.completionGate(item); err != nil {
		return models.ArchiveRecord{}, err
	}

	snap, err := kind.extract(item)
	if err != nil {
		return models.ArchiveRecord{}, err
	}

	now := s.now().UTC()
	rec := models.ArchiveRecord{
		ID:          uuid.NewString(),
		UserID:      userID,
		ItemType:    t,
		Status:      models.ArchiveStatusPending,
		OriginalID:  itemID,
		Title:       snap.title,
		Description: snap.description,
		CompletedAt: now,
		Priority:    snap.priority,
		ProjectID:   snap.projectID,
		Metadata:    snap.metadata,
	}
	if snap.createdAt != nil {
		created := snap.createdAt.UTC()
		rec.CreatedAt = &created
		ms := now.Sub(created).Milliseconds()
		if ms < 0 {
			ms = 0
		}
		rec.CompletionTime = &ms
	}

	if err := s.archive.Insert(rec); err != nil {
		return models.ArchiveRecord{}, err
	}

	if err := st.Delete(itemID); err != nil {
		// The destructive half failed: the record is persisted but
		// the live item survives. Leave the record pending for the
		// reconciliation sweep and tell the caller loudly.
		s.log.Warn("consistency: live item delete failed after archive record insert",
			"recordId", rec.ID, "itemType", t, "itemId", itemID, "error", err)
		return models.ArchiveRecord{}, types.WrapError(types.CodeStoreFailure,
			"archive record persisted but live item deletion failed; reconciliation required", err)
	}

	if err := s.archive.MarkArchived(rec.ID); err != nil {
		// The move itself completed; the record is merely stuck in
		// pending until the sweep finalizes it. Report the status the
		// store actually holds.
		s.log.Warn("consistency: failed to finalize archive record",
			"recordId", rec.ID, "error", err)
	} else {
		rec.Status = models.ArchiveStatusArchived
	}

	s.events.Track(telemetry.EventItemArchived, telemetry.Properties{
		"itemType": string(t),
		"recordId": rec.ID,
	})
	return rec, nil
}

// Restore reconstructs a live item from an archive record and deletes
// the record. The record's owning user is the only one allowed to
// restore it, and restore never overwrites a live item.
func (s *Service) Restore(ctx context.Context, userID, recordID string) (models.Item, error) {
	rec, err := s.archive.Get(recordID)
	if err != nil {
		return nil, err
	}
	if rec.Status == models.ArchiveStatusPending {
		// A pending record is mid-move; it does not exist as far as
		// callers are concerned.
		return nil, types.Errorf(types.CodeNotFound, "archive record %s not found", recordID)
	}
	if rec.UserID != userID {
		return nil, types.Errorf(types.CodeForbidden, "user %s may not restore archive record %s", userID, recordID)
	}
	kind, err := kindFor(rec.ItemType)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(lockKey(rec.ItemType, rec.OriginalID))
	defer unlock()

	st, err := s.items.ForType(rec.ItemType)
	if err != nil {
		return nil, err
	}

	if _, err := st.Get(rec.OriginalID); err == nil {
		return nil, types.Errorf(types.CodeConflict, "original item still exists (%s %s)", rec.ItemType, rec.OriginalID)
	} else if !types.IsCode(err, types.CodeNotFound) {
		return nil, err
	}

	draft, err := kind.reconstruct(rec, userID, s.now().UTC())
	if err != nil {
		return nil, err
	}

	created, err := st.Create(draft)
	if types.IsCode(err, types.CodeConflict) {
		// A racing writer reused the original identifier between our
		// existence check and the create. Retry once with a fresh id.
		created, err = st.Create(draft.WithID(uuid.NewString()))
	}
	if err != nil {
		return nil, err
	}

	if err := s.archive.Delete(rec.ID); err != nil {
		s.log.Warn("consistency: archive record delete failed after live item recreate",
			"recordId", rec.ID, "itemType", rec.ItemType, "itemId", created.ItemID(), "error", err)
		return nil, types.WrapError(types.CodeStoreFailure,
			"live item recreated but archive record deletion failed; reconciliation required", err)
	}

	s.events.Track(telemetry.EventItemRestored, telemetry.Properties{
		"itemType": string(rec.ItemType),
		"recordId": rec.ID,
	})
	return created, nil
}

// ListArchive returns archived records matching the filters,
// most-recent-first by default.
func (s *Service) ListArchive(ctx context.Context, filters store.ArchiveFilters) ([]models.ArchiveRecord, error) {
	return s.archive.List(filters)
}

// Metrics aggregates the matching archive records into a
// productivity report.
func (s *Service) Metrics(ctx context.Context, filters MetricsFilters) (ProductivityMetrics, error) {
	records, err := s.archive.List(store.ArchiveFilters{
		ItemType:  filters.ItemType,
		StartDate: filters.StartDate,
		EndDate:   filters.EndDate,
		ProjectID: filters.ProjectID,
	})
	if err != nil {
		return ProductivityMetrics{}, err
	}
	return ComputeMetrics(records, filters.Period), nil
}

// ComparePeriods computes metrics for two closed date ranges and the
// deltas between them. All four bounds are required.
func (s *Service) ComparePeriods(ctx context.Context, aStart, aEnd, bStart, bEnd time.Time) (Comparison, error) {
	rangeA := PeriodRange{Start: aStart, End: aEnd}
	rangeB := PeriodRange{Start: bStart, End: bEnd}
	if err := rangeA.Validate(); err != nil {
		return Comparison{}, err
	}
	if err := rangeB.Validate(); err != nil {
		return Comparison{}, err
	}

	recordsA, err := s.archive.List(store.ArchiveFilters{StartDate: &rangeA.Start, EndDate: &rangeA.End})
	if err != nil {
		return Comparison{}, err
	}
	recordsB, err := s.archive.List(store.ArchiveFilters{StartDate: &rangeB.Start, EndDate: &rangeB.End})
	if err != nil {
		return Comparison{}, err
	}
	return Compare(recordsA, recordsB, rangeA, rangeB)
}

// ReconcileResult summarizes a reconciliation sweep.
type ReconcileResult struct {
	// Finalized counts pending records whose live item was gone:
	// the move had completed, the record is now archived.
	Finalized int
	// RolledBack counts pending records whose live item still
	// exists: the move never completed, the record was removed and
	// the live item stays authoritative.
	RolledBack int
}

// ReconcilePending resolves archive records stuck in the pending
// state for longer than the grace window.
func (s *Service) ReconcilePending(ctx context.Context, grace time.Duration) (ReconcileResult, error) {
	var result ReconcileResult
	cutoff := s.now().UTC().Add(-grace)

	pending, err := s.archive.ListPending(cutoff)
	if err != nil {
		return result, err
	}

	for _, rec := range pending {
		unlock := s.locks.lock(lockKey(rec.ItemType, rec.OriginalID))

		st, err := s.items.ForType(rec.ItemType)
		if err != nil {
			unlock()
			return result, err
		}
		_, getErr := st.Get(rec.OriginalID)
		switch {
		case types.IsCode(getErr, types.CodeNotFound):
			if err := s.archive.MarkArchived(rec.ID); err != nil {
				unlock()
				return result, err
			}
			s.log.Info("reconcile: finalized pending archive record",
				"recordId", rec.ID, "itemType", rec.ItemType, "itemId", rec.OriginalID)
			result.Finalized++
		case getErr == nil:
			if err := s.archive.Delete(rec.ID); err != nil {
				unlock()
				return result, err
			}
			s.log.Info("reconcile: rolled back pending archive record",
				"recordId", rec.ID, "itemType", rec.ItemType, "itemId", rec.OriginalID)
			result.RolledBack++
		default:
			unlock()
			return result, getErr
		}
		unlock()
	}

	if result.Finalized > 0 || result.RolledBack > 0 {
		s.events.Track(telemetry.EventArchiveReconciled, telemetry.Properties{
			"finalized":  result.Finalized,
			"rolledBack": result.RolledBack,
		})
	}
	return result, nil
}
