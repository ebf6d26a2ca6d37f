package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atticdev/attic/models"
	"github.com/atticdev/attic/types"
	_ "modernc.org/sqlite"
)

// SQLiteArchiveStore implements ArchiveStore using SQLite for
// persistence. The metadata bag is stored as JSON in a TEXT column;
// timestamps are RFC3339 strings.
type SQLiteArchiveStore struct {
	db *sql.DB
}

// sqlTimeLayout is RFC3339 with a zero-padded nanosecond fraction.
// The fixed width keeps SQL's lexicographic ordering and range
// comparisons on the TEXT columns chronological; RFC3339Nano trims
// trailing fraction zeros and would misorder within a second.
const sqlTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// NewSQLiteArchiveStore opens (or creates) the archive database at
// dbPath and bootstraps the schema. Pass ":memory:" for tests.
func NewSQLiteArchiveStore(dbPath string) (*SQLiteArchiveStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// The modernc driver opens a new connection per pool slot; a
	// single connection keeps :memory: databases coherent and is
	// plenty for the access pattern here.
	db.SetMaxOpenConns(1)

	store := &SQLiteArchiveStore{db: db}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return store, nil
}

// initSchema creates the archive table if it doesn't exist. The
// unique index over (user_id, item_type, original_id) doubles as the
// cross-process mutual exclusion guard: a second archival of the same
// live item fails on insert.
func (s *SQLiteArchiveStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS archive_records (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		item_type TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		original_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		created_at TEXT,
		completed_at TEXT NOT NULL,
		completion_time_ms INTEGER,
		priority TEXT,
		project_id TEXT,
		metadata TEXT
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_archive_original
		ON archive_records(user_id, item_type, original_id);
	CREATE INDEX IF NOT EXISTS idx_archive_completed
		ON archive_records(completed_at);
	CREATE INDEX IF NOT EXISTS idx_archive_status
		ON archive_records(status);
	`
	_, err := s.db.Exec(schema)
	return err
}

// nullTimeString returns nil for a nil time, RFC3339 string otherwise.
func nullTimeString(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(sqlTimeLayout)
}

// Insert persists a new record. Records enter in the pending state
// unless the caller set one explicitly.
func (s *SQLiteArchiveStore) Insert(rec models.ArchiveRecord) error {
	if rec.Status == "" {
		rec.Status = models.ArchiveStatusPending
	}
	var metadata interface{}
	if rec.Metadata != nil {
		b, err := json.Marshal(rec.Metadata)
		if err != nil {
			return types.WrapError(types.CodeStoreFailure, "marshal archive metadata", err)
		}
		metadata = string(b)
	}

	_, err := s.db.Exec(`
		INSERT INTO archive_records (
			id, user_id, item_type, status, original_id, title, description,
			created_at, completed_at, completion_time_ms, priority, project_id, metadata
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.UserID, string(rec.ItemType), string(rec.Status), rec.OriginalID,
		rec.Title, rec.Description,
		nullTimeString(rec.CreatedAt), rec.CompletedAt.UTC().Format(sqlTimeLayout),
		rec.CompletionTime, nullString(string(rec.Priority)), nullString(rec.ProjectID), metadata)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return types.Errorf(types.CodeConflict, "item %s/%s is already archived or mid-archive", rec.ItemType, rec.OriginalID)
		}
		return types.WrapError(types.CodeStoreFailure, "insert archive record", err)
	}
	return nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// MarkArchived flips a pending record to archived.
func (s *SQLiteArchiveStore) MarkArchived(id string) error {
	res, err := s.db.Exec(`UPDATE archive_records SET status = ? WHERE id = ? AND status = ?`,
		string(models.ArchiveStatusArchived), id, string(models.ArchiveStatusPending))
	if err != nil {
		return types.WrapError(types.CodeStoreFailure, "mark archive record archived", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return types.WrapError(types.CodeStoreFailure, "mark archive record archived", err)
	}
	if n == 0 {
		return types.Errorf(types.CodeNotFound, "pending archive record %s not found", id)
	}
	return nil
}

const recordColumns = `id, user_id, item_type, status, original_id, title, description,
	created_at, completed_at, completion_time_ms, priority, project_id, metadata`

func scanRecord(row interface{ Scan(...any) error }) (models.ArchiveRecord, error) {
	var rec models.ArchiveRecord
	var itemType, status, completedAt string
	var createdAt, priority, projectID, description, metadata sql.NullString
	var completionTime sql.NullInt64

	err := row.Scan(&rec.ID, &rec.UserID, &itemType, &status, &rec.OriginalID,
		&rec.Title, &description, &createdAt, &completedAt, &completionTime,
		&priority, &projectID, &metadata)
	if err != nil {
		return models.ArchiveRecord{}, err
	}

	rec.ItemType = models.ItemType(itemType)
	rec.Status = models.ArchiveStatus(status)
	rec.Description = description.String
	rec.Priority = models.Priority(priority.String)
	rec.ProjectID = projectID.String

	if createdAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, createdAt.String)
		if err != nil {
			return models.ArchiveRecord{}, fmt.Errorf("parse created_at: %w", err)
		}
		rec.CreatedAt = &t
	}
	rec.CompletedAt, err = time.Parse(time.RFC3339Nano, completedAt)
	if err != nil {
		return models.ArchiveRecord{}, fmt.Errorf("parse completed_at: %w", err)
	}
	if completionTime.Valid {
		ct := completionTime.Int64
		rec.CompletionTime = &ct
	}
	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &rec.Metadata); err != nil {
			return models.ArchiveRecord{}, fmt.Errorf("parse metadata: %w", err)
		}
	}
	return rec, nil
}

// Get retrieves a record by identifier, whatever its status.
func (s *SQLiteArchiveStore) Get(id string) (models.ArchiveRecord, error) {
	row := s.db.QueryRow(`SELECT `+recordColumns+` FROM archive_records WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ArchiveRecord{}, types.Errorf(types.CodeNotFound, "archive record %s not found", id)
	}
	if err != nil {
		return models.ArchiveRecord{}, types.WrapError(types.CodeStoreFailure, "get archive record", err)
	}
	return rec, nil
}

// Delete removes a record by identifier.
func (s *SQLiteArchiveStore) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM archive_records WHERE id = ?`, id)
	if err != nil {
		return types.WrapError(types.CodeStoreFailure, "delete archive record", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return types.WrapError(types.CodeStoreFailure, "delete archive record", err)
	}
	if n == 0 {
		return types.Errorf(types.CodeNotFound, "archive record %s not found", id)
	}
	return nil
}

// List returns archived records matching the filters. Pending records
// are excluded; the default order is most-recent-first.
func (s *SQLiteArchiveStore) List(filters ArchiveFilters) ([]models.ArchiveRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM archive_records WHERE status = ?`
	args := []any{string(models.ArchiveStatusArchived)}

	if filters.ItemType != "" {
		query += ` AND item_type = ?`
		args = append(args, string(filters.ItemType))
	}
	if filters.StartDate != nil {
		query += ` AND completed_at >= ?`
		args = append(args, filters.StartDate.UTC().Format(sqlTimeLayout))
	}
	if filters.EndDate != nil {
		query += ` AND completed_at <= ?`
		args = append(args, filters.EndDate.UTC().Format(sqlTimeLayout))
	}
	if filters.ProjectID != "" {
		query += ` AND project_id = ?`
		args = append(args, filters.ProjectID)
	}

	if filters.Sort == SortOldestFirst {
		query += ` ORDER BY completed_at ASC`
	} else {
		query += ` ORDER BY completed_at DESC`
	}
	if filters.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filters.Limit)
	}

	return s.queryRecords(query, args...)
}

// ListPending returns records stuck in the pending state since before
// olderThan, oldest first, for the reconciliation sweep.
func (s *SQLiteArchiveStore) ListPending(olderThan time.Time) ([]models.ArchiveRecord, error) {
	return s.queryRecords(
		`SELECT `+recordColumns+` FROM archive_records WHERE status = ? AND completed_at < ? ORDER BY completed_at ASC`,
		string(models.ArchiveStatusPending), olderThan.UTC().Format(sqlTimeLayout))
}

func (s *SQLiteArchiveStore) queryRecords(query string, args ...any) ([]models.ArchiveRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, types.WrapError(types.CodeStoreFailure, "query archive records", err)
	}
	defer func() { _ = rows.Close() }()

	var records []models.ArchiveRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, types.WrapError(types.CodeStoreFailure, "scan archive record", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, types.WrapError(types.CodeStoreFailure, "iterate archive records", err)
	}
	return records, nil
}

// Close releases the underlying database handle.
func (s *SQLiteArchiveStore) Close() error {
	return s.db.Close()
}
