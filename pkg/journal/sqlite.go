package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteConfig contains configuration for the SQLite journal backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds.
	BusyTimeout time.Duration
}

// SQLiteJournal implements Journal on a SQLite database in WAL mode.
// Both processes may share one database file; WAL allows the edge
// process to append reload events while certd appends renewal events.
type SQLiteJournal struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteJournal opens (and if necessary initializes) the journal
// database.
func NewSQLiteJournal(cfg SQLiteConfig) (*SQLiteJournal, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("journal database path is required")
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	j := &SQLiteJournal{
		db:     db,
		logger: slog.Default().With("component", "journal"),
	}

	if err := j.initialize(cfg); err != nil {
		db.Close()
		return nil, err
	}

	j.logger.Debug("journal initialized", "path", cfg.Path)
	return j, nil
}

func (j *SQLiteJournal) initialize(cfg SQLiteConfig) error {
	if _, err := j.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := j.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", cfg.BusyTimeout.Milliseconds())); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if _, err := j.db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create journal schema: %w", err)
	}
	if _, err := j.db.Exec(insertSchemaVersion, SchemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	var version int
	if err := j.db.QueryRow(getSchemaVersion).Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version != SchemaVersion {
		return fmt.Errorf("journal schema version mismatch: expected %d, got %d", SchemaVersion, version)
	}

	return nil
}

// Record appends an event, assigning ID and time when unset.
func (j *SQLiteJournal) Record(ctx context.Context, event *Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Time.IsZero() {
		event.Time = time.Now()
	}

	_, err := j.db.ExecContext(ctx, insertEvent,
		event.ID,
		event.Time.UnixMilli(),
		event.Process,
		event.Kind,
		event.Domain,
		event.Detail,
	)
	if err != nil {
		return fmt.Errorf("failed to record journal event: %w", err)
	}

	return nil
}

// Recent returns up to limit events, newest first.
func (j *SQLiteJournal) Recent(ctx context.Context, limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := j.db.QueryContext(ctx, selectRecent, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var ev Event
		var unixMilli int64
		if err := rows.Scan(&ev.ID, &unixMilli, &ev.Process, &ev.Kind, &ev.Domain, &ev.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan journal event: %w", err)
		}
		ev.Time = time.UnixMilli(unixMilli)
		events = append(events, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal events: %w", err)
	}

	return events, nil
}

// Close closes the underlying database.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
