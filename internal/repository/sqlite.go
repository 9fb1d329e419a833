package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/xiaot623/gogo/fleetconsole/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS dispatches (
			dispatch_id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			intent TEXT,
			asset_id TEXT,
			outcome TEXT NOT NULL,
			targets TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			resolved_at DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_dispatches_created ON dispatches(created_at)`,
		`CREATE TABLE IF NOT EXISTS events (
			event_id TEXT PRIMARY KEY,
			dispatch_id TEXT NOT NULL,
			ts INTEGER NOT NULL,
			type TEXT NOT NULL,
			payload TEXT,
			FOREIGN KEY (dispatch_id) REFERENCES dispatches(dispatch_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_dispatch ON events(dispatch_id, ts)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateDispatch creates a new dispatch record.
func (s *SQLiteStore) CreateDispatch(ctx context.Context, d *domain.Dispatch) error {
	targets, err := json.Marshal(d.Targets)
	if err != nil {
		return fmt.Errorf("failed to marshal targets: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO dispatches (dispatch_id, text, intent, asset_id, outcome, targets, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.DispatchID, d.Text, nullString(d.Intent), nullString(d.AssetID), d.Outcome, string(targets), d.CreatedAt)
	return err
}

// GetDispatch retrieves a dispatch by ID.
func (s *SQLiteStore) GetDispatch(ctx context.Context, dispatchID string) (*domain.Dispatch, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT dispatch_id, text, intent, asset_id, outcome, targets, created_at, resolved_at FROM dispatches WHERE dispatch_id = ?`,
		dispatchID)
	d, err := scanDispatch(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// ListDispatches returns the most recent dispatches, newest first.
func (s *SQLiteStore) ListDispatches(ctx context.Context, limit int) ([]domain.Dispatch, error) {
	query := `SELECT dispatch_id, text, intent, asset_id, outcome, targets, created_at, resolved_at FROM dispatches ORDER BY created_at DESC, rowid DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dispatches []domain.Dispatch
	for rows.Next() {
		d, err := scanDispatch(rows)
		if err != nil {
			return nil, err
		}
		dispatches = append(dispatches, *d)
	}
	return dispatches, rows.Err()
}

// UpdateDispatchOutcome records how a dispatch was resolved.
func (s *SQLiteStore) UpdateDispatchOutcome(ctx context.Context, dispatchID string, outcome domain.OutcomeKind, intent, assetID string, targets []string) error {
	targetsJSON, err := json.Marshal(targets)
	if err != nil {
		return fmt.Errorf("failed to marshal targets: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE dispatches SET outcome = ?, intent = ?, asset_id = ?, targets = ?, resolved_at = ? WHERE dispatch_id = ?`,
		outcome, nullString(intent), nullString(assetID), string(targetsJSON), time.Now(), dispatchID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("dispatch %s not found", dispatchID)
	}
	return nil
}

// CreateEvent creates a new event.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *domain.Event) error {
	payload := ""
	if event.Payload != nil {
		payload = string(event.Payload)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (event_id, dispatch_id, ts, type, payload) VALUES (?, ?, ?, ?, ?)`,
		event.EventID, event.DispatchID, event.Ts, event.Type, payload)
	return err
}

// GetEvents retrieves events for a dispatch in emission order.
func (s *SQLiteStore) GetEvents(ctx context.Context, dispatchID string, afterTs int64, types []string, limit int) ([]domain.Event, error) {
	query := `SELECT event_id, dispatch_id, ts, type, payload FROM events WHERE dispatch_id = ?`
	args := []interface{}{dispatchID}

	if afterTs > 0 {
		query += ` AND ts > ?`
		args = append(args, afterTs)
	}

	if len(types) > 0 {
		placeholders := make([]string, len(types))
		for i, t := range types {
			placeholders[i] = "?"
			args = append(args, t)
		}
		query += ` AND type IN (` + strings.Join(placeholders, ",") + `)`
	}

	query += ` ORDER BY ts ASC, rowid ASC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var event domain.Event
		var payload sql.NullString
		if err := rows.Scan(&event.EventID, &event.DispatchID, &event.Ts, &event.Type, &payload); err != nil {
			return nil, err
		}
		if payload.Valid && payload.String != "" {
			event.Payload = json.RawMessage(payload.String)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDispatch(row scanner) (*domain.Dispatch, error) {
	var d domain.Dispatch
	var intent, assetID, targets sql.NullString
	var resolvedAt sql.NullTime
	if err := row.Scan(&d.DispatchID, &d.Text, &intent, &assetID, &d.Outcome, &targets, &d.CreatedAt, &resolvedAt); err != nil {
		return nil, err
	}
	d.Intent = intent.String
	d.AssetID = assetID.String
	if targets.Valid && targets.String != "" && targets.String != "null" {
		if err := json.Unmarshal([]byte(targets.String), &d.Targets); err != nil {
			return nil, fmt.Errorf("failed to decode targets: %w", err)
		}
	}
	if resolvedAt.Valid {
		d.ResolvedAt = &resolvedAt.Time
	}
	return &d, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
