package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/rutvikdhakate/sports-calendar/internal/config"
	"github.com/rutvikdhakate/sports-calendar/pkg/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id          UUID PRIMARY KEY,
	title       TEXT NOT NULL,
	sport       TEXT NOT NULL,
	category    TEXT NOT NULL DEFAULT '',
	start_at    TIMESTAMPTZ NOT NULL,
	end_at      TIMESTAMPTZ,
	venue       TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	source      TEXT NOT NULL,
	external_id TEXT,
	meta        JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS events_external_id_sport_idx ON events (external_id, sport);
CREATE INDEX IF NOT EXISTS events_start_at_idx ON events (start_at);
CREATE INDEX IF NOT EXISTS events_source_idx ON events (source);
`

const eventColumns = `id, title, sport, category, start_at, end_at, venue, description,
	source, external_id, meta, created_at, updated_at`

// Postgres implements EventStore on lib/pq
type Postgres struct {
	db  *sql.DB
	now func() time.Time
}

// Open connects to Postgres and verifies the connection
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Postgres, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewPostgres(db), nil
}

// NewPostgres wraps an existing handle
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db, now: time.Now}
}

// EnsureSchema creates the events table and its indexes if missing
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

// UpsertByIdentity inserts or updates the row matching (externalId, sport).
// Seed rows are never touched; a conflict with one returns ErrSeedProtected.
func (p *Postgres) UpsertByIdentity(ctx context.Context, event models.Event) (*models.Event, error) {
	if event.ExternalID == "" {
		return nil, ErrMissingIdentity
	}
	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("upsert %s/%s: %w", event.Sport, event.ExternalID, err)
	}

	event = event.WithDefaults(p.now().UTC())
	meta, err := json.Marshal(event.Meta)
	if err != nil {
		return nil, fmt.Errorf("encode meta: %w", err)
	}

	query := `
		INSERT INTO events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (external_id, sport) DO UPDATE SET
			title       = EXCLUDED.title,
			category    = EXCLUDED.category,
			start_at    = EXCLUDED.start_at,
			end_at      = EXCLUDED.end_at,
			venue       = EXCLUDED.venue,
			description = EXCLUDED.description,
			source      = EXCLUDED.source,
			meta        = EXCLUDED.meta,
			updated_at  = EXCLUDED.updated_at
		WHERE events.source <> 'seed'
		RETURNING id, created_at, updated_at
	`

	err = p.db.QueryRowContext(ctx, query, eventArgs(event, meta)...).
		Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSeedProtected
	}
	if err != nil {
		return nil, fmt.Errorf("upsert %s/%s: %w", event.Sport, event.ExternalID, err)
	}

	return &event, nil
}

// DeleteWhere removes rows by source predicate
func (p *Postgres) DeleteWhere(ctx context.Context, pred SourcePredicate) (int64, error) {
	op := "="
	if pred.Negate {
		op = "<>"
	}

	res, err := p.db.ExecContext(ctx, "DELETE FROM events WHERE source "+op+" $1", string(pred.Source))
	if err != nil {
		return 0, fmt.Errorf("delete where %s: %w", pred, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// InsertMany inserts events one by one, in order, outside a transaction so
// rows written before a failure stay written.
func (p *Postgres) InsertMany(ctx context.Context, events []models.Event) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	stmt, err := p.db.PrepareContext(ctx, `INSERT INTO events (`+eventColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := p.now().UTC()
	for i, event := range events {
		if err := event.Validate(); err != nil {
			return i, fmt.Errorf("insert event %d: %w", i, err)
		}

		event = event.WithDefaults(now)
		meta, err := json.Marshal(event.Meta)
		if err != nil {
			return i, fmt.Errorf("encode meta for event %d: %w", i, err)
		}

		if _, err := stmt.ExecContext(ctx, eventArgs(event, meta)...); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				return i, fmt.Errorf("insert event %d (%s/%s): %w", i, event.Sport, event.ExternalID, ErrDuplicateIdentity)
			}
			return i, fmt.Errorf("insert event %d: %w", i, err)
		}
	}

	return len(events), nil
}

// Find retrieves events with optional filtering, ordered by start
func (p *Postgres) Find(ctx context.Context, f Filter) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if f.From != nil {
		query += fmt.Sprintf(" AND start_at >= $%d", argIdx)
		args = append(args, f.From.UTC())
		argIdx++
	}

	if f.To != nil {
		query += fmt.Sprintf(" AND start_at <= $%d", argIdx)
		args = append(args, f.To.UTC())
		argIdx++
	}

	if len(f.Sports) > 0 {
		query += fmt.Sprintf(" AND sport = ANY($%d)", argIdx)
		args = append(args, pq.Array(f.Sports))
		argIdx++
	}

	if f.Source != "" {
		query += fmt.Sprintf(" AND source = $%d", argIdx)
		args = append(args, string(f.Source))
	}

	query += " ORDER BY start_at ASC, id ASC"

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}

// Get retrieves a single event by id
func (p *Postgres) Get(ctx context.Context, id string) (*models.Event, error) {
	row := p.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id::text = $1`, id)

	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(s scanner) (*models.Event, error) {
	var (
		e          models.Event
		end        sql.NullTime
		source     string
		externalID sql.NullString
		meta       []byte
	)

	if err := s.Scan(
		&e.ID, &e.Title, &e.Sport, &e.Category, &e.Start, &end, &e.Venue,
		&e.Description, &source, &externalID, &meta, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}

	e.Source = models.Source(source)
	e.ExternalID = externalID.String
	e.Start = e.Start.UTC()
	if end.Valid {
		t := end.Time.UTC()
		e.End = &t
	}

	e.Meta = models.Meta{}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &e.Meta); err != nil {
			return nil, fmt.Errorf("decode meta for %s: %w", e.ID, err)
		}
	}

	return &e, nil
}

func eventArgs(e models.Event, meta []byte) []any {
	var end sql.NullTime
	if e.End != nil {
		end = sql.NullTime{Time: *e.End, Valid: true}
	}
	externalID := sql.NullString{String: e.ExternalID, Valid: e.ExternalID != ""}

	return []any{
		e.ID, e.Title, e.Sport, e.Category, e.Start, end, e.Venue,
		e.Description, string(e.Source), externalID, string(meta), e.CreatedAt, e.UpdatedAt,
	}
}
