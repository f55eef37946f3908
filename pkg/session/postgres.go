package session

import (
	"context"
	"embed"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Migrations holds the SQL migrations that create the sessions table.
// Apply them with pkg/db.Migrate before using a PostgresStore.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// DB is the subset of pgxpool.Pool used by PostgresStore.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	createSessionQuery = `INSERT INTO sessions (id, data, updated_at)
VALUES ($1, ''::bytea, now())
ON CONFLICT (id) DO NOTHING`

	loadSessionQuery = `SELECT data FROM sessions WHERE id = $1`

	saveSessionQuery = `INSERT INTO sessions (id, data, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`

	sweepSessionsQuery = `DELETE FROM sessions WHERE updated_at < $1`
)

// PostgresStore keeps one row per session in the "sessions" table.
type PostgresStore struct {
	db DB
}

// NewPostgresStore creates a store on top of a pgx pool or connection.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts an empty row unless one already exists.
func (s *PostgresStore) Create(ctx context.Context, id string) error {
	if !ValidID(id) {
		return ErrInvalidID
	}
	_, err := s.db.Exec(ctx, createSessionQuery, id)
	return err
}

// Load returns the stored bag.
func (s *PostgresStore) Load(ctx context.Context, id string) (Values, error) {
	if !ValidID(id) {
		return nil, ErrInvalidID
	}
	var data []byte
	if err := s.db.QueryRow(ctx, loadSessionQuery, id).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decode(data)
}

// Save upserts the whole bag.
func (s *PostgresStore) Save(ctx context.Context, id string, v Values) error {
	if !ValidID(id) {
		return ErrInvalidID
	}
	data, err := encode(v)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, saveSessionQuery, id, data)
	return err
}

// Sweep deletes rows not written since the cutoff.
func (s *PostgresStore) Sweep(ctx context.Context, before time.Time) (int, error) {
	tag, err := s.db.Exec(ctx, sweepSessionsQuery, before)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

var (
	_ Store     = (*PostgresStore)(nil)
	_ Sweepable = (*PostgresStore)(nil)
)
