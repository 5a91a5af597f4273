package registry

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when no identity record exists for a phone.
	ErrNotFound = errors.New("identity not found")
	// ErrOwnershipMismatch is returned when a deletion names a key id that
	// does not match the stored record.
	ErrOwnershipMismatch = errors.New("key id does not match identity")
)

// Repository persists identity records.
type Repository interface {
	Put(ctx context.Context, identity Identity) error
	Get(ctx context.Context, id string) (Identity, error)
	Remove(ctx context.Context, id string) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed identity repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Put inserts or replaces an identity record.
func (r *PostgresRepository) Put(ctx context.Context, identity Identity) error {
	_, err := r.db.Exec(ctx, `INSERT INTO identities (id, key_id, op, code, verified)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (id) DO UPDATE SET
            key_id = EXCLUDED.key_id,
            op = EXCLUDED.op,
            code = EXCLUDED.code,
            verified = EXCLUDED.verified`,
		identity.ID, identity.KeyID, identity.Op, identity.Code, identity.Verified)
	return err
}

// Get fetches an identity record by hashed id.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Identity, error) {
	row := r.db.QueryRow(ctx, `SELECT id, key_id, op, code, verified FROM identities WHERE id = $1`, id)
	var identity Identity
	if err := row.Scan(&identity.ID, &identity.KeyID, &identity.Op, &identity.Code, &identity.Verified); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Identity{}, ErrNotFound
		}
		return Identity{}, err
	}
	return identity, nil
}

// Remove deletes an identity record by hashed id.
func (r *PostgresRepository) Remove(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM identities WHERE id = $1`, id)
	return err
}
