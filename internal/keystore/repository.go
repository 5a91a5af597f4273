package keystore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no key record exists for an id.
var ErrNotFound = errors.New("key not found")

// Repository persists key records.
type Repository interface {
	Put(ctx context.Context, record KeyRecord) error
	Get(ctx context.Context, id string) (KeyRecord, error)
	Remove(ctx context.Context, id string) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed key repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Put inserts or replaces a key record.
func (r *PostgresRepository) Put(ctx context.Context, record KeyRecord) error {
	keyID, err := uuid.Parse(record.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO keys (id, encryption_key) VALUES ($1, $2)
        ON CONFLICT (id) DO UPDATE SET encryption_key = EXCLUDED.encryption_key`,
		keyID, record.EncryptionKey)
	return err
}

// Get fetches a key record by id.
func (r *PostgresRepository) Get(ctx context.Context, id string) (KeyRecord, error) {
	keyID, err := uuid.Parse(id)
	if err != nil {
		return KeyRecord{}, err
	}
	row := r.db.QueryRow(ctx, `SELECT id, encryption_key FROM keys WHERE id = $1`, keyID)
	var (
		idVal  uuid.UUID
		record KeyRecord
	)
	if err := row.Scan(&idVal, &record.EncryptionKey); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return KeyRecord{}, ErrNotFound
		}
		return KeyRecord{}, err
	}
	record.ID = idVal.String()
	return record, nil
}

// Remove deletes a key record. Deleting an absent record is not an error.
func (r *PostgresRepository) Remove(ctx context.Context, id string) error {
	keyID, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `DELETE FROM keys WHERE id = $1`, keyID)
	return err
}
