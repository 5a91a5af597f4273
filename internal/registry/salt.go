package registry

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/keyward/keyward/internal/crypto"
)

const saltRowID = "salt"

// LoadSalt resolves the deployment-wide identity-hashing salt, creating it
// on first start. The insert is conditional, so when several instances cold
// start at once only one candidate becomes durable and every instance reads
// back the same winner. Called once at startup; the value is injected into
// the registry service and cached for the process lifetime.
func LoadSalt(ctx context.Context, db *pgxpool.Pool) (string, error) {
	candidate, err := crypto.GenerateSalt()
	if err != nil {
		return "", err
	}
	if _, err := db.Exec(ctx, `INSERT INTO vault_salt (id, salt) VALUES ($1, $2)
        ON CONFLICT (id) DO NOTHING`, saltRowID, candidate); err != nil {
		return "", fmt.Errorf("create salt: %w", err)
	}
	var salt string
	if err := db.QueryRow(ctx, `SELECT salt FROM vault_salt WHERE id = $1`, saltRowID).Scan(&salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	return salt, nil
}
