package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"coffeemeet/internal/domain"
)

type loginCodeRepository struct {
	DB *sql.DB
}

// NewLoginCodeRepository returns a domain.LoginCodeRepository implemented with Postgres.
func NewLoginCodeRepository(db *sql.DB) domain.LoginCodeRepository {
	return &loginCodeRepository{DB: db}
}

func (r *loginCodeRepository) Create(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO login_codes (email, code_hash, expires_at)
		VALUES ($1, $2, $3)
	`
	if _, err := r.DB.ExecContext(ctx, query, email, codeHash, expiresAt); err != nil {
		return domain.DependencyError("store login code", err)
	}
	return nil
}

// Consume deletes one matching code in a single statement, so a code can be
// exchanged at most once even under concurrent verification.
func (r *loginCodeRepository) Consume(ctx context.Context, email, codeHash string, now time.Time) (bool, error) {
	query := `
		DELETE FROM login_codes
		WHERE id = (
			SELECT id FROM login_codes
			WHERE email = $1 AND code_hash = $2 AND expires_at > $3
			LIMIT 1
		)
		RETURNING id
	`
	var id string
	err := r.DB.QueryRowContext(ctx, query, email, codeHash, now).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, domain.DependencyError("consume login code", err)
	}
	return true, nil
}
