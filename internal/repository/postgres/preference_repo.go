package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"coffeemeet/internal/domain"
)

type preferenceRepository struct {
	DB *sql.DB
}

// NewPreferenceRepository returns a lookup over participant_preferences.
// Contacts without a row are opted in.
func NewPreferenceRepository(db *sql.DB) domain.PreferenceLookup {
	return &preferenceRepository{
		DB: db,
	}
}

func (r *preferenceRepository) WantsReminders(ctx context.Context, contact string) (bool, error) {
	query := `SELECT wants_reminders FROM participant_preferences WHERE contact = $1`
	var wants bool
	err := r.DB.QueryRowContext(ctx, query, strings.ToLower(contact)).Scan(&wants)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return true, nil
		}
		return false, domain.DependencyError("load preferences", err)
	}
	return wants, nil
}
