package postgres

import (
	"context"
	"database/sql"
	"errors"

	"coffeemeet/internal/domain"
)

type venueRepository struct {
	DB *sql.DB
}

func NewVenueRepository(db *sql.DB) domain.VenueRepository {
	return &venueRepository{
		DB: db,
	}
}

func (r *venueRepository) GetByID(ctx context.Context, id string) (*domain.Venue, error) {
	query := `
		SELECT id, name, address, opening_hours
		FROM venues
		WHERE id = $1
	`
	v := &domain.Venue{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&v.ID, &v.Name, &v.Address, &v.OpeningHours)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError("venue not found")
		}
		return nil, domain.DependencyError("load venue", err)
	}
	return v, nil
}
