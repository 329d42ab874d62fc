package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"coffeemeet/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVenueRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "found",
			mock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "name", "address", "opening_hours"}).
					AddRow("venue-1", "Bean There", "1 Main St", []byte(`{"monday":{"open":"08:00","close":"18:00"}}`))
				mock.ExpectQuery(`FROM venues`).WithArgs("venue-1").WillReturnRows(rows)
			},
		},
		{
			name: "missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM venues`).WithArgs("venue-1").WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "driver failure",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM venues`).WithArgs("venue-1").WillReturnError(sql.ErrConnDone)
			},
			wantErr: domain.ErrDependency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			v, err := NewVenueRepository(db).GetByID(ctx, "venue-1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "Bean There", v.Name)
				h, ok := v.OpeningHours.For(time.Monday)
				require.True(t, ok)
				assert.Equal(t, "18:00", h.Close)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
