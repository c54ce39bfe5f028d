package repository

import (
	"context"
	"database/sql"

	"evcast/backend/services/scheduling-service/internal/models"
)

// StationRepository serves the per-station view of bookings. It reads the same
// table as BookingRepository.
type StationRepository struct {
	db *sql.DB
}

// NewStationRepository returns repository.
func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{db: db}
}

// Bookings lists every booking recorded at (location, date, hour), cancelled included.
func (r *StationRepository) Bookings(ctx context.Context, location, date string, hour int) ([]models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM scheduled_charging
		WHERE location = $1 AND slot_date = $2::date AND slot_hour = $3
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, location, date, hour)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// IsSlotFree reports whether no non-cancelled booking occupies the slot.
func (r *StationRepository) IsSlotFree(ctx context.Context, location, date string, hour int) (bool, error) {
	const query = `
		SELECT NOT EXISTS (
			SELECT 1 FROM scheduled_charging
			WHERE location = $1 AND slot_date = $2::date AND slot_hour = $3 AND status <> 'anulata'
		)
	`
	var free bool
	if err := r.db.QueryRowContext(ctx, query, location, date, hour).Scan(&free); err != nil {
		return false, err
	}
	return free, nil
}
