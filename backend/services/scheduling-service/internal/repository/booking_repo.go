package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	libdb "evcast/backend/libs/db"
	"evcast/backend/services/scheduling-service/internal/models"
)

// Unique indexes backing booking exclusivity.
const (
	stationSlotIndex = "scheduled_charging_station_slot_uq"
	ownerSlotIndex   = "scheduled_charging_owner_slot_uq"
)

var (
	// ErrBookingNotFound indicates a missing booking id.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrDuplicateBooking means the owner already has a pending booking for the slot.
	ErrDuplicateBooking = errors.New("duplicate booking")
	// ErrSlotTaken means another live booking already occupies the station slot.
	ErrSlotTaken = errors.New("slot already taken")
	// ErrStatusChanged means the booking left the expected status before the update.
	ErrStatusChanged = errors.New("booking status changed concurrently")
)

const bookingColumns = `id, user_email, vehicle_model, to_char(slot_date, 'YYYY-MM-DD'), slot_hour, location, status, created_at, updated_at`

// BookingRepository persists scheduled chargings in a single canonical table.
type BookingRepository struct {
	db *sql.DB
}

// NewBookingRepository returns repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a booking. The partial unique indexes make the insert conditional:
// a live booking at the same station slot yields ErrSlotTaken, a pending booking of
// the same owner at the same slot yields ErrDuplicateBooking.
func (r *BookingRepository) Create(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = models.StatusScheduled
	}
	const query = `
		INSERT INTO scheduled_charging (id, user_email, vehicle_model, slot_date, slot_hour, location, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4::date, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		b.ID,
		b.UserEmail,
		b.VehicleModel,
		b.Date,
		b.Hour,
		b.Location,
		b.Status,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, classify(err)
	}
	return b, nil
}

func classify(err error) error {
	constraint, ok := libdb.UniqueViolation(err)
	if !ok {
		return err
	}
	switch constraint {
	case ownerSlotIndex:
		return ErrDuplicateBooking
	case stationSlotIndex:
		return ErrSlotTaken
	}
	return fmt.Errorf("unique violation on %s: %w", constraint, err)
}

// Get loads a booking by id.
func (r *BookingRepository) Get(ctx context.Context, id string) (*models.Booking, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrBookingNotFound
	}
	query := `SELECT ` + bookingColumns + ` FROM scheduled_charging WHERE id = $1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateStatus moves a booking from one status to another. The update only applies
// while the booking still holds from.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, from, to models.Status) (*models.Booking, error) {
	query := `
		UPDATE scheduled_charging
		SET status = $3,
		    updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + bookingColumns
	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id, from, to))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStatusChanged
	}
	if err != nil {
		return nil, classify(err)
	}
	return b, nil
}

// HasPending reports whether the owner holds a pending booking at (date, hour).
func (r *BookingRepository) HasPending(ctx context.Context, userEmail, vehicleModel, date string, hour int) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM scheduled_charging
			WHERE user_email = $1 AND vehicle_model = $2 AND slot_date = $3::date AND slot_hour = $4 AND status = 'programata'
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userEmail, vehicleModel, date, hour).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ListByOwner returns the user's bookings, optionally filtered by vehicle model, newest slot first.
func (r *BookingRepository) ListByOwner(ctx context.Context, userEmail, vehicleModel string) ([]models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM scheduled_charging
		WHERE user_email = $1 AND ($2 = '' OR vehicle_model = $2)
		ORDER BY slot_date DESC, slot_hour DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userEmail, vehicleModel)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	if err := row.Scan(
		&b.ID,
		&b.UserEmail,
		&b.VehicleModel,
		&b.Date,
		&b.Hour,
		&b.Location,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func collectBookings(rows *sql.Rows) ([]models.Booking, error) {
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}
