package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"evcast/backend/services/vehicles-service/internal/models"
)

// ErrVehicleNotFound is returned for unknown ids or vehicles owned by someone else.
var ErrVehicleNotFound = errors.New("vehicle not found")

const vehicleColumns = `id, owner_email, model, battery_kwh, age_years, charger_type, user_type, created_at, updated_at`

// VehicleRepository persists vehicle profiles.
type VehicleRepository struct {
	db *sql.DB
}

// NewVehicleRepository returns repository.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// Create inserts a new vehicle and fills its id and timestamps.
func (r *VehicleRepository) Create(ctx context.Context, v *models.Vehicle) error {
	v.ID = uuid.NewString()
	const query = `
		INSERT INTO vehicles (id, owner_email, model, battery_kwh, age_years, charger_type, user_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		v.ID,
		v.OwnerEmail,
		v.Model,
		v.BatteryKWh,
		v.AgeYears,
		v.ChargerType,
		v.UserType,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
}

// Get returns one vehicle of owner.
func (r *VehicleRepository) Get(ctx context.Context, owner, id string) (*models.Vehicle, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrVehicleNotFound
	}
	const query = `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1 AND owner_email = $2`
	v, err := scanVehicle(r.db.QueryRowContext(ctx, query, id, owner))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVehicleNotFound
	}
	return v, err
}

// ListByOwner returns the owner's vehicles, oldest first.
func (r *VehicleRepository) ListByOwner(ctx context.Context, owner string) ([]models.Vehicle, error) {
	const query = `SELECT ` + vehicleColumns + ` FROM vehicles WHERE owner_email = $1 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := []models.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return vehicles, nil
}

// Update overwrites the profile fields of an owned vehicle.
func (r *VehicleRepository) Update(ctx context.Context, v *models.Vehicle) error {
	if _, err := uuid.Parse(v.ID); err != nil {
		return ErrVehicleNotFound
	}
	const query = `
		UPDATE vehicles
		SET model = $3, battery_kwh = $4, age_years = $5, charger_type = $6, user_type = $7, updated_at = NOW()
		WHERE id = $1 AND owner_email = $2
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		v.ID,
		v.OwnerEmail,
		v.Model,
		v.BatteryKWh,
		v.AgeYears,
		v.ChargerType,
		v.UserType,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrVehicleNotFound
	}
	return err
}

// Delete removes an owned vehicle.
func (r *VehicleRepository) Delete(ctx context.Context, owner, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrVehicleNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1 AND owner_email = $2`, id, owner)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVehicleNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicle(row rowScanner) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := row.Scan(
		&v.ID,
		&v.OwnerEmail,
		&v.Model,
		&v.BatteryKWh,
		&v.AgeYears,
		&v.ChargerType,
		&v.UserType,
		&v.CreatedAt,
		&v.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &v, nil
}
