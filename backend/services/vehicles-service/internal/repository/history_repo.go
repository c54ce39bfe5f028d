package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"evcast/backend/services/vehicles-service/internal/models"
)

// HistoryRepository records charging estimates in the charging history.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository returns repository.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Create inserts a record and fills its id.
func (r *HistoryRepository) Create(ctx context.Context, rec *models.ChargingRecord) error {
	derived, err := json.Marshal(rec.Derived)
	if err != nil {
		return err
	}
	if rec.Derived == nil {
		derived = []byte("{}")
	}
	rec.ID = uuid.NewString()

	const query = `
		INSERT INTO charging_history (
			id, user_email, vehicle_model, recorded_at, energy_kwh, charging_rate_kw, cost_usd,
			soc_start, soc_end, distance_km, temperature_c, battery_kwh, vehicle_age_years,
			predicted_hours, derived
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15::jsonb)
	`
	_, err = r.db.ExecContext(ctx, query,
		rec.ID,
		rec.UserEmail,
		rec.VehicleModel,
		rec.RecordedAt,
		rec.EnergyKWh,
		rec.ChargingRateKW,
		rec.CostUSD,
		rec.SoCStart,
		rec.SoCEnd,
		rec.DistanceKm,
		rec.TemperatureC,
		rec.BatteryKWh,
		rec.VehicleAge,
		rec.PredictedHours,
		string(derived),
	)
	return err
}

// List returns a user's records, newest first. An empty vehicleModel lists all vehicles.
func (r *HistoryRepository) List(ctx context.Context, user, vehicleModel string, limit int) ([]models.ChargingRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	const query = `
		SELECT id, user_email, vehicle_model, recorded_at, energy_kwh, charging_rate_kw, cost_usd,
		       soc_start, soc_end, distance_km, temperature_c, battery_kwh, vehicle_age_years,
		       predicted_hours, derived
		FROM charging_history
		WHERE user_email = $1 AND ($2 = '' OR vehicle_model = $2)
		ORDER BY recorded_at DESC NULLS LAST, created_at DESC
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, user, vehicleModel, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.ChargingRecord{}
	for rows.Next() {
		var (
			rec        models.ChargingRecord
			recordedAt sql.NullTime
			derived    []byte
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.UserEmail,
			&rec.VehicleModel,
			&recordedAt,
			&rec.EnergyKWh,
			&rec.ChargingRateKW,
			&rec.CostUSD,
			&rec.SoCStart,
			&rec.SoCEnd,
			&rec.DistanceKm,
			&rec.TemperatureC,
			&rec.BatteryKWh,
			&rec.VehicleAge,
			&rec.PredictedHours,
			&derived,
		); err != nil {
			return nil, err
		}
		if recordedAt.Valid {
			rec.RecordedAt = recordedAt.Time.UTC()
		}
		if len(derived) > 0 {
			if err := json.Unmarshal(derived, &rec.Derived); err != nil {
				return nil, err
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
