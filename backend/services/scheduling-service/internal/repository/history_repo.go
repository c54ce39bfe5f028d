package repository

import (
	"context"
	"database/sql"

	"evcast/backend/services/scheduling-service/internal/models"
)

// HistoryRepository reads charging history recorded by the vehicles service.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository returns repository.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// ListSessions returns the sessions of a (user, vehicle model) pair, oldest first.
// A NULL recorded_at is returned as a zero Timestamp.
func (r *HistoryRepository) ListSessions(ctx context.Context, userEmail, vehicleModel string) ([]models.ChargingSession, error) {
	const query = `
		SELECT id, user_email, vehicle_model, recorded_at, energy_kwh, charging_rate_kw, cost_usd, soc_start, soc_end, distance_km
		FROM charging_history
		WHERE user_email = $1 AND vehicle_model = $2
		ORDER BY recorded_at NULLS LAST, created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userEmail, vehicleModel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.ChargingSession
	for rows.Next() {
		var (
			s          models.ChargingSession
			recordedAt sql.NullTime
		)
		if err := rows.Scan(
			&s.ID,
			&s.UserEmail,
			&s.VehicleModel,
			&recordedAt,
			&s.EnergyKWh,
			&s.ChargingRateKW,
			&s.CostUSD,
			&s.SoCStart,
			&s.SoCEnd,
			&s.DistanceKM,
		); err != nil {
			return nil, err
		}
		if recordedAt.Valid {
			s.Timestamp = recordedAt.Time
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}
