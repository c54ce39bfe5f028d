package models

import "time"

// Driver profiles accepted for a vehicle.
const (
	UserTypeLongDistance = "Long-Distance Traveler"
	UserTypeCommuter     = "Commuter"
	UserTypeCasual       = "Casual Driver"
)

// UserTypes lists the accepted driver profiles in display order.
var UserTypes = []string{UserTypeLongDistance, UserTypeCommuter, UserTypeCasual}

// ValidUserType reports whether t is one of UserTypes.
func ValidUserType(t string) bool {
	for _, u := range UserTypes {
		if u == t {
			return true
		}
	}
	return false
}

// Vehicle is a user's saved vehicle profile.
type Vehicle struct {
	ID          string    `db:"id" json:"id"`
	OwnerEmail  string    `db:"owner_email" json:"owner_email"`
	Model       string    `db:"model" json:"model"`
	BatteryKWh  float64   `db:"battery_kwh" json:"battery_kwh"`
	AgeYears    int       `db:"age_years" json:"age_years"`
	ChargerType string    `db:"charger_type" json:"charger_type"`
	UserType    string    `db:"user_type" json:"user_type"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
