package evclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"
)

// Vehicle is a saved vehicle profile.
type Vehicle struct {
	ID          string    `json:"id"`
	OwnerEmail  string    `json:"owner_email"`
	Model       string    `json:"model"`
	BatteryKWh  float64   `json:"battery_kwh"`
	AgeYears    int       `json:"age_years"`
	ChargerType string    `json:"charger_type"`
	UserType    string    `json:"user_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// VehicleInput creates or replaces a vehicle profile.
type VehicleInput struct {
	Model       string  `json:"model"`
	BatteryKWh  float64 `json:"battery_kwh"`
	AgeYears    int     `json:"age_years"`
	ChargerType string  `json:"charger_type"`
	UserType    string  `json:"user_type"`
}

// Catalog lists the values a vehicle profile may use.
type Catalog struct {
	Models       []string `json:"models"`
	ChargerTypes []string `json:"charger_types"`
	UserTypes    []string `json:"user_types"`
}

// VoiceDraft is what a transcript yielded. Unset fields are zero or nil.
type VoiceDraft struct {
	Transcript  string   `json:"transcript"`
	Model       string   `json:"model,omitempty"`
	BatteryKWh  *float64 `json:"battery_kwh,omitempty"`
	AgeYears    *int     `json:"age_years,omitempty"`
	ChargerType string   `json:"charger_type,omitempty"`
	UserType    string   `json:"user_type,omitempty"`
}

// VoiceResult is a parsed transcript and, when saved, the stored vehicle.
type VoiceResult struct {
	Draft   VoiceDraft `json:"draft"`
	Missing []string   `json:"missing"`
	Vehicle *Vehicle   `json:"vehicle,omitempty"`
}

// Voice command intents.
const (
	IntentDurationEstimate = "duration_estimate"
	IntentCostEstimate     = "cost_estimate"
	IntentVehicleProfile   = "vehicle_profile"
	IntentRangeEstimate    = "range_estimate"
	IntentUnknown          = "unknown"
)

// VoiceCommand is a recognised navigation command and the API path it maps to.
type VoiceCommand struct {
	Transcript string `json:"transcript"`
	Intent     string `json:"intent"`
	Path       string `json:"path,omitempty"`
}

// DictatedFields are duration estimate inputs heard in a transcript. Nil fields were not heard.
type DictatedFields struct {
	Transcript string   `json:"transcript"`
	EnergyKWh  *float64 `json:"energy_kwh,omitempty"`
	RateKW     *float64 `json:"charging_rate_kw,omitempty"`
	CostUSD    *float64 `json:"cost_usd,omitempty"`
	SoCStart   *float64 `json:"soc_start,omitempty"`
	SoCEnd     *float64 `json:"soc_end,omitempty"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// Dictation is a parsed estimate dictation.
type Dictation struct {
	Fields  DictatedFields `json:"fields"`
	Missing []string       `json:"missing"`
}

// Derived holds the engineered charging features.
type Derived struct {
	ChargingEfficiency      float64 `json:"charging_efficiency"`
	EnergyPerCharge         float64 `json:"energy_per_charge"`
	DistancePerKWh          float64 `json:"distance_per_kwh"`
	TotalChargeGained       float64 `json:"total_charge_gained"`
	ChargerEfficiency       float64 `json:"charger_efficiency"`
	TempAdjustedConsumption float64 `json:"temperature_adjusted_consumption"`
}

// CostRequest asks for a charging cost estimate.
type CostRequest struct {
	VehicleID     string   `json:"vehicle_id"`
	RateKW        float64  `json:"charging_rate_kw"`
	DurationHours float64  `json:"duration_hours"`
	SoCStart      float64  `json:"soc_start"`
	DistanceKm    float64  `json:"distance_km"`
	TemperatureC  *float64 `json:"temperature_c,omitempty"`
	Location      string   `json:"location,omitempty"`
}

// CostEstimate is the estimated energy and price of a charge.
type CostEstimate struct {
	EnergyKWh        float64  `json:"energy_kwh"`
	SoCEnd           float64  `json:"soc_end"`
	PricePerKWh      float64  `json:"price_per_kwh"`
	RealisticCostUSD float64  `json:"realistic_cost_usd"`
	PredictedCostUSD *float64 `json:"predicted_cost_usd,omitempty"`
	Derived          Derived  `json:"derived"`
}

// RangeRequest asks for a remaining range estimate.
type RangeRequest struct {
	VehicleID    string   `json:"vehicle_id"`
	SoCPercent   float64  `json:"soc_percent"`
	TemperatureC *float64 `json:"temperature_c,omitempty"`
	RoadType     string   `json:"road_type"`
}

// RangeEstimate is the estimated distance left.
type RangeEstimate struct {
	DistanceKm    float64 `json:"distance_km"`
	FullRangeKm   float64 `json:"full_range_km"`
	DurationHours float64 `json:"duration_hours"`
	DrainRateKW   float64 `json:"drain_rate_kw"`
	AvgSpeedKmh   float64 `json:"avg_speed_kmh"`
}

// DurationRequest asks for a charging duration estimate.
type DurationRequest struct {
	VehicleID    string   `json:"vehicle_id"`
	EnergyKWh    float64  `json:"energy_kwh"`
	RateKW       float64  `json:"charging_rate_kw"`
	CostUSD      float64  `json:"cost_usd"`
	SoCStart     float64  `json:"soc_start"`
	SoCEnd       float64  `json:"soc_end"`
	DistanceKm   float64  `json:"distance_km"`
	TemperatureC *float64 `json:"temperature_c,omitempty"`
}

// DurationEstimate is the predicted charging time and whether it was recorded.
type DurationEstimate struct {
	Hours    float64  `json:"hours"`
	Minutes  float64  `json:"minutes"`
	Source   string   `json:"source"`
	Derived  Derived  `json:"derived"`
	Vehicle  *Vehicle `json:"vehicle"`
	Recorded bool     `json:"recorded"`
	RecordID string   `json:"record_id,omitempty"`
}

// ChargingRecord is one entry of the charging history.
type ChargingRecord struct {
	ID             string             `json:"id"`
	UserEmail      string             `json:"user_email"`
	VehicleModel   string             `json:"vehicle_model"`
	RecordedAt     time.Time          `json:"recorded_at"`
	EnergyKWh      float64            `json:"energy_kwh"`
	ChargingRateKW float64            `json:"charging_rate_kw"`
	CostUSD        float64            `json:"cost_usd"`
	SoCStart       float64            `json:"soc_start"`
	SoCEnd         float64            `json:"soc_end"`
	DistanceKm     float64            `json:"distance_km"`
	TemperatureC   float64            `json:"temperature_c"`
	BatteryKWh     float64            `json:"battery_kwh"`
	VehicleAge     float64            `json:"vehicle_age_years"`
	PredictedHours float64            `json:"predicted_hours"`
	Derived        map[string]float64 `json:"derived"`
}

// Vehicles lists the caller's vehicles.
func (c *Client) Vehicles(ctx context.Context) ([]Vehicle, error) {
	var res struct {
		Vehicles []Vehicle `json:"vehicles"`
	}
	if err := c.authorized(ctx, http.MethodGet, "/api/vehicles", nil, &res); err != nil {
		return nil, err
	}
	return res.Vehicles, nil
}

// CreateVehicle stores a new vehicle profile.
func (c *Client) CreateVehicle(ctx context.Context, in VehicleInput) (*Vehicle, error) {
	var v Vehicle
	if err := c.authorized(ctx, http.MethodPost, "/api/vehicles", in, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// UpdateVehicle replaces a vehicle profile.
func (c *Client) UpdateVehicle(ctx context.Context, id string, in VehicleInput) (*Vehicle, error) {
	var v Vehicle
	if err := c.authorized(ctx, http.MethodPut, "/api/vehicles/"+url.PathEscape(id), in, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// DeleteVehicle removes a vehicle profile.
func (c *Client) DeleteVehicle(ctx context.Context, id string) error {
	return c.authorized(ctx, http.MethodDelete, "/api/vehicles/"+url.PathEscape(id), nil, nil)
}

// Catalog returns the known models, charger types and user types.
func (c *Client) Catalog(ctx context.Context) (*Catalog, error) {
	var cat Catalog
	if err := c.authorized(ctx, http.MethodGet, "/api/vehicles/catalog", nil, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// ParseVoice extracts a vehicle draft from a transcript. With save set, a
// complete draft is stored; an incomplete one returns the draft together with
// a 422 *APIError so callers can prompt for the missing fields.
func (c *Client) ParseVoice(ctx context.Context, transcript string, save bool) (*VoiceResult, error) {
	var res VoiceResult
	body := map[string]interface{}{"transcript": transcript, "save": save}
	err := c.authorized(ctx, http.MethodPost, "/api/vehicles/voice", body, &res)
	if err == nil {
		return &res, nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnprocessableEntity {
		var wrapped struct {
			Result *VoiceResult `json:"result"`
		}
		if json.Unmarshal(apiErr.Body, &wrapped) == nil && wrapped.Result != nil {
			return wrapped.Result, err
		}
	}
	return nil, err
}

// VoiceCommand recognises a spoken navigation command.
func (c *Client) VoiceCommand(ctx context.Context, transcript string) (*VoiceCommand, error) {
	var cmd VoiceCommand
	body := map[string]string{"transcript": transcript}
	if err := c.authorized(ctx, http.MethodPost, "/api/vehicles/voice/command", body, &cmd); err != nil {
		return nil, err
	}
	return &cmd, nil
}

// DictateEstimate reads duration estimate inputs from a dictated transcript.
func (c *Client) DictateEstimate(ctx context.Context, transcript string) (*Dictation, error) {
	var d Dictation
	body := map[string]string{"transcript": transcript}
	if err := c.authorized(ctx, http.MethodPost, "/api/vehicles/voice/estimate", body, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// EstimateCost estimates the cost of a charge.
func (c *Client) EstimateCost(ctx context.Context, req CostRequest) (*CostEstimate, error) {
	var est CostEstimate
	if err := c.authorized(ctx, http.MethodPost, "/api/estimates/cost", req, &est); err != nil {
		return nil, err
	}
	return &est, nil
}

// EstimateRange estimates the remaining range.
func (c *Client) EstimateRange(ctx context.Context, req RangeRequest) (*RangeEstimate, error) {
	var est RangeEstimate
	if err := c.authorized(ctx, http.MethodPost, "/api/estimates/range", req, &est); err != nil {
		return nil, err
	}
	return &est, nil
}

// EstimateDuration estimates charging time and records it in the history.
func (c *Client) EstimateDuration(ctx context.Context, req DurationRequest) (*DurationEstimate, error) {
	var est DurationEstimate
	if err := c.authorized(ctx, http.MethodPost, "/api/estimates/duration", req, &est); err != nil {
		return nil, err
	}
	return &est, nil
}

// History lists recorded charging sessions, newest first.
func (c *Client) History(ctx context.Context, vehicleModel string) ([]ChargingRecord, error) {
	var res struct {
		Sessions []ChargingRecord `json:"sessions"`
	}
	if err := c.authorized(ctx, http.MethodGet, "/api/history"+modelQuery(vehicleModel), nil, &res); err != nil {
		return nil, err
	}
	return res.Sessions, nil
}
