package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"evcast/backend/services/vehicles-service/internal/catalog"
	"evcast/backend/services/vehicles-service/internal/models"
	"evcast/backend/services/vehicles-service/internal/repository"
	"evcast/backend/services/vehicles-service/internal/voice"
)

var (
	// ErrInvalidInput wraps validation failures.
	ErrInvalidInput = errors.New("vehicles: invalid input")
	// ErrIncompleteDraft is returned when a voice transcript lacks profile fields.
	ErrIncompleteDraft = errors.New("vehicles: transcript is missing fields")
	// ErrVehicleNotFound is returned for unknown or foreign vehicles.
	ErrVehicleNotFound = repository.ErrVehicleNotFound
)

// VehicleStore persists vehicle profiles.
type VehicleStore interface {
	Create(ctx context.Context, v *models.Vehicle) error
	Get(ctx context.Context, owner, id string) (*models.Vehicle, error)
	ListByOwner(ctx context.Context, owner string) ([]models.Vehicle, error)
	Update(ctx context.Context, v *models.Vehicle) error
	Delete(ctx context.Context, owner, id string) error
}

// VehicleInput carries the five profile fields.
type VehicleInput struct {
	Model       string  `json:"model"`
	BatteryKWh  float64 `json:"battery_kwh"`
	AgeYears    int     `json:"age_years"`
	ChargerType string  `json:"charger_type"`
	UserType    string  `json:"user_type"`
}

func (in VehicleInput) normalize() VehicleInput {
	in.Model = strings.TrimSpace(in.Model)
	in.ChargerType = strings.TrimSpace(in.ChargerType)
	in.UserType = strings.TrimSpace(in.UserType)
	return in
}

func (in VehicleInput) validate() error {
	var missing []string
	if in.Model == "" {
		missing = append(missing, voice.FieldModel)
	}
	if in.BatteryKWh <= 0 {
		missing = append(missing, voice.FieldBatteryKWh)
	}
	if in.ChargerType == "" {
		missing = append(missing, voice.FieldChargerType)
	}
	if in.UserType == "" {
		missing = append(missing, voice.FieldUserType)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: required fields: %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	if in.AgeYears < 0 {
		return fmt.Errorf("%w: age_years must not be negative", ErrInvalidInput)
	}
	if !models.ValidUserType(in.UserType) {
		return fmt.Errorf("%w: user_type must be one of %s", ErrInvalidInput, strings.Join(models.UserTypes, ", "))
	}
	return nil
}

// VoiceResult is a parsed transcript and, when complete and saved, the new vehicle.
type VoiceResult struct {
	Draft   voice.Draft     `json:"draft"`
	Missing []string        `json:"missing"`
	Vehicle *models.Vehicle `json:"vehicle,omitempty"`
}

// DictationResult is what a dictated estimate transcript provided.
type DictationResult struct {
	Fields  voice.EstimateFields `json:"fields"`
	Missing []string             `json:"missing"`
}

// VehicleService manages vehicle profiles.
type VehicleService struct {
	vehicles VehicleStore
	catalog  catalog.Source
	logger   *zap.Logger
}

// NewVehicleService builds service.
func NewVehicleService(vehicles VehicleStore, source catalog.Source, logger *zap.Logger) *VehicleService {
	return &VehicleService{
		vehicles: vehicles,
		catalog:  source,
		logger:   logger,
	}
}

// Create stores a new vehicle profile for owner.
func (s *VehicleService) Create(ctx context.Context, owner string, in VehicleInput) (*models.Vehicle, error) {
	in = in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	v := &models.Vehicle{
		OwnerEmail:  owner,
		Model:       in.Model,
		BatteryKWh:  in.BatteryKWh,
		AgeYears:    in.AgeYears,
		ChargerType: in.ChargerType,
		UserType:    in.UserType,
	}
	if err := s.vehicles.Create(ctx, v); err != nil {
		return nil, err
	}
	s.logger.Info("vehicle created",
		zap.String("email", owner),
		zap.String("vehicle_id", v.ID),
		zap.String("model", v.Model),
	)
	return v, nil
}

// List returns owner's vehicles.
func (s *VehicleService) List(ctx context.Context, owner string) ([]models.Vehicle, error) {
	return s.vehicles.ListByOwner(ctx, owner)
}

// Get returns one vehicle of owner.
func (s *VehicleService) Get(ctx context.Context, owner, id string) (*models.Vehicle, error) {
	return s.vehicles.Get(ctx, owner, id)
}

// Update replaces the profile fields of an owned vehicle.
func (s *VehicleService) Update(ctx context.Context, owner, id string, in VehicleInput) (*models.Vehicle, error) {
	in = in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	v := &models.Vehicle{
		ID:          id,
		OwnerEmail:  owner,
		Model:       in.Model,
		BatteryKWh:  in.BatteryKWh,
		AgeYears:    in.AgeYears,
		ChargerType: in.ChargerType,
		UserType:    in.UserType,
	}
	if err := s.vehicles.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Delete removes an owned vehicle.
func (s *VehicleService) Delete(ctx context.Context, owner, id string) error {
	if err := s.vehicles.Delete(ctx, owner, id); err != nil {
		return err
	}
	s.logger.Info("vehicle deleted", zap.String("email", owner), zap.String("vehicle_id", id))
	return nil
}

// Catalog returns the known vehicle models, charger types and user types.
func (s *VehicleService) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	return s.catalog.Catalog(ctx)
}

// ParseVoice extracts profile fields from transcript. When save is set and every field
// was recognised the vehicle is stored; an incomplete draft then yields ErrIncompleteDraft
// together with the result.
func (s *VehicleService) ParseVoice(ctx context.Context, owner, transcript string, save bool) (*VoiceResult, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, fmt.Errorf("%w: transcript is empty", ErrInvalidInput)
	}
	cat, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	draft := voice.NewParser(cat.Models, cat.ChargerTypes).Parse(transcript)
	result := &VoiceResult{Draft: draft, Missing: draft.Missing()}
	if result.Missing == nil {
		result.Missing = []string{}
	}
	if !save {
		return result, nil
	}
	if !draft.Complete() {
		return result, fmt.Errorf("%w: %s", ErrIncompleteDraft, strings.Join(result.Missing, ", "))
	}

	v, _ := draft.Vehicle(owner)
	saved, err := s.Create(ctx, owner, VehicleInput{
		Model:       v.Model,
		BatteryKWh:  v.BatteryKWh,
		AgeYears:    v.AgeYears,
		ChargerType: v.ChargerType,
		UserType:    v.UserType,
	})
	if err != nil {
		return result, err
	}
	result.Vehicle = saved
	return result, nil
}

// ParseCommand recognises a spoken navigation command such as "deschide durata de incarcare".
func (s *VehicleService) ParseCommand(transcript string) (*voice.Command, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, fmt.Errorf("%w: transcript is empty", ErrInvalidInput)
	}
	cmd := voice.ParseCommand(transcript)
	if cmd.Intent == voice.IntentUnknown {
		s.logger.Debug("voice command not recognised", zap.String("transcript", transcript))
	}
	return &cmd, nil
}

// ParseDictation reads duration estimate inputs from a dictated transcript.
func (s *VehicleService) ParseDictation(transcript string) (*DictationResult, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, fmt.Errorf("%w: transcript is empty", ErrInvalidInput)
	}
	fields := voice.ParseEstimateFields(transcript)
	return &DictationResult{Fields: fields, Missing: fields.Missing()}, nil
}
