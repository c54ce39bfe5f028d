// Package catalog lists the vehicle models and charger types known to the
// charging-patterns dataset.
package catalog

import (
	"context"
	"fmt"

	"evcast/backend/libs/dataset"
	"evcast/backend/services/vehicles-service/internal/models"
)

// Catalog holds the choices offered for a vehicle profile.
type Catalog struct {
	Models       []string `json:"models"`
	ChargerTypes []string `json:"charger_types"`
	UserTypes    []string `json:"user_types"`
}

// HasModel reports whether model is a known vehicle model.
func (c *Catalog) HasModel(model string) bool { return contains(c.Models, model) }

// HasChargerType reports whether t is a known charger type.
func (c *Catalog) HasChargerType(t string) bool { return contains(c.ChargerTypes, t) }

// Source yields the current catalog.
type Source interface {
	Catalog(ctx context.Context) (*Catalog, error)
}

// Loader reads the catalog from the dataset file on every call.
type Loader struct {
	path string
}

// NewLoader returns a dataset-backed catalog source.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Catalog implements Source.
func (l *Loader) Catalog(context.Context) (*Catalog, error) {
	table, err := dataset.ReadFile(l.path)
	if err != nil {
		return nil, err
	}
	return FromDataset(table)
}

// FromDataset collects the distinct vehicle models and charger types of table.
func FromDataset(table *dataset.Table) (*Catalog, error) {
	vehicleModels, err := table.Distinct(dataset.ColumnVehicleModel)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	chargers, err := table.Distinct(dataset.ColumnChargerType)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return &Catalog{
		Models:       vehicleModels,
		ChargerTypes: chargers,
		UserTypes:    append([]string(nil), models.UserTypes...),
	}, nil
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
