package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"evcast/backend/services/vehicles-service/internal/catalog"
	"evcast/backend/services/vehicles-service/internal/models"
)

type memVehicles struct {
	mu   sync.Mutex
	seq  int
	byID map[string]models.Vehicle
}

func newMemVehicles() *memVehicles {
	return &memVehicles{byID: make(map[string]models.Vehicle)}
}

func (m *memVehicles) Create(_ context.Context, v *models.Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	v.ID = fmt.Sprintf("v-%d", m.seq)
	v.CreatedAt = time.Now()
	v.UpdatedAt = v.CreatedAt
	m.byID[v.ID] = *v
	return nil
}

func (m *memVehicles) Get(_ context.Context, owner, id string) (*models.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.byID[id]
	if !ok || v.OwnerEmail != owner {
		return nil, ErrVehicleNotFound
	}
	return &v, nil
}

func (m *memVehicles) ListByOwner(_ context.Context, owner string) ([]models.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Vehicle{}
	for i := 1; i <= m.seq; i++ {
		if v, ok := m.byID[fmt.Sprintf("v-%d", i)]; ok && v.OwnerEmail == owner {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memVehicles) Update(_ context.Context, v *models.Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[v.ID]
	if !ok || cur.OwnerEmail != v.OwnerEmail {
		return ErrVehicleNotFound
	}
	v.CreatedAt = cur.CreatedAt
	v.UpdatedAt = time.Now()
	m.byID[v.ID] = *v
	return nil
}

func (m *memVehicles) Delete(_ context.Context, owner, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.byID[id]
	if !ok || v.OwnerEmail != owner {
		return ErrVehicleNotFound
	}
	delete(m.byID, id)
	return nil
}

type memHistory struct {
	mu      sync.Mutex
	records []models.ChargingRecord
	failing bool
}

func (m *memHistory) Create(_ context.Context, rec *models.ChargingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errors.New("history unavailable")
	}
	rec.ID = fmt.Sprintf("h-%d", len(m.records)+1)
	m.records = append(m.records, *rec)
	return nil
}

func (m *memHistory) List(_ context.Context, user, vehicleModel string, _ int) ([]models.ChargingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.ChargingRecord{}
	for _, r := range m.records {
		if r.UserEmail == user && (vehicleModel == "" || r.VehicleModel == vehicleModel) {
			out = append(out, r)
		}
	}
	return out, nil
}

type staticCatalog struct {
	cat *catalog.Catalog
	err error
}

func (s staticCatalog) Catalog(context.Context) (*catalog.Catalog, error) {
	return s.cat, s.err
}

var testCatalog = staticCatalog{cat: &catalog.Catalog{
	Models:       []string{"BMW i3", "Nissan Leaf", "Tesla Model 3"},
	ChargerTypes: []string{"DC Fast Charger", "Level 1", "Level 2"},
	UserTypes:    models.UserTypes,
}}
