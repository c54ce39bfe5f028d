// Package costtable derives the average historical charging cost per station location
// from the static charging-patterns CSV.
package costtable

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"evcast/backend/libs/dataset"
)

var (
	// ErrNoLocations is returned when the CSV carries no location one-hot columns.
	ErrNoLocations = errors.New("costtable: no location columns")
	// ErrEmpty is returned when no row yields a usable (location, cost) pair.
	ErrEmpty = errors.New("costtable: no usable rows")
)

// Entry is one location with its mean historical cost.
type Entry struct {
	Location string  `json:"location"`
	MeanCost float64 `json:"mean_cost"`
	Sessions int     `json:"sessions"`
}

// Table holds entries ranked by (mean cost asc, location asc).
type Table struct {
	entries []Entry
}

// Loader rebuilds the table from a CSV file on every call.
type Loader struct {
	path string
}

// NewLoader returns a loader for the CSV at path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads the CSV and builds a fresh table.
func (l *Loader) Load() (*Table, error) {
	data, err := dataset.ReadFile(l.path)
	if err != nil {
		return nil, err
	}
	return FromDataset(data)
}

// FromDataset aggregates costs per arg-max location.
func FromDataset(data *dataset.Table) (*Table, error) {
	if !data.HasColumn(dataset.ColumnChargingCost) {
		return nil, fmt.Errorf("costtable: %w: %s", dataset.ErrColumnNotFound, dataset.ColumnChargingCost)
	}
	if len(data.ColumnsWithPrefix(dataset.PrefixLocation)) == 0 {
		return nil, ErrNoLocations
	}

	costs := make(map[string][]float64)
	for row := 0; row < data.Len(); row++ {
		location, ok := data.ArgMax(row, dataset.PrefixLocation)
		if !ok {
			continue
		}
		cost, err := data.Float(row, dataset.ColumnChargingCost)
		if err != nil {
			continue
		}
		costs[location] = append(costs[location], cost)
	}

	entries := make([]Entry, 0, len(costs))
	for location, values := range costs {
		entries = append(entries, Entry{
			Location: location,
			MeanCost: stat.Mean(values, nil),
			Sessions: len(values),
		})
	}
	if len(entries) == 0 {
		return nil, ErrEmpty
	}
	return New(entries), nil
}

// New builds a ranked table from raw entries.
func New(entries []Entry) *Table {
	ranked := make([]Entry, len(entries))
	copy(ranked, entries)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].MeanCost != ranked[j].MeanCost {
			return ranked[i].MeanCost < ranked[j].MeanCost
		}
		return ranked[i].Location < ranked[j].Location
	})
	return &Table{entries: ranked}
}

// FromCosts builds a table from a location→cost map.
func FromCosts(costs map[string]float64) *Table {
	entries := make([]Entry, 0, len(costs))
	for location, cost := range costs {
		entries = append(entries, Entry{Location: location, MeanCost: cost})
	}
	return New(entries)
}

// Ranked returns entries cheapest first.
func (t *Table) Ranked() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of locations.
func (t *Table) Len() int { return len(t.entries) }
