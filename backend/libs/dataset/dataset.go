// Package dataset reads the static EV charging-patterns CSV that backs cost tables and
// vehicle catalogs. Categorical columns appear one-hot encoded as "<Prefix>_<Value>".
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Well-known column names and one-hot prefixes.
const (
	ColumnChargingCost = "Charging Cost (USD)"
	ColumnVehicleModel = "Vehicle Model"
	ColumnChargerType  = "Charger Type"

	PrefixLocation     = "Charging Station Location_"
	PrefixVehicleModel = "Vehicle Model_"
	PrefixChargerType  = "Charger Type_"
	PrefixUserType     = "User Type_"
)

// ErrColumnNotFound is returned when a required column is absent from the header.
var ErrColumnNotFound = errors.New("dataset: column not found")

// Table is an in-memory CSV with a header index.
type Table struct {
	header []string
	index  map[string]int
	rows   [][]string
}

// ReadFile loads a CSV file.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses CSV content; the first record is the header.
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dataset: parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("dataset: empty csv")
	}

	header := records[0]
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	return &Table{header: header, index: index, rows: records[1:]}, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// HasColumn reports whether the header contains name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// ColumnsWithPrefix returns the header names starting with prefix, in header order.
func (t *Table) ColumnsWithPrefix(prefix string) []string {
	var out []string
	for _, name := range t.header {
		name = strings.TrimSpace(name)
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	return out
}

// Value returns the raw cell, or "" if the row is short.
func (t *Table) Value(row int, column string) (string, error) {
	col, ok := t.index[column]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrColumnNotFound, column)
	}
	record := t.rows[row]
	if col >= len(record) {
		return "", nil
	}
	return strings.TrimSpace(record[col]), nil
}

// Float parses the cell as float64.
func (t *Table) Float(row int, column string) (float64, error) {
	raw, err := t.Value(row, column)
	if err != nil {
		return 0, err
	}
	return parseNumber(raw)
}

// ArgMax returns the value suffix of the one-hot column with the largest value in the row.
// The first column wins ties. ok is false when the row has no positive indicator.
func (t *Table) ArgMax(row int, prefix string) (string, bool) {
	columns := t.ColumnsWithPrefix(prefix)
	if len(columns) == 0 {
		return "", false
	}
	values := make([]float64, len(columns))
	for i, column := range columns {
		v, err := t.Float(row, column)
		if err != nil {
			v = 0
		}
		values[i] = v
	}
	best := floats.MaxIdx(values)
	if values[best] <= 0 {
		return "", false
	}
	return strings.TrimPrefix(columns[best], prefix), true
}

// Distinct returns the sorted distinct non-empty values of a plain column, falling back
// to the one-hot prefix "<column>_" when the plain column is absent.
func (t *Table) Distinct(column string) ([]string, error) {
	seen := make(map[string]struct{})
	switch {
	case t.HasColumn(column):
		for i := range t.rows {
			v, _ := t.Value(i, column)
			if v != "" {
				seen[v] = struct{}{}
			}
		}
	default:
		columns := t.ColumnsWithPrefix(column + "_")
		if len(columns) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, column)
		}
		for _, c := range columns {
			seen[strings.TrimPrefix(c, column+"_")] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

func parseNumber(raw string) (float64, error) {
	switch strings.ToLower(raw) {
	case "true":
		return 1, nil
	case "false", "":
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}
