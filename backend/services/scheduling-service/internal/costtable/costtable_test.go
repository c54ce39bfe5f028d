package costtable

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evcast/backend/libs/dataset"
)

const patternsCSV = `Charging Cost (USD),Charging Station Location_Houston,Charging Station Location_Los Angeles,Charging Station Location_New York
10,1,0,0
14,1,0,0
5,0,1,0
7,0,1,0
6,0,0,1
oops,0,0,1
3,0,0,0
`

func TestLoaderAveragesPerLocation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.csv")
	require.NoError(t, os.WriteFile(path, []byte(patternsCSV), 0o644))

	table, err := NewLoader(path).Load()
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())

	ranked := table.Ranked()
	assert.Equal(t, "Los Angeles", ranked[0].Location)
	assert.InDelta(t, 6, ranked[0].MeanCost, 1e-9)
	assert.Equal(t, 2, ranked[0].Sessions)

	assert.Equal(t, "New York", ranked[1].Location)
	assert.Equal(t, 1, ranked[1].Sessions)

	assert.Equal(t, "Houston", ranked[2].Location)
	assert.InDelta(t, 12, ranked[2].MeanCost, 1e-9)
}

func TestTiesAreLexicographic(t *testing.T) {
	table := FromCosts(map[string]float64{"Zagreb": 5, "Arad": 5, "Cluj": 4})
	ranked := table.Ranked()
	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"Cluj", "Arad", "Zagreb"}, []string{ranked[0].Location, ranked[1].Location, ranked[2].Location})
}

func TestFromDatasetErrors(t *testing.T) {
	noCost, err := dataset.Read(strings.NewReader("Charging Station Location_Houston\n1\n"))
	require.NoError(t, err)
	_, err = FromDataset(noCost)
	assert.ErrorIs(t, err, dataset.ErrColumnNotFound)

	noLoc, err := dataset.Read(strings.NewReader("Charging Cost (USD)\n1\n"))
	require.NoError(t, err)
	_, err = FromDataset(noLoc)
	assert.ErrorIs(t, err, ErrNoLocations)

	empty, err := dataset.Read(strings.NewReader("Charging Cost (USD),Charging Station Location_Houston\n1,0\n"))
	require.NoError(t, err)
	_, err = FromDataset(empty)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestLoaderMissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "none.csv")).Load()
	assert.Error(t, err)
}
