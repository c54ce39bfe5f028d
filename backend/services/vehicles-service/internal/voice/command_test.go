package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		transcript string
		intent     Intent
		path       string
	}{
		{"Deschide durata de încărcare", IntentDurationEstimate, "/estimates/duration"},
		{"deschide durata incarcare", IntentDurationEstimate, "/estimates/duration"},
		{"Te rog deschide costul de încărcare", IntentCostEstimate, "/estimates/cost"},
		{"deschide profilul vehiculului", IntentVehicleProfile, "/vehicles"},
		{"deschide estimarea de km rămase", IntentRangeEstimate, "/estimates/range"},
		{"deschide km rămase", IntentRangeEstimate, "/estimates/range"},
		{"durata de încărcare", IntentUnknown, ""},
		{"deschide fereastra", IntentUnknown, ""},
		{"", IntentUnknown, ""},
	}
	for _, tc := range cases {
		t.Run(tc.transcript, func(t *testing.T) {
			cmd := ParseCommand(tc.transcript)
			assert.Equal(t, tc.intent, cmd.Intent)
			assert.Equal(t, tc.path, cmd.Path)
			assert.Equal(t, tc.transcript, cmd.Transcript)
		})
	}
}

func TestFoldDropsDiacritics(t *testing.T) {
	assert.Equal(t, "incarcare 6 ramase", Fold("Încărcare ȘASE rămase"))
	assert.Equal(t, "6 tari", Fold("șase țări"))
	assert.Equal(t, "5 sofer", Fold("cinci şofer"))
}

func TestParseEstimateFields(t *testing.T) {
	f := ParseEstimateFields("Energie 32,5 kWh, rata de 7, cost 12 USD, start 20 procent, final 80, distanta 150 km")

	require.NotNil(t, f.EnergyKWh)
	assert.Equal(t, 32.5, *f.EnergyKWh)
	require.NotNil(t, f.RateKW)
	assert.Equal(t, 7.0, *f.RateKW)
	require.NotNil(t, f.CostUSD)
	assert.Equal(t, 12.0, *f.CostUSD)
	require.NotNil(t, f.SoCStart)
	assert.Equal(t, 20.0, *f.SoCStart)
	require.NotNil(t, f.SoCEnd)
	assert.Equal(t, 80.0, *f.SoCEnd)
	require.NotNil(t, f.DistanceKm)
	assert.Equal(t, 150.0, *f.DistanceKm)
	assert.Empty(t, f.Missing())
}

func TestParseEstimateFieldsFallbackKeywords(t *testing.T) {
	f := ParseEstimateFields("consum zece, încărcare 11, preț 4.5, început 15")

	require.NotNil(t, f.EnergyKWh)
	assert.Equal(t, 10.0, *f.EnergyKWh)
	require.NotNil(t, f.RateKW)
	assert.Equal(t, 11.0, *f.RateKW)
	require.NotNil(t, f.CostUSD)
	assert.Equal(t, 4.5, *f.CostUSD)
	require.NotNil(t, f.SoCStart)
	assert.Equal(t, 15.0, *f.SoCStart)
	assert.Equal(t, []string{FieldSoCEnd, FieldDistanceKm}, f.Missing())
}

func TestParseEstimateFieldsNothingHeard(t *testing.T) {
	f := ParseEstimateFields("nu știu")
	assert.Len(t, f.Missing(), 6)
	assert.Nil(t, f.EnergyKWh)
}
