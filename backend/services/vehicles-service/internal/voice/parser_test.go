package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evcast/backend/services/vehicles-service/internal/models"
)

var (
	vehicleModels = []string{"BMW i3", "Nissan Leaf", "Tesla Model 3", "Tesla Model 3 Long Range"}
	chargerTypes  = []string{"DC Fast Charger", "Level 1", "Level 2"}
)

func TestNormalizeNumberWords(t *testing.T) {
	assert.Equal(t, "1 tesla de 3 ani", Normalize("Un Tesla de trei ani"))
	assert.Equal(t, "2 ani și 10 luni", Normalize("două ani și zece luni"))
	assert.Equal(t, "6 7 9", Normalize("șase șapte nouă"))
	// number words inside longer words stay untouched
	assert.Equal(t, "unde doilea", Normalize("unde doilea"))
}

func TestParseCompleteTranscript(t *testing.T) {
	p := NewParser(vehicleModels, chargerTypes)
	d := p.Parse("Am un Nissan Leaf de 40 kWh, are trei ani, folosesc Level 2 și sunt commuter")

	assert.Equal(t, "Nissan Leaf", d.Model)
	require.NotNil(t, d.BatteryKWh)
	assert.Equal(t, 40.0, *d.BatteryKWh)
	require.NotNil(t, d.AgeYears)
	assert.Equal(t, 3, *d.AgeYears)
	assert.Equal(t, "Level 2", d.ChargerType)
	assert.Equal(t, models.UserTypeCommuter, d.UserType)
	assert.True(t, d.Complete())

	v, ok := d.Vehicle("ana@example.com")
	require.True(t, ok)
	assert.Equal(t, "ana@example.com", v.OwnerEmail)
	assert.Equal(t, 40.0, v.BatteryKWh)
}

func TestParsePrefersLongestModel(t *testing.T) {
	p := NewParser(vehicleModels, chargerTypes)
	d := p.Parse("tesla model 3 long range cu 82 kw")
	assert.Equal(t, "Tesla Model 3 Long Range", d.Model)
	require.NotNil(t, d.BatteryKWh)
	assert.Equal(t, 82.0, *d.BatteryKWh)
}

func TestParseUserTypeFallbacks(t *testing.T) {
	p := NewParser(vehicleModels, chargerTypes)
	cases := map[string]string{
		"fac naveta, sunt comutant":      models.UserTypeCommuter,
		"long trips, distance mare":      models.UserTypeLongDistance,
		"sunt un sofer casual":           models.UserTypeCasual,
		"conduc long-distance des":       models.UserTypeLongDistance,
		"nimic despre stilul de condus": "",
	}
	for transcript, want := range cases {
		assert.Equal(t, want, p.Parse(transcript).UserType, transcript)
	}
}

func TestParseReportsMissing(t *testing.T) {
	p := NewParser(vehicleModels, chargerTypes)
	d := p.Parse("am un BMW i3")

	assert.Equal(t, "BMW i3", d.Model)
	assert.Equal(t, []string{FieldBatteryKWh, FieldAgeYears, FieldChargerType, FieldUserType}, d.Missing())
	_, ok := d.Vehicle("ana@example.com")
	assert.False(t, ok)
}
