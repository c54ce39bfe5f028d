package voice

import (
	"regexp"
	"strconv"
	"strings"
)

// Field names reported by EstimateFields.Missing.
const (
	FieldEnergyKWh  = "energy_kwh"
	FieldRateKW     = "charging_rate_kw"
	FieldCostUSD    = "cost_usd"
	FieldSoCStart   = "soc_start"
	FieldSoCEnd     = "soc_end"
	FieldDistanceKm = "distance_km"
)

// dictationKeywords lists, per field, the words a value may follow. The first
// keyword followed by a number wins.
var dictationKeywords = []struct {
	field    string
	keywords []string
}{
	{FieldEnergyKWh, []string{"energie", "consum", "kwh"}},
	{FieldRateKW, []string{"rata", "incarcare", "kw"}},
	{FieldCostUSD, []string{"cost", "pret", "usd"}},
	{FieldSoCStart, []string{"start", "inceput", "procent"}},
	{FieldSoCEnd, []string{"final", "sfarsit", "procent"}},
	{FieldDistanceKm, []string{"distanta", "km"}},
}

var dictationPatterns = func() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp)
	for _, f := range dictationKeywords {
		for _, k := range f.keywords {
			out[k] = regexp.MustCompile(regexp.QuoteMeta(k) + `\s*(?:de\s+|:\s*)?(\d+(?:[.,]\d+)?)`)
		}
	}
	return out
}()

// EstimateFields are the duration estimate inputs read from a dictated transcript.
// Nil fields were not heard.
type EstimateFields struct {
	Transcript string   `json:"transcript"`
	EnergyKWh  *float64 `json:"energy_kwh,omitempty"`
	RateKW     *float64 `json:"charging_rate_kw,omitempty"`
	CostUSD    *float64 `json:"cost_usd,omitempty"`
	SoCStart   *float64 `json:"soc_start,omitempty"`
	SoCEnd     *float64 `json:"soc_end,omitempty"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

func (f *EstimateFields) target(field string) **float64 {
	switch field {
	case FieldEnergyKWh:
		return &f.EnergyKWh
	case FieldRateKW:
		return &f.RateKW
	case FieldCostUSD:
		return &f.CostUSD
	case FieldSoCStart:
		return &f.SoCStart
	case FieldSoCEnd:
		return &f.SoCEnd
	case FieldDistanceKm:
		return &f.DistanceKm
	}
	return nil
}

// Missing lists the fields the transcript did not provide.
func (f EstimateFields) Missing() []string {
	missing := []string{}
	for _, k := range dictationKeywords {
		if *f.target(k.field) == nil {
			missing = append(missing, k.field)
		}
	}
	return missing
}

// ParseEstimateFields reads "energie 30 rata 7 start 20 final 80" style dictation.
func ParseEstimateFields(transcript string) EstimateFields {
	text := Fold(transcript)
	fields := EstimateFields{Transcript: transcript}
	for _, f := range dictationKeywords {
		for _, k := range f.keywords {
			m := dictationPatterns[k].FindStringSubmatch(text)
			if m == nil {
				continue
			}
			v, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
			if err != nil {
				continue
			}
			*fields.target(f.field) = &v
			break
		}
	}
	return fields
}
