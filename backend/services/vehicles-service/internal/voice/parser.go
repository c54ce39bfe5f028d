// Package voice extracts vehicle profile fields from a Romanian speech transcript.
package voice

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"evcast/backend/services/vehicles-service/internal/models"
)

// Field names reported by Draft.Missing.
const (
	FieldModel       = "model"
	FieldBatteryKWh  = "battery_kwh"
	FieldAgeYears    = "age_years"
	FieldChargerType = "charger_type"
	FieldUserType    = "user_type"
)

var numberWords = map[string]string{
	"un": "1", "unu": "1",
	"doi": "2", "două": "2",
	"trei":  "3",
	"patru": "4",
	"cinci": "5",
	"șase":  "6", "şase": "6",
	"șapte": "7", "şapte": "7",
	"opt":  "8",
	"nouă": "9",
	"zece": "10",
}

// userTypeKeywords is checked in order; the first keyword found wins.
var userTypeKeywords = []struct {
	keyword  string
	userType string
}{
	{"comuter", models.UserTypeCommuter},
	{"commuter", models.UserTypeCommuter},
	{"comutator", models.UserTypeCommuter},
	{"long distance", models.UserTypeLongDistance},
	{"long-distance", models.UserTypeLongDistance},
	{"casual", models.UserTypeCasual},
	{"sofer casual", models.UserTypeCasual},
	{"șofer casual", models.UserTypeCasual},
}

var (
	batteryPattern = regexp.MustCompile(`(\d+)\s*(?:kwh|kw)`)
	agePattern     = regexp.MustCompile(`(\d+)\s*(?:ani|an)`)
)

// Draft is what could be recognised in a transcript. Nil or empty fields were not found.
type Draft struct {
	Transcript  string   `json:"transcript"`
	Model       string   `json:"model,omitempty"`
	BatteryKWh  *float64 `json:"battery_kwh,omitempty"`
	AgeYears    *int     `json:"age_years,omitempty"`
	ChargerType string   `json:"charger_type,omitempty"`
	UserType    string   `json:"user_type,omitempty"`
}

// Missing lists the fields the transcript did not provide.
func (d Draft) Missing() []string {
	var missing []string
	if d.Model == "" {
		missing = append(missing, FieldModel)
	}
	if d.BatteryKWh == nil {
		missing = append(missing, FieldBatteryKWh)
	}
	if d.AgeYears == nil {
		missing = append(missing, FieldAgeYears)
	}
	if d.ChargerType == "" {
		missing = append(missing, FieldChargerType)
	}
	if d.UserType == "" {
		missing = append(missing, FieldUserType)
	}
	return missing
}

// Complete reports whether every field was recognised.
func (d Draft) Complete() bool { return len(d.Missing()) == 0 }

// Vehicle converts a complete draft into a vehicle profile for owner.
func (d Draft) Vehicle(owner string) (models.Vehicle, bool) {
	if !d.Complete() {
		return models.Vehicle{}, false
	}
	return models.Vehicle{
		OwnerEmail:  owner,
		Model:       d.Model,
		BatteryKWh:  *d.BatteryKWh,
		AgeYears:    *d.AgeYears,
		ChargerType: d.ChargerType,
		UserType:    d.UserType,
	}, true
}

// Parser matches transcripts against a catalog.
type Parser struct {
	models   []string
	chargers []string
}

// NewParser prepares a parser for the known vehicle models and charger types. Names
// are tried longest first so that "Tesla Model 3 Long Range" wins over "Tesla Model 3".
func NewParser(vehicleModels, chargerTypes []string) *Parser {
	return &Parser{
		models:   longestFirst(vehicleModels),
		chargers: longestFirst(chargerTypes),
	}
}

// Parse extracts a draft from transcript.
func (p *Parser) Parse(transcript string) Draft {
	text := Normalize(transcript)
	draft := Draft{Transcript: transcript}

	draft.Model = matchName(text, p.models)
	draft.ChargerType = matchName(text, p.chargers)

	if m := batteryPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			draft.BatteryKWh = &v
		}
	}
	if m := agePattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			draft.AgeYears = &v
		}
	}
	draft.UserType = detectUserType(text)
	return draft
}

// Normalize lower-cases text and replaces whole Romanian number words with digits.
func Normalize(text string) string {
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	var word []rune
	flush := func() {
		if len(word) == 0 {
			return
		}
		w := string(word)
		if digit, ok := numberWords[w]; ok {
			w = digit
		}
		b.WriteString(w)
		word = word[:0]
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			word = append(word, r)
			continue
		}
		flush()
		b.WriteRune(r)
	}
	flush()
	return b.String()
}

func detectUserType(text string) string {
	for _, k := range userTypeKeywords {
		if strings.Contains(text, k.keyword) {
			return k.userType
		}
	}
	switch {
	case strings.Contains(text, "comut"):
		return models.UserTypeCommuter
	case strings.Contains(text, "long") && strings.Contains(text, "distance"):
		return models.UserTypeLongDistance
	}
	return ""
}

func matchName(text string, names []string) string {
	for _, name := range names {
		if strings.Contains(text, strings.ToLower(name)) {
			return name
		}
	}
	return ""
}

func longestFirst(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) != "" {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}
