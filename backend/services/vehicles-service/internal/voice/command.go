package voice

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Intent is the screen a spoken command asks to open.
type Intent string

const (
	IntentDurationEstimate Intent = "duration_estimate"
	IntentCostEstimate     Intent = "cost_estimate"
	IntentVehicleProfile   Intent = "vehicle_profile"
	IntentRangeEstimate    Intent = "range_estimate"
	IntentUnknown          Intent = "unknown"
)

// commandRules are checked in order. A rule matches when the transcript contains
// "deschide" and every one of its words.
var commandRules = []struct {
	words  []string
	intent Intent
	path   string
}{
	{[]string{"durata", "incarcare"}, IntentDurationEstimate, "/estimates/duration"},
	{[]string{"cost", "incarcare"}, IntentCostEstimate, "/estimates/cost"},
	{[]string{"profil", "vehicul"}, IntentVehicleProfile, "/vehicles"},
	{[]string{"km", "ramase"}, IntentRangeEstimate, "/estimates/range"},
}

// Command is a recognised voice command. Path is empty for IntentUnknown.
type Command struct {
	Transcript string `json:"transcript"`
	Intent     Intent `json:"intent"`
	Path       string `json:"path,omitempty"`
}

// ParseCommand maps a transcript such as "deschide durata de încărcare" to an intent.
func ParseCommand(transcript string) Command {
	text := Fold(transcript)
	cmd := Command{Transcript: transcript, Intent: IntentUnknown}
	if !strings.Contains(text, "deschide") {
		return cmd
	}
	for _, rule := range commandRules {
		if containsAll(text, rule.words) {
			cmd.Intent = rule.intent
			cmd.Path = rule.path
			return cmd
		}
	}
	return cmd
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold normalizes text like Normalize and then drops diacritics, so "încărcare"
// and "incarcare" compare equal.
func Fold(text string) string {
	text = Normalize(text)
	folded, _, err := transform.String(stripMarks, text)
	if err != nil {
		return text
	}
	return folded
}

func containsAll(text string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(text, w) {
			return false
		}
	}
	return true
}
