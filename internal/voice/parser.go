// Package voice extracts structured readings from dictated free text. Pure
// functions at the boundary; the microphone and recognition stream live
// outside this module.
package voice

import (
	"regexp"
	"strconv"
	"strings"
)

// Reading is a temperature extracted from dictated text.
type Reading struct {
	Celsius float64 `json:"celsius"`
}

// Plausible body temperature range; matches the ledger's validation bounds.
const (
	minCelsius = 35.0
	maxCelsius = 42.0
)

// Dictation renders decimals with either separator ("38.5", "38,5") and
// often inserts words between integer and fraction ("38 i 5").
var tempPattern = regexp.MustCompile(`(\d{2})(?:[.,]\s*(\d)|\s+i\s+(?:pol|pół|(\d)))?`)

// ParseTemperature scans dictated text for the first plausible temperature.
// Returns false when nothing in range is found.
func ParseTemperature(text string) (Reading, bool) {
	text = strings.ToLower(text)

	for _, m := range tempPattern.FindAllStringSubmatch(text, -1) {
		whole, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}

		value := float64(whole)
		switch {
		case m[2] != "":
			frac, _ := strconv.Atoi(m[2])
			value += float64(frac) / 10
		case m[3] != "":
			frac, _ := strconv.Atoi(m[3])
			value += float64(frac) / 10
		case strings.Contains(m[0], " i p"): // "38 i pół"
			value += 0.5
		}

		if value >= minCelsius && value <= maxCelsius {
			return Reading{Celsius: value}, true
		}
	}
	return Reading{}, false
}
