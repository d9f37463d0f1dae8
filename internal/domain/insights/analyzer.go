// Package insights derives safety warnings and trend observations from a
// profile's history ledger. Pure function of the ledger; rules run
// independently and every applicable one is emitted.
package insights

import (
	"fmt"
	"math"
	"sort"
	"time"

	"fever-tracker/internal/domain/formulary"
	"fever-tracker/internal/domain/profiles"
)

type Kind string

const (
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindSuccess Kind = "success"
	KindTrend   Kind = "trend"
)

type Insight struct {
	ID          string `json:"id"`
	Kind        Kind   `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

const (
	// Temperature readings further apart than this say nothing about a trend.
	trendWindow = 4 * time.Hour
	// Changes smaller than this are noise.
	trendDeltaC = 0.5
)

// Analyze scans the ledger and returns all applicable insights. An empty
// ledger yields none.
func Analyze(p profiles.Profile, now time.Time) []Insight {
	insights := []Insight{}
	if len(p.History) == 0 {
		return insights
	}

	insights = append(insights, doseCountInsights(p.History, now)...)
	if trend, ok := temperatureTrend(p.History); ok {
		insights = append(insights, trend)
	}
	return insights
}

// doseCountInsights applies the count-based 24h ceiling per drug: a warning
// at the ceiling, a heads-up one dose below it. The ceiling is a configured
// count, independent of the mg-based daily limit.
func doseCountInsights(history []profiles.Entry, now time.Time) []Insight {
	cutoff := now.Add(-24 * time.Hour)

	counts := map[formulary.DrugID]int{}
	for _, e := range history {
		if e.Kind != profiles.EntryKindDose || e.Dose == nil {
			continue
		}
		if e.Timestamp.Before(cutoff) {
			continue
		}
		counts[e.Dose.Drug]++
	}

	out := []Insight{}
	for _, drug := range formulary.All() {
		n := counts[drug.ID]
		switch {
		case n >= drug.MaxDosesPerDay:
			out = append(out, Insight{
				ID:          fmt.Sprintf("%s-limit", drug.ID),
				Kind:        KindWarning,
				Title:       fmt.Sprintf("Limit leku %s", drug.Label),
				Description: fmt.Sprintf("Podano %d dawek w ciągu 24h. Zalecany limit to %d dawki.", n, drug.MaxDosesPerDay),
			})
		case n == drug.MaxDosesPerDay-1:
			out = append(out, Insight{
				ID:          fmt.Sprintf("%s-warning", drug.ID),
				Kind:        KindInfo,
				Title:       fmt.Sprintf("%s - uwaga", drug.Label),
				Description: fmt.Sprintf("Pozostała tylko 1 bezpieczna dawka leku %s na dziś.", drug.Label),
			})
		}
	}
	return out
}

// temperatureTrend compares the two most recent temperature-bearing entries.
// Only gaps under the trend window count; a rise is a trend insight, a fall
// means the medication is working.
func temperatureTrend(history []profiles.Entry) (Insight, bool) {
	temps := make([]profiles.Entry, 0, len(history))
	for _, e := range history {
		if e.Temperature != nil {
			temps = append(temps, e)
		}
	}
	if len(temps) < 2 {
		return Insight{}, false
	}

	sort.SliceStable(temps, func(i, j int) bool {
		return temps[i].Timestamp.Before(temps[j].Timestamp)
	})

	last := temps[len(temps)-1]
	prev := temps[len(temps)-2]

	gap := last.Timestamp.Sub(prev.Timestamp)
	if gap >= trendWindow {
		return Insight{}, false
	}

	diff := *last.Temperature - *prev.Temperature
	switch {
	case diff > trendDeltaC:
		return Insight{
			ID:          "temp-rising",
			Kind:        KindTrend,
			Title:       "Temperatura rośnie",
			Description: fmt.Sprintf("Wzrost o %.1f°C w ciągu %.1fh.", diff, gap.Hours()),
		}, true
	case diff < -trendDeltaC:
		return Insight{
			ID:          "temp-falling",
			Kind:        KindSuccess,
			Title:       "Temperatura spada",
			Description: fmt.Sprintf("Spadek o %.1f°C. Leki działają!", math.Abs(diff)),
		}, true
	default:
		return Insight{}, false
	}
}
