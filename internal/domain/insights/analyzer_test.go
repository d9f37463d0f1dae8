package insights

import (
	"testing"
	"time"

	"fever-tracker/internal/domain/formulary"
	"fever-tracker/internal/domain/profiles"
)

func doseAt(drug formulary.DrugID, ts time.Time) profiles.Entry {
	return profiles.Entry{
		ID:        "d-" + ts.Format("150405"),
		Timestamp: ts,
		Kind:      profiles.EntryKindDose,
		Dose:      &profiles.DoseDetail{Drug: drug, Amount: 5, Mg: 120, Unit: "ml"},
	}
}

func tempAt(celsius float64, ts time.Time) profiles.Entry {
	return profiles.Entry{
		ID:          "t-" + ts.Format("150405"),
		Timestamp:   ts,
		Kind:        profiles.EntryKindTemperature,
		Temperature: &celsius,
	}
}

func findInsight(insights []Insight, id string) (Insight, bool) {
	for _, in := range insights {
		if in.ID == id {
			return in, true
		}
	}
	return Insight{}, false
}

func TestAnalyze_EmptyLedger(t *testing.T) {
	got := Analyze(profiles.Profile{}, time.Now())
	if got == nil {
		t.Fatalf("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Fatalf("expected no insights, got %v", got)
	}
}

func TestAnalyze_DoseCountCeiling(t *testing.T) {
	now := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)

	// Paracetamol ceiling is 4 per 24h.
	history := []profiles.Entry{
		doseAt(formulary.DrugParacetamol, now.Add(-20*time.Hour)),
		doseAt(formulary.DrugParacetamol, now.Add(-15*time.Hour)),
		doseAt(formulary.DrugParacetamol, now.Add(-10*time.Hour)),
		doseAt(formulary.DrugParacetamol, now.Add(-5*time.Hour)),
	}

	insights := Analyze(profiles.Profile{History: history}, now)
	if _, ok := findInsight(insights, "Paracetamol-limit"); !ok {
		t.Fatalf("expected limit warning at 4 doses, got %v", insights)
	}
	if _, ok := findInsight(insights, "Paracetamol-warning"); ok {
		t.Fatalf("warning and limit must not both fire")
	}
}

func TestAnalyze_OneDoseRemaining(t *testing.T) {
	now := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)

	history := []profiles.Entry{
		doseAt(formulary.DrugParacetamol, now.Add(-12*time.Hour)),
		doseAt(formulary.DrugParacetamol, now.Add(-8*time.Hour)),
		doseAt(formulary.DrugParacetamol, now.Add(-4*time.Hour)),
	}

	insights := Analyze(profiles.Profile{History: history}, now)
	in, ok := findInsight(insights, "Paracetamol-warning")
	if !ok {
		t.Fatalf("expected one-remaining notice at 3 of 4 doses, got %v", insights)
	}
	if in.Kind != KindInfo {
		t.Fatalf("expected info kind, got %s", in.Kind)
	}
}

func TestAnalyze_IbuprofenCeilingIsThree(t *testing.T) {
	now := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)

	history := []profiles.Entry{
		doseAt(formulary.DrugIbuprofen, now.Add(-18*time.Hour)),
		doseAt(formulary.DrugIbuprofen, now.Add(-12*time.Hour)),
		doseAt(formulary.DrugIbuprofen, now.Add(-6*time.Hour)),
	}

	insights := Analyze(profiles.Profile{History: history}, now)
	if _, ok := findInsight(insights, "Ibuprofen-limit"); !ok {
		t.Fatalf("expected ibuprofen limit at 3 doses, got %v", insights)
	}
}

func TestAnalyze_OldDosesFallOutOfWindow(t *testing.T) {
	now := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)

	history := []profiles.Entry{
		doseAt(formulary.DrugParacetamol, now.Add(-30*time.Hour)),
		doseAt(formulary.DrugParacetamol, now.Add(-26*time.Hour)),
		doseAt(formulary.DrugParacetamol, now.Add(-2*time.Hour)),
	}

	insights := Analyze(profiles.Profile{History: history}, now)
	if _, ok := findInsight(insights, "Paracetamol-limit"); ok {
		t.Fatalf("doses older than 24h must not count, got %v", insights)
	}
	if _, ok := findInsight(insights, "Paracetamol-warning"); ok {
		t.Fatalf("1 dose in window is below the notice threshold, got %v", insights)
	}
}

func TestAnalyze_TemperatureRising(t *testing.T) {
	now := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)

	history := []profiles.Entry{
		tempAt(37.5, now.Add(-3*time.Hour)),
		tempAt(38.7, now.Add(-1*time.Hour)),
	}

	insights := Analyze(profiles.Profile{History: history}, now)
	in, ok := findInsight(insights, "temp-rising")
	if !ok {
		t.Fatalf("expected rising trend for +1.2°C in 2h, got %v", insights)
	}
	if in.Kind != KindTrend {
		t.Fatalf("expected trend kind, got %s", in.Kind)
	}
}

func TestAnalyze_TemperatureFalling(t *testing.T) {
	now := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)

	history := []profiles.Entry{
		tempAt(39.2, now.Add(-2*time.Hour)),
		tempAt(38.0, now.Add(-30*time.Minute)),
	}

	insights := Analyze(profiles.Profile{History: history}, now)
	in, ok := findInsight(insights, "temp-falling")
	if !ok {
		t.Fatalf("expected falling trend, got %v", insights)
	}
	if in.Kind != KindSuccess {
		t.Fatalf("expected success kind, got %s", in.Kind)
	}
}

func TestAnalyze_TrendIgnoresWideGapsAndNoise(t *testing.T) {
	now := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)

	// Readings 4h apart: window excludes them.
	wide := []profiles.Entry{
		tempAt(37.0, now.Add(-5*time.Hour)),
		tempAt(39.0, now.Add(-1*time.Hour)),
	}
	if got := Analyze(profiles.Profile{History: wide}, now); len(got) != 0 {
		t.Fatalf("expected no trend for 4h gap, got %v", got)
	}

	// Change of exactly 0.5°C is noise.
	noise := []profiles.Entry{
		tempAt(37.5, now.Add(-2*time.Hour)),
		tempAt(38.0, now.Add(-1*time.Hour)),
	}
	if got := Analyze(profiles.Profile{History: noise}, now); len(got) != 0 {
		t.Fatalf("expected no trend for 0.5°C delta, got %v", got)
	}
}

func TestAnalyze_TrendUsesTemperatureOnDoseEntries(t *testing.T) {
	now := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)

	dose := doseAt(formulary.DrugParacetamol, now.Add(-2*time.Hour))
	temp := 37.2
	dose.Temperature = &temp

	history := []profiles.Entry{
		dose,
		tempAt(38.5, now.Add(-30*time.Minute)),
	}

	insights := Analyze(profiles.Profile{History: history}, now)
	if _, ok := findInsight(insights, "temp-rising"); !ok {
		t.Fatalf("temperature recorded with a dose must feed the trend, got %v", insights)
	}
}
