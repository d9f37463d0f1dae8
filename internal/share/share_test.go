package share

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"fever-tracker/internal/domain/formulary"
	"fever-tracker/internal/domain/profiles"
)

func sampleProfile(entries int) profiles.Profile {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	p := profiles.Profile{
		ID:       "p-1",
		Name:     "Zosia",
		WeightKg: 12,
	}
	for i := 0; i < entries; i++ {
		temp := 37.0 + float64(i%3)
		p.History = append(p.History, profiles.Entry{
			ID:          fmt.Sprintf("e-%d", i),
			Timestamp:   base.Add(time.Duration(i) * time.Hour),
			Kind:        profiles.EntryKindTemperature,
			Temperature: &temp,
		})
	}
	return p
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	p := sampleProfile(3)
	p.History[1] = profiles.Entry{
		ID:        "e-dose",
		Timestamp: p.History[1].Timestamp,
		Kind:      profiles.EntryKindDose,
		Dose:      &profiles.DoseDetail{Drug: formulary.DrugParacetamol, Amount: 5, Mg: 120, Unit: "ml"},
	}

	code, err := Encode(NewPayload(p))
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	got, err := Decode(code)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if got.V != Version {
		t.Fatalf("expected version %d, got %d", Version, got.V)
	}
	if got.Name != "Zosia" || got.WeightKg != 12 {
		t.Fatalf("profile fields lost: %+v", got)
	}
	if len(got.History) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got.History))
	}
	var dose *profiles.Entry
	for i := range got.History {
		if got.History[i].Kind == profiles.EntryKindDose {
			dose = &got.History[i]
		}
	}
	if dose == nil || dose.Dose == nil || dose.Dose.Drug != formulary.DrugParacetamol {
		t.Fatalf("dose variant lost in transit: %+v", got.History)
	}
}

func TestNewPayload_CapsHistoryNewestFirst(t *testing.T) {
	p := sampleProfile(HistoryLimit + 10)

	payload := NewPayload(p)
	if len(payload.History) != HistoryLimit {
		t.Fatalf("expected %d entries, got %d", HistoryLimit, len(payload.History))
	}
	// Newest entry in the sample is the last appended.
	if payload.History[0].ID != fmt.Sprintf("e-%d", HistoryLimit+9) {
		t.Fatalf("expected newest entry first, got %s", payload.History[0].ID)
	}
}

func TestDecode_RawJSONFallback(t *testing.T) {
	raw, err := json.Marshal(Payload{V: 1, Name: "Zosia", WeightKg: 12, History: []profiles.Entry{}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := Decode(string(raw))
	if err != nil {
		t.Fatalf("Decode raw JSON error: %v", err)
	}
	if got.Name != "Zosia" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestDecode_Malformed(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"not-a-code",
		"eyJ4IjoxfQ",          // base64 of unrelated JSON, no version/history
		`{"n":"Zosia","w":12}`, // raw JSON missing version and history
	}
	for _, code := range cases {
		if _, err := Decode(code); !errors.Is(err, ErrMalformedPayload) {
			t.Fatalf("code %q: expected ErrMalformedPayload, got %v", code, err)
		}
	}
}

func TestQRPNG(t *testing.T) {
	code, err := Encode(NewPayload(sampleProfile(2)))
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	png, err := QRPNG(code, 256)
	if err != nil {
		t.Fatalf("QRPNG error: %v", err)
	}
	if len(png) == 0 {
		t.Fatalf("expected non-empty PNG")
	}
	// PNG magic bytes.
	if png[0] != 0x89 || string(png[1:4]) != "PNG" {
		t.Fatalf("expected PNG header, got % x", png[:4])
	}
}
