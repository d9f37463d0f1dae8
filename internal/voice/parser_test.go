package voice

import "testing"

func TestParseTemperature(t *testing.T) {
	cases := []struct {
		text string
		want float64
	}{
		{"temperatura 38.5", 38.5},
		{"38,5 stopnia", 38.5},
		{"trzydzieści osiem... 38 i 5", 38.5},
		{"ma 38 i pół stopnia", 38.5},
		{"ma 38 i pol", 38.5},
		{"gorączka 40", 40},
		{"zmierzyłam 36,6 wieczorem", 36.6},
		{"Temperatura 39.1 o 21:00", 39.1},
	}
	for _, tc := range cases {
		got, ok := ParseTemperature(tc.text)
		if !ok {
			t.Fatalf("%q: expected a reading", tc.text)
		}
		if got.Celsius != tc.want {
			t.Fatalf("%q: expected %v, got %v", tc.text, tc.want, got.Celsius)
		}
	}
}

func TestParseTemperature_SkipsImplausibleNumbers(t *testing.T) {
	// First two-digit number is out of range; the in-range one later wins.
	got, ok := ParseTemperature("o godzinie 21 temperatura 38.2")
	if !ok {
		t.Fatalf("expected a reading")
	}
	if got.Celsius != 38.2 {
		t.Fatalf("expected 38.2, got %v", got.Celsius)
	}
}

func TestParseTemperature_NothingPlausible(t *testing.T) {
	cases := []string{
		"",
		"dziecko śpi spokojnie",
		"temperatura 50 stopni", // out of range
		"ma 20 lat",
	}
	for _, text := range cases {
		if _, ok := ParseTemperature(text); ok {
			t.Fatalf("%q: expected no reading", text)
		}
	}
}
