package formulary

import "testing"

func TestGet_RegisteredDrugs(t *testing.T) {
	for _, id := range []DrugID{DrugParacetamol, DrugIbuprofen} {
		d, ok := Get(id)
		if !ok {
			t.Fatalf("expected %s registered", id)
		}
		if d.MaxDosesPerDay <= 0 {
			t.Fatalf("%s: missing dose-count ceiling", id)
		}
		if len(d.Pediatric.Concentrations) == 0 || len(d.Adult.Concentrations) == 0 {
			t.Fatalf("%s: both bands need concentrations", id)
		}
	}
}

func TestGet_MetamizoleIsReservedOnly(t *testing.T) {
	if _, ok := Get(DrugMetamizole); ok {
		t.Fatalf("metamizole must not carry dosing data")
	}
}

func TestBandFor_WeightThreshold(t *testing.T) {
	d, _ := Get(DrugParacetamol)

	if _, ok := d.BandFor(39.9).Rule.(PerWeight); !ok {
		t.Fatalf("expected per-weight rule below the threshold")
	}
	if _, ok := d.BandFor(40).Rule.(FixedAdult); !ok {
		t.Fatalf("expected fixed adult rule at exactly the threshold")
	}
}

func TestConcentrationByLabel_SearchesBothBands(t *testing.T) {
	d, _ := Get(DrugIbuprofen)

	if _, ok := d.ConcentrationByLabel("Syrop 100mg/5ml (Ibum, Nurofen, Ibufen)"); !ok {
		t.Fatalf("expected pediatric concentration found")
	}
	if _, ok := d.ConcentrationByLabel("Tabletka 400mg"); !ok {
		t.Fatalf("expected adult concentration found")
	}
	if _, ok := d.ConcentrationByLabel("nie ma"); ok {
		t.Fatalf("expected miss for unknown label")
	}
}

func TestForm_Unit(t *testing.T) {
	cases := map[Form]string{
		FormSyrup:       "ml",
		FormDrops:       "ml",
		FormSuppository: "czopek",
		FormTablet:      "szt.",
		FormPiece:       "szt.",
	}
	for form, want := range cases {
		if got := form.Unit(); got != want {
			t.Fatalf("%s: expected %q, got %q", form, want, got)
		}
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	a := All()
	if len(a) != 2 {
		t.Fatalf("expected 2 drugs, got %d", len(a))
	}
	a[0].MaxDosesPerDay = 99
	b := All()
	if b[0].MaxDosesPerDay == 99 {
		t.Fatalf("All must not expose the registry backing array")
	}
}
