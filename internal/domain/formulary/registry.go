package formulary

// Dosing data follows Polish pediatric OTC guidelines. Interval hours are
// configuration: confirm against an authoritative dosing reference before
// changing them.
var registry = []Drug{
	{
		ID:          DrugParacetamol,
		Label:       "Paracetamol",
		Description: []string{"Przeciwbólowy", "Przeciwgorączkowy"},
		Pediatric: Band{
			Label: "Paracetamol",
			Concentrations: []Concentration{
				{Label: "Syrop standard 120mg/5ml (Apap, Panadol)", MgPerUnit: 120, UnitSize: 5, Form: FormSyrup},
				{Label: "Syrop 240mg/5ml (Pedicetamol)", MgPerUnit: 240, UnitSize: 5, Form: FormSyrup},
				{Label: "Czopek 80mg (dla małych dzieci)", MgPerUnit: 80, UnitSize: 1, Form: FormSuppository},
				{Label: "Czopek 125mg", MgPerUnit: 125, UnitSize: 1, Form: FormSuppository},
				{Label: "Czopek 250mg", MgPerUnit: 250, UnitSize: 1, Form: FormSuppository},
				{Label: "Czopek 500mg (starsze dzieci)", MgPerUnit: 500, UnitSize: 1, Form: FormSuppository},
				{Label: "Krople 100mg/ml (Pedicetamol, Codipar)", MgPerUnit: 100, UnitSize: 1, Form: FormDrops},
			},
			Rule: PerWeight{MinMgPerKg: 10, MaxMgPerKg: 15, DailyMgPerKg: 60, Interval: 4},
		},
		Adult: Band{
			Label: "Paracetamol (Dorośli)",
			Concentrations: []Concentration{
				{Label: "Tabletka 500mg (Apap, Panadol)", MgPerUnit: 500, UnitSize: 1, Form: FormTablet},
				{Label: "Tabletka 1000mg", MgPerUnit: 1000, UnitSize: 1, Form: FormTablet},
			},
			Rule: FixedAdult{MinMg: 500, MaxMg: 1000, DailyMg: 4000, Interval: 6},
		},
		MaxDosesPerDay: 4,
	},
	{
		ID:          DrugIbuprofen,
		Label:       "Ibuprofen",
		Description: []string{"Przeciwbólowy", "Przeciwgorączkowy", "Przeciwzapalny"},
		Pediatric: Band{
			Label: "Ibuprofen",
			Concentrations: []Concentration{
				{Label: "Syrop 100mg/5ml (Ibum, Nurofen, Ibufen)", MgPerUnit: 100, UnitSize: 5, Form: FormSyrup},
				{Label: "Syrop 200mg/5ml (Ibum Forte, Nurofen dla dzieci)", MgPerUnit: 200, UnitSize: 5, Form: FormSyrup},
				{Label: "Czopek 60mg (dla małych dzieci)", MgPerUnit: 60, UnitSize: 1, Form: FormSuppository},
				{Label: "Czopek 125mg", MgPerUnit: 125, UnitSize: 1, Form: FormSuppository},
			},
			Rule: PerWeight{MinMgPerKg: 5, MaxMgPerKg: 10, DailyMgPerKg: 30, Interval: 6},
		},
		Adult: Band{
			Label: "Ibuprofen (Dorośli)",
			Concentrations: []Concentration{
				{Label: "Tabletka 200mg (Ibuprom, Nurofen)", MgPerUnit: 200, UnitSize: 1, Form: FormTablet},
				{Label: "Tabletka 400mg", MgPerUnit: 400, UnitSize: 1, Form: FormTablet},
			},
			Rule: FixedAdult{MinMg: 200, MaxMg: 400, DailyMg: 1200, Interval: 8},
		},
		MaxDosesPerDay: 3,
	},
}

// Get returns the configuration for a drug id.
func Get(id DrugID) (Drug, bool) {
	for _, d := range registry {
		if d.ID == id {
			return d, true
		}
	}
	return Drug{}, false
}

// All returns the configured drugs in registration order.
func All() []Drug {
	out := make([]Drug, len(registry))
	copy(out, registry)
	return out
}
