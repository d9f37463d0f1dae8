// Package formulary holds the static antipyretic drug configuration:
// available concentrations per age band and the dosing rules the calculator
// runs against. Read-only at runtime.
package formulary

// DrugID identifies a configured drug.
type DrugID string

const (
	DrugParacetamol DrugID = "Paracetamol"
	DrugIbuprofen   DrugID = "Ibuprofen"

	// DrugMetamizole is reserved: the identifier is known so history entries
	// referencing it stay parseable, but no dosing data ships for it.
	DrugMetamizole DrugID = "Metamizol"
)

// Form describes how a concentration is dispensed. It only affects the unit
// label shown to the caller, never the arithmetic.
type Form string

const (
	FormSyrup       Form = "syrup"
	FormSuppository Form = "suppository"
	FormTablet      Form = "tablet"
	FormDrops       Form = "drops"
	FormPiece       Form = "piece"
)

// Unit returns the dispensing unit label for the form.
func (f Form) Unit() string {
	switch f {
	case FormSyrup, FormDrops:
		return "ml"
	case FormSuppository:
		return "czopek"
	default:
		return "szt."
	}
}

// Concentration converts a dispensed-unit quantity to milligrams via a fixed
// ratio: one dispensed unit of UnitSize (ml for liquids, 1 for pieces)
// contains MgPerUnit milligrams.
type Concentration struct {
	Label     string
	MgPerUnit float64
	UnitSize  float64
	Form      Form
}

// Rule is the dosing rule for one drug and age band. It is a sealed sum:
// pediatric doses scale per kilogram, adult OTC doses are fixed ranges.
type Rule interface {
	IntervalHours() int
	sealedRule()
}

// PerWeight scales the dose linearly with body weight.
type PerWeight struct {
	MinMgPerKg   float64
	MaxMgPerKg   float64
	DailyMgPerKg float64
	Interval     int
}

func (r PerWeight) IntervalHours() int { return r.Interval }
func (PerWeight) sealedRule()          {}

// FixedAdult uses a fixed mg range regardless of weight.
type FixedAdult struct {
	MinMg    float64
	MaxMg    float64
	DailyMg  float64
	Interval int
}

func (r FixedAdult) IntervalHours() int { return r.Interval }
func (FixedAdult) sealedRule()          {}

// Band groups the concentrations and rule for one age band of a drug.
type Band struct {
	Label          string
	Concentrations []Concentration
	Rule           Rule
}

// Drug is one configured drug with both age bands.
type Drug struct {
	ID          DrugID
	Label       string
	Description []string
	Pediatric   Band
	Adult       Band

	// MaxDosesPerDay is the count-based 24h ceiling used by the insight
	// analyzer. Independent of the mg-based daily limit in the rules.
	MaxDosesPerDay int
}

// PediatricWeightLimitKg splits pediatric from adult dosing. Weight at or
// above the limit is adult (strict less-than for pediatric).
const PediatricWeightLimitKg = 40.0

// BandFor picks the age band from weight alone. Weight is the single source
// of truth for the dosing tier; stored profile flags are display-only.
func (d Drug) BandFor(weightKg float64) Band {
	if weightKg < PediatricWeightLimitKg {
		return d.Pediatric
	}
	return d.Adult
}

// ConcentrationByLabel finds a concentration in either band by its label.
func (d Drug) ConcentrationByLabel(label string) (Concentration, bool) {
	for _, band := range []Band{d.Pediatric, d.Adult} {
		for _, c := range band.Concentrations {
			if c.Label == label {
				return c, true
			}
		}
	}
	return Concentration{}, false
}
