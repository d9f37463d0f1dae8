package formulary

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router) {
	r.Get("/formulary", listDrugsHandler())
	r.Get("/formulary/{drugID}", getDrugHandler())
}

type concentrationResponse struct {
	Label     string  `json:"label"`
	MgPerUnit float64 `json:"mg_per_unit"`
	UnitSize  float64 `json:"unit_size"`
	Form      Form    `json:"form"`
	Unit      string  `json:"unit"`
}

// ruleResponse flattens the rule sum type for the wire: kind tells which
// fields are meaningful.
type ruleResponse struct {
	Kind          string  `json:"kind"` // per_weight | fixed_adult
	MinMgPerKg    float64 `json:"min_mg_per_kg,omitempty"`
	MaxMgPerKg    float64 `json:"max_mg_per_kg,omitempty"`
	DailyMgPerKg  float64 `json:"daily_mg_per_kg,omitempty"`
	MinMg         float64 `json:"min_mg,omitempty"`
	MaxMg         float64 `json:"max_mg,omitempty"`
	DailyMg       float64 `json:"daily_mg,omitempty"`
	IntervalHours int     `json:"interval_hours"`
}

type bandResponse struct {
	Label          string                  `json:"label"`
	Concentrations []concentrationResponse `json:"concentrations"`
	Rule           ruleResponse            `json:"rule"`
}

type drugResponse struct {
	ID             DrugID       `json:"id"`
	Label          string       `json:"label"`
	Description    []string     `json:"description"`
	Pediatric      bandResponse `json:"pediatric"`
	Adult          bandResponse `json:"adult"`
	MaxDosesPerDay int          `json:"max_doses_per_day"`
}

func toRuleResponse(r Rule) ruleResponse {
	switch rule := r.(type) {
	case PerWeight:
		return ruleResponse{
			Kind:          "per_weight",
			MinMgPerKg:    rule.MinMgPerKg,
			MaxMgPerKg:    rule.MaxMgPerKg,
			DailyMgPerKg:  rule.DailyMgPerKg,
			IntervalHours: rule.Interval,
		}
	case FixedAdult:
		return ruleResponse{
			Kind:          "fixed_adult",
			MinMg:         rule.MinMg,
			MaxMg:         rule.MaxMg,
			DailyMg:       rule.DailyMg,
			IntervalHours: rule.Interval,
		}
	default:
		return ruleResponse{}
	}
}

func toBandResponse(b Band) bandResponse {
	concs := make([]concentrationResponse, 0, len(b.Concentrations))
	for _, c := range b.Concentrations {
		concs = append(concs, concentrationResponse{
			Label:     c.Label,
			MgPerUnit: c.MgPerUnit,
			UnitSize:  c.UnitSize,
			Form:      c.Form,
			Unit:      c.Form.Unit(),
		})
	}
	return bandResponse{
		Label:          b.Label,
		Concentrations: concs,
		Rule:           toRuleResponse(b.Rule),
	}
}

func toDrugResponse(d Drug) drugResponse {
	return drugResponse{
		ID:             d.ID,
		Label:          d.Label,
		Description:    d.Description,
		Pediatric:      toBandResponse(d.Pediatric),
		Adult:          toBandResponse(d.Adult),
		MaxDosesPerDay: d.MaxDosesPerDay,
	}
}

func listDrugsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		drugs := All()
		out := make([]drugResponse, 0, len(drugs))
		for _, d := range drugs {
			out = append(out, toDrugResponse(d))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getDrugHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, ok := Get(DrugID(chi.URLParam(r, "drugID")))
		if !ok {
			http.Error(w, "drug not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toDrugResponse(d))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
