package dosing

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"fever-tracker/internal/domain/formulary"
	"fever-tracker/internal/domain/profiles"
)

func RegisterRoutes(r chi.Router, profilesSvc *profiles.Service) {
	r.Post("/calculate", calculateHandler(profilesSvc))
	r.Get("/profiles/{profileID}/next-dose", nextDoseHandler(profilesSvc))
	r.Get("/profiles/{profileID}/daily-limit", dailyLimitHandler(profilesSvc))
}

type calculateRequest struct {
	// Either profile_id (weight read from the profile) or weight_kg.
	ProfileID          string  `json:"profile_id"`
	WeightKg           float64 `json:"weight_kg"`
	Drug               string  `json:"drug"`
	ConcentrationLabel string  `json:"concentration_label"`
}

func calculateHandler(profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req calculateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		weight := req.WeightKg
		if strings.TrimSpace(req.ProfileID) != "" {
			p, err := profilesSvc.GetByID(r.Context(), req.ProfileID)
			if err != nil {
				http.Error(w, "profile not found", http.StatusNotFound)
				return
			}
			weight = p.WeightKg
		}
		if weight < profiles.MinWeightKg || weight > profiles.MaxWeightKg {
			http.Error(w, fmt.Sprintf("weight must be between %v and %v kg", profiles.MinWeightKg, profiles.MaxWeightKg), http.StatusBadRequest)
			return
		}

		drug, ok := formulary.Get(formulary.DrugID(req.Drug))
		if !ok {
			http.Error(w, "drug not found", http.StatusNotFound)
			return
		}
		conc, ok := drug.ConcentrationByLabel(req.ConcentrationLabel)
		if !ok {
			http.Error(w, "concentration not found", http.StatusNotFound)
			return
		}

		res, err := Calculate(weight, drug, conc)
		if err != nil {
			if errors.Is(err, ErrInvalidConcentration) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func nextDoseHandler(profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := profilesSvc.GetByID(r.Context(), chi.URLParam(r, "profileID"))
		if err != nil {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}

		drug, ok := formulary.Get(formulary.DrugID(r.URL.Query().Get("drug")))
		if !ok {
			http.Error(w, "drug not found", http.StatusNotFound)
			return
		}

		interval := drug.BandFor(p.WeightKg).Rule.IntervalHours()
		state := NextDose(p.History, drug.ID, interval, timeNow())
		writeJSON(w, http.StatusOK, state)
	}
}

type dailyLimitResponse struct {
	LimitCheck
	CurrentTotalMg float64 `json:"current_total_mg"`
	ProposedMg     float64 `json:"proposed_mg"`
}

func dailyLimitHandler(profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := profilesSvc.GetByID(r.Context(), chi.URLParam(r, "profileID"))
		if err != nil {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}

		drug, ok := formulary.Get(formulary.DrugID(r.URL.Query().Get("drug")))
		if !ok {
			http.Error(w, "drug not found", http.StatusNotFound)
			return
		}

		proposed := 0.0
		if raw := r.URL.Query().Get("proposed_mg"); raw != "" {
			proposed, err = strconv.ParseFloat(raw, 64)
			if err != nil || proposed < 0 {
				http.Error(w, "proposed_mg must be a non-negative number", http.StatusBadRequest)
				return
			}
		}

		now := timeNow()
		total := DailyTotalMg(p.History, drug.ID, now)
		check := CheckDailyLimit(total, proposed, drug.BandFor(p.WeightKg).Rule, p.WeightKg)

		writeJSON(w, http.StatusOK, dailyLimitResponse{
			LimitCheck:     check,
			CurrentTotalMg: total,
			ProposedMg:     proposed,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
