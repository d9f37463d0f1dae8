package assistant

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"fever-tracker/internal/domain/profiles"
)

func RegisterRoutes(r chi.Router, svc *Service, profilesSvc *profiles.Service) {
	r.Post("/assistant/ask", askHandler(svc, profilesSvc))
}

type askRequest struct {
	Prompt    string `json:"prompt"`
	ProfileID string `json:"profile_id"` // optional, adds patient context
}

func askHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req askRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Prompt) == "" {
			http.Error(w, "prompt is required", http.StatusBadRequest)
			return
		}

		patientContext := ""
		if strings.TrimSpace(req.ProfileID) != "" {
			p, err := profilesSvc.GetByID(r.Context(), req.ProfileID)
			if err != nil {
				http.Error(w, "profile not found", http.StatusNotFound)
				return
			}
			patientContext = ContextFor(p)
		}

		answer := svc.Ask(r.Context(), req.Prompt, patientContext)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(answer)
	}
}
