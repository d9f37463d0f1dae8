package insights

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fever-tracker/internal/domain/profiles"
)

func RegisterRoutes(r chi.Router, profilesSvc *profiles.Service) {
	r.Get("/profiles/{profileID}/insights", listInsightsHandler(profilesSvc))
}

func listInsightsHandler(profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := profilesSvc.GetByID(r.Context(), chi.URLParam(r, "profileID"))
		if err != nil {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(Analyze(p, time.Now()))
	}
}
