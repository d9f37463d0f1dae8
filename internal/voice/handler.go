package voice

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router) {
	r.Post("/voice/temperature", parseTemperatureHandler())
}

type parseRequest struct {
	Text string `json:"text"`
}

type parseResponse struct {
	Found   bool    `json:"found"`
	Reading Reading `json:"reading"`
}

func parseTemperatureHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req parseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			http.Error(w, "text is required", http.StatusBadRequest)
			return
		}

		reading, ok := ParseTemperature(req.Text)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(parseResponse{Found: ok, Reading: reading})
	}
}
