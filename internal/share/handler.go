package share

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fever-tracker/internal/domain/profiles"
)

func RegisterRoutes(r chi.Router, profilesSvc *profiles.Service) {
	r.Route("/profiles/{profileID}/share", func(sr chi.Router) {
		sr.Get("/", getCodeHandler(profilesSvc))
		sr.Get("/qr", getQRHandler(profilesSvc))
		sr.Post("/import", importCodeHandler(profilesSvc))
	})
}

type codeResponse struct {
	Code    string `json:"code"`
	Entries int    `json:"entries"`
}

func getCodeHandler(profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := profilesSvc.GetByID(r.Context(), chi.URLParam(r, "profileID"))
		if err != nil {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}

		payload := NewPayload(p)
		code, err := Encode(payload)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, codeResponse{Code: code, Entries: len(payload.History)})
	}
}

func getQRHandler(profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := profilesSvc.GetByID(r.Context(), chi.URLParam(r, "profileID"))
		if err != nil {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}

		code, err := Encode(NewPayload(p))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		size := 512
		if raw := r.URL.Query().Get("size"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n >= 128 && n <= 2048 {
				size = n
			}
		}

		png, err := QRPNG(code, size)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	}
}

type importCodeRequest struct {
	Code string `json:"code"`
}

type importCodeResponse struct {
	From     string `json:"from"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}

func importCodeHandler(profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req importCodeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		payload, err := Decode(req.Code)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		added, err := profilesSvc.ImportEntries(r.Context(), chi.URLParam(r, "profileID"), payload.History)
		if err != nil {
			if errors.Is(err, profiles.ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, importCodeResponse{
			From:     payload.Name,
			Imported: added,
			Skipped:  len(payload.History) - added,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
