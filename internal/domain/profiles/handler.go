package profiles

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fever-tracker/internal/domain/formulary"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/profiles", func(pr chi.Router) {
		pr.Post("/", createProfileHandler(svc))
		pr.Get("/", listProfilesHandler(svc))

		pr.Route("/{profileID}", func(ir chi.Router) {
			ir.Get("/", getProfileHandler(svc))
			ir.Patch("/", updateProfileHandler(svc))
			ir.Delete("/", deleteProfileHandler(svc))

			ir.Post("/history", addEntryHandler(svc))
			ir.Get("/history", listHistoryHandler(svc))
			ir.Patch("/history/{entryID}", updateEntryHandler(svc))
			ir.Delete("/history/{entryID}", deleteEntryHandler(svc))
			ir.Post("/history/import", importEntriesHandler(svc))

			ir.Post("/archive", archiveHandler(svc))
			ir.Get("/episodes", listEpisodesHandler(svc))
		})
	})

	r.Get("/export", exportHandler(svc))
	r.Post("/import", importHandler(svc))
}

type profileRequest struct {
	Name        string  `json:"name"`
	WeightKg    float64 `json:"weight_kg"`
	IsPediatric *bool   `json:"is_pediatric"`
}

type profileResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	WeightKg    float64   `json:"weight_kg"`
	IsPediatric bool      `json:"is_pediatric"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Entries     int       `json:"entries"`
	Episodes    int       `json:"episodes"`
}

func toProfileResponse(p Profile) profileResponse {
	return profileResponse{
		ID:          p.ID,
		Name:        p.Name,
		WeightKg:    p.WeightKg,
		IsPediatric: p.IsPediatric,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Entries:     len(p.History),
		Episodes:    len(p.Episodes),
	}
}

func createProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req profileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ped := true
		if req.IsPediatric != nil {
			ped = *req.IsPediatric
		}

		p, err := svc.Create(r.Context(), CreateInput{
			Name:        req.Name,
			WeightKg:    req.WeightKg,
			IsPediatric: ped,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toProfileResponse(p))
	}
}

func listProfilesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ps, err := svc.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]profileResponse, 0, len(ps))
		for _, p := range ps {
			out = append(out, toProfileResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "profileID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

type updateProfileRequest struct {
	Name        *string  `json:"name"`
	WeightKg    *float64 `json:"weight_kg"`
	IsPediatric *bool    `json:"is_pediatric"`
}

func updateProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Update(r.Context(), chi.URLParam(r, "profileID"), UpdateInput{
			Name:        req.Name,
			WeightKg:    req.WeightKg,
			IsPediatric: req.IsPediatric,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

func deleteProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "profileID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type entryRequest struct {
	Timestamp     string   `json:"timestamp"` // RFC3339, optional (defaults to now)
	Kind          string   `json:"kind"`      // dose | temp
	Drug          string   `json:"drug"`
	Amount        float64  `json:"amount"`
	Mg            float64  `json:"mg"`
	Unit          string   `json:"unit"`
	IntervalHours int      `json:"interval_hours"`
	Temperature   *float64 `json:"temperature"`
	Notes         string   `json:"notes"`
	Symptoms      []string `json:"symptoms"`
}

func addEntryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req entryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var ts time.Time
		if req.Timestamp != "" {
			var err error
			ts, err = time.Parse(time.RFC3339, req.Timestamp)
			if err != nil {
				http.Error(w, "timestamp must be RFC3339", http.StatusBadRequest)
				return
			}
		}

		e, err := svc.AddEntry(r.Context(), chi.URLParam(r, "profileID"), EntryInput{
			Timestamp:     ts,
			Kind:          EntryKind(req.Kind),
			Drug:          formulary.DrugID(req.Drug),
			Amount:        req.Amount,
			Mg:            req.Mg,
			Unit:          req.Unit,
			IntervalHours: req.IntervalHours,
			Temperature:   req.Temperature,
			Notes:         req.Notes,
			Symptoms:      req.Symptoms,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, e)
	}
}

func listHistoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "profileID"))
		if err != nil {
			writeError(w, err)
			return
		}

		entries := p.SortedHistory()
		switch r.URL.Query().Get("filter") {
		case "", "all":
		case "doses":
			entries = filterKind(entries, EntryKindDose)
		case "temp":
			entries = filterKind(entries, EntryKindTemperature)
		default:
			http.Error(w, "filter must be all, doses or temp", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func filterKind(entries []Entry, kind EntryKind) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

type updateEntryRequest struct {
	Timestamp   *string  `json:"timestamp"`
	Amount      *float64 `json:"amount"`
	Mg          *float64 `json:"mg"`
	Temperature *float64 `json:"temperature"`
	Notes       *string  `json:"notes"`
	Symptoms    []string `json:"symptoms"`
}

func updateEntryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateEntryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateEntryInput{
			Amount:      req.Amount,
			Mg:          req.Mg,
			Temperature: req.Temperature,
			Notes:       req.Notes,
			Symptoms:    req.Symptoms,
		}
		if req.Timestamp != nil {
			ts, err := time.Parse(time.RFC3339, *req.Timestamp)
			if err != nil {
				http.Error(w, "timestamp must be RFC3339", http.StatusBadRequest)
				return
			}
			in.Timestamp = &ts
		}

		e, err := svc.UpdateEntry(r.Context(), chi.URLParam(r, "profileID"), chi.URLParam(r, "entryID"), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

func deleteEntryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.DeleteEntry(r.Context(), chi.URLParam(r, "profileID"), chi.URLParam(r, "entryID"))
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type importEntriesRequest struct {
	Entries []Entry `json:"entries"`
}

type importEntriesResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

func importEntriesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req importEntriesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		added, err := svc.ImportEntries(r.Context(), chi.URLParam(r, "profileID"), req.Entries)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, importEntriesResponse{
			Imported: added,
			Skipped:  len(req.Entries) - added,
		})
	}
}

func archiveHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ep, err := svc.Archive(r.Context(), chi.URLParam(r, "profileID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, ep)
	}
}

func listEpisodesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "profileID"))
		if err != nil {
			writeError(w, err)
			return
		}
		if p.Episodes == nil {
			p.Episodes = []Episode{}
		}
		writeJSON(w, http.StatusOK, p.Episodes)
	}
}

func exportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := svc.ExportAll(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func importHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in Export
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := svc.ImportAll(r.Context(), in); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"profiles": len(in.Profiles)})
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrNothingToArchive):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
