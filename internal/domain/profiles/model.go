// Package profiles owns the tracked patients and their history ledger: an
// ordered log of dose administrations and temperature measurements, plus
// archived illness episodes.
package profiles

import (
	"sort"
	"time"

	"fever-tracker/internal/domain/formulary"
)

// EntryKind discriminates the history entry variants.
type EntryKind string

const (
	EntryKindDose        EntryKind = "dose"
	EntryKindTemperature EntryKind = "temp"
)

// DoseDetail carries the dose-specific fields of an entry. Mg equals
// Amount × concentration mg-per-unit at creation time; it is a snapshot and
// is not re-validated later.
type DoseDetail struct {
	Drug   formulary.DrugID `json:"drug"`
	Amount float64          `json:"amount"` // dispensed units (ml, suppositories, tablets)
	Mg     float64          `json:"mg"`
	Unit   string           `json:"unit"`

	// IntervalHours is the interval that applied when the dose was recorded.
	IntervalHours int `json:"interval_hours,omitempty"`
}

// Entry is one ledger event. Kind selects the variant: a dose entry has Dose
// set (and may also carry a temperature taken at administration time); a
// temperature entry has only Temperature.
type Entry struct {
	ID          string      `json:"id"`
	Timestamp   time.Time   `json:"timestamp"`
	Kind        EntryKind   `json:"kind"`
	Dose        *DoseDetail `json:"dose,omitempty"`
	Temperature *float64    `json:"temperature,omitempty"` // °C
	Notes       string      `json:"notes,omitempty"`
	Symptoms    []string    `json:"symptoms,omitempty"`
}

// Episode is an immutable archived snapshot of a past illness.
type Episode struct {
	ID        string    `json:"id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	History   []Entry   `json:"history"`
	Summary   string    `json:"summary,omitempty"`
}

// Profile is one tracked patient.
//
// IsPediatric is a display preference only. Dosing logic derives the tier
// from WeightKg against the fixed threshold; trusting this flag would change
// dosing behavior for edited profiles.
type Profile struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	WeightKg    float64   `json:"weight_kg"`
	IsPediatric bool      `json:"is_pediatric"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	History     []Entry   `json:"history"`
	Episodes    []Episode `json:"episodes,omitempty"`
}

// SortedHistory returns a copy of the ledger sorted newest-first. Sorting is
// a read-time concern; storage order is not an invariant.
func (p Profile) SortedHistory() []Entry {
	out := make([]Entry, len(p.History))
	copy(out, p.History)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// Export is the full-store export/import format. Timestamps serialize as
// RFC3339 strings.
type Export struct {
	Version    string    `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	Profiles   []Profile `json:"profiles"`
}

// ExportVersion is the current full-export format version.
const ExportVersion = "1"
