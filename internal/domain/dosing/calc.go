// Package dosing computes weight-based dose ranges and the time-window
// aggregates derived from the history ledger. Everything here is a pure
// function over in-memory data.
package dosing

import (
	"errors"
	"fmt"
	"math"
	"time"

	"fever-tracker/internal/domain/formulary"
	"fever-tracker/internal/domain/profiles"
)

var ErrInvalidConcentration = errors.New("concentration mg-per-unit must be > 0")

// Pediatric reports whether a weight qualifies for pediatric dosing. Weight
// exactly at the threshold is adult. This, not any stored profile flag, is
// the source of truth for the dosing tier.
func Pediatric(weightKg float64) bool {
	return weightKg < formulary.PediatricWeightLimitKg
}

// Result is a dose range for one drug, concentration and weight.
type Result struct {
	DoseMinMg int     `json:"dose_min_mg"`
	DoseMaxMg int     `json:"dose_max_mg"`
	VolumeMin float64 `json:"volume_min"`
	VolumeMax float64 `json:"volume_max"`
	Unit      string  `json:"unit"`
	Pediatric bool    `json:"pediatric"`

	// DailyLimit is mg/kg/24h on the pediatric band and flat mg/24h on the
	// adult band, mirroring the rule it came from.
	DailyLimit    float64 `json:"daily_limit"`
	IntervalHours int     `json:"interval_hours"`
}

// Calculate derives the safe dose range for a weight from the drug's rule for
// that weight's age band, converted to the selected concentration.
func Calculate(weightKg float64, drug formulary.Drug, conc formulary.Concentration) (Result, error) {
	if conc.MgPerUnit <= 0 {
		return Result{}, ErrInvalidConcentration
	}

	band := drug.BandFor(weightKg)
	ped := Pediatric(weightKg)

	var minMg, maxMg, dailyLimit float64
	switch rule := band.Rule.(type) {
	case formulary.PerWeight:
		minMg = weightKg * rule.MinMgPerKg
		maxMg = weightKg * rule.MaxMgPerKg
		dailyLimit = rule.DailyMgPerKg
	case formulary.FixedAdult:
		minMg = rule.MinMg
		maxMg = rule.MaxMg
		dailyLimit = rule.DailyMg
	default:
		return Result{}, fmt.Errorf("drug %s: unsupported dosing rule %T", drug.ID, band.Rule)
	}

	doseMin := int(math.Round(minMg))
	doseMax := int(math.Round(maxMg))

	return Result{
		DoseMinMg:     doseMin,
		DoseMaxMg:     doseMax,
		VolumeMin:     roundTo1(float64(doseMin) / conc.MgPerUnit * conc.UnitSize),
		VolumeMax:     roundTo1(float64(doseMax) / conc.MgPerUnit * conc.UnitSize),
		Unit:          conc.Form.Unit(),
		Pediatric:     ped,
		DailyLimit:    dailyLimit,
		IntervalHours: band.Rule.IntervalHours(),
	}, nil
}

// LastDose returns the dose entry of the given drug with the latest
// timestamp, or nil. Well-defined regardless of storage order.
func LastDose(history []profiles.Entry, drug formulary.DrugID) *profiles.Entry {
	var last *profiles.Entry
	for i := range history {
		e := &history[i]
		if e.Kind != profiles.EntryKindDose || e.Dose == nil || e.Dose.Drug != drug {
			continue
		}
		if last == nil || e.Timestamp.After(last.Timestamp) {
			last = e
		}
	}
	return last
}

// DailyTotalMg sums the mg administered for a drug in the trailing 24 hours.
func DailyTotalMg(history []profiles.Entry, drug formulary.DrugID, now time.Time) float64 {
	cutoff := now.Add(-24 * time.Hour)
	var total float64
	for _, e := range history {
		if e.Kind != profiles.EntryKindDose || e.Dose == nil || e.Dose.Drug != drug {
			continue
		}
		if e.Timestamp.Before(cutoff) {
			continue
		}
		total += e.Dose.Mg
	}
	return total
}

// NextDoseState is the dosing timer for one drug.
type NextDoseState struct {
	CanGive   bool       `json:"can_give"`
	NextAt    *time.Time `json:"next_at,omitempty"`
	HoursLeft float64    `json:"hours_left"`
}

// NextDose computes when the drug may be given again. A drug never
// administered is always immediately givable.
func NextDose(history []profiles.Entry, drug formulary.DrugID, intervalHours int, now time.Time) NextDoseState {
	last := LastDose(history, drug)
	if last == nil {
		return NextDoseState{CanGive: true}
	}

	nextAt := last.Timestamp.Add(time.Duration(intervalHours) * time.Hour)
	if !now.Before(nextAt) {
		return NextDoseState{CanGive: true}
	}

	hoursLeft := nextAt.Sub(now).Hours()
	return NextDoseState{
		CanGive:   false,
		NextAt:    &nextAt,
		HoursLeft: roundTo1(hoursLeft),
	}
}

// LimitCheck is the mg-based daily ceiling verdict. PercentUsed is raw and
// may exceed 100; capping is a display concern.
type LimitCheck struct {
	Safe        bool    `json:"safe"`
	PercentUsed float64 `json:"percent_used"`
	LimitMg     float64 `json:"limit_mg"`
}

// CheckDailyLimit verifies a proposed additional dose against the rule's 24h
// mg ceiling: per-kg scaled by weight on the pediatric band, flat on the
// adult band.
func CheckDailyLimit(currentTotalMg, proposedMg float64, rule formulary.Rule, weightKg float64) LimitCheck {
	var limitMg float64
	switch r := rule.(type) {
	case formulary.PerWeight:
		limitMg = r.DailyMgPerKg * weightKg
	case formulary.FixedAdult:
		limitMg = r.DailyMg
	}

	newTotal := currentTotalMg + proposedMg
	var percent float64
	if limitMg > 0 {
		percent = math.Round(newTotal / limitMg * 100)
	}

	return LimitCheck{
		Safe:        newTotal <= limitMg,
		PercentUsed: percent,
		LimitMg:     math.Round(limitMg),
	}
}

// MgPerUnit reverse-derives a concentration from a recorded dose for edit
// forms. A zero amount resolves to zero rather than dividing by it; this is
// display convenience, not a safety calculation.
func MgPerUnit(d *profiles.DoseDetail) float64 {
	if d == nil || d.Amount == 0 {
		return 0
	}
	return d.Mg / d.Amount
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
