package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"fever-tracker/internal/domain/formulary"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrNothingToArchive = errors.New("nothing to archive")
)

// Plausibility bounds. Values outside are rejected at the boundary, never
// silently clamped.
const (
	MinWeightKg = 3.0
	MaxWeightKg = 150.0
	MinTempC    = 35.0
	MaxTempC    = 42.0
	MaxNameLen  = 50
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name        string
	WeightKg    float64
	IsPediatric bool
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Profile, error) {
	name := strings.TrimSpace(in.Name)
	if err := validateName(name); err != nil {
		return Profile{}, err
	}
	if err := validateWeight(in.WeightKg); err != nil {
		return Profile{}, err
	}

	now := s.now()
	p := Profile{
		ID:          uuid.NewString(),
		Name:        name,
		WeightKg:    in.WeightKg,
		IsPediatric: in.IsPediatric,
		CreatedAt:   now,
		UpdatedAt:   now,
		History:     []Entry{},
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

type UpdateInput struct {
	Name        *string
	WeightKg    *float64
	IsPediatric *bool
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Profile, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Profile{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validateName(name); err != nil {
			return Profile{}, err
		}
		p.Name = name
	}
	if in.WeightKg != nil {
		if err := validateWeight(*in.WeightKg); err != nil {
			return Profile{}, err
		}
		p.WeightKg = *in.WeightKg
	}
	if in.IsPediatric != nil {
		p.IsPediatric = *in.IsPediatric
	}
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id string) (Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Profile{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Profile, error) {
	return s.repo.List(ctx)
}

type EntryInput struct {
	Timestamp     time.Time
	Kind          EntryKind
	Drug          formulary.DrugID
	Amount        float64
	Mg            float64
	Unit          string
	IntervalHours int
	Temperature   *float64
	Notes         string
	Symptoms      []string
}

// AddEntry appends one event to the profile's ledger.
func (s *Service) AddEntry(ctx context.Context, profileID string, in EntryInput) (Entry, error) {
	p, err := s.GetByID(ctx, profileID)
	if err != nil {
		return Entry{}, err
	}

	ts := in.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	e := Entry{
		ID:        uuid.NewString(),
		Timestamp: ts,
		Kind:      in.Kind,
		Notes:     strings.TrimSpace(in.Notes),
		Symptoms:  in.Symptoms,
	}

	switch in.Kind {
	case EntryKindDose:
		if _, ok := formulary.Get(in.Drug); !ok {
			return Entry{}, fmt.Errorf("%w: unknown drug %q", ErrInvalidInput, in.Drug)
		}
		if in.Amount <= 0 || in.Mg <= 0 {
			return Entry{}, fmt.Errorf("%w: dose amount and mg must be > 0", ErrInvalidInput)
		}
		if strings.TrimSpace(in.Unit) == "" {
			return Entry{}, fmt.Errorf("%w: dose unit is required", ErrInvalidInput)
		}
		e.Dose = &DoseDetail{
			Drug:          in.Drug,
			Amount:        in.Amount,
			Mg:            in.Mg,
			Unit:          strings.TrimSpace(in.Unit),
			IntervalHours: in.IntervalHours,
		}
		if in.Temperature != nil {
			if err := validateTemperature(*in.Temperature); err != nil {
				return Entry{}, err
			}
			t := *in.Temperature
			e.Temperature = &t
		}
	case EntryKindTemperature:
		if in.Temperature == nil {
			return Entry{}, fmt.Errorf("%w: temperature is required", ErrInvalidInput)
		}
		if err := validateTemperature(*in.Temperature); err != nil {
			return Entry{}, err
		}
		t := *in.Temperature
		e.Temperature = &t
	default:
		return Entry{}, fmt.Errorf("%w: unknown entry kind %q", ErrInvalidInput, in.Kind)
	}

	p.History = append(p.History, e)
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Entry{}, err
	}
	return e, nil
}

type UpdateEntryInput struct {
	Timestamp   *time.Time
	Amount      *float64
	Mg          *float64
	Temperature *float64
	Notes       *string
	Symptoms    []string
}

// UpdateEntry edits an entry in place. Identifier, kind, drug and unit are
// not editable after creation.
func (s *Service) UpdateEntry(ctx context.Context, profileID, entryID string, in UpdateEntryInput) (Entry, error) {
	p, err := s.GetByID(ctx, profileID)
	if err != nil {
		return Entry{}, err
	}

	idx := entryIndex(p.History, entryID)
	if idx < 0 {
		return Entry{}, fmt.Errorf("%w: entry %s", ErrNotFound, entryID)
	}
	e := p.History[idx]

	if in.Timestamp != nil && !in.Timestamp.IsZero() {
		e.Timestamp = *in.Timestamp
	}
	if in.Temperature != nil {
		if err := validateTemperature(*in.Temperature); err != nil {
			return Entry{}, err
		}
		t := *in.Temperature
		e.Temperature = &t
	}
	if e.Kind == EntryKindDose && e.Dose != nil {
		if in.Amount != nil {
			if *in.Amount <= 0 {
				return Entry{}, fmt.Errorf("%w: dose amount must be > 0", ErrInvalidInput)
			}
			e.Dose.Amount = *in.Amount
		}
		if in.Mg != nil {
			if *in.Mg <= 0 {
				return Entry{}, fmt.Errorf("%w: dose mg must be > 0", ErrInvalidInput)
			}
			e.Dose.Mg = *in.Mg
		}
	}
	if in.Notes != nil {
		e.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.Symptoms != nil {
		e.Symptoms = in.Symptoms
	}

	p.History[idx] = e
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// DeleteEntry removes an entry by id. Irreversible; confirmation is the
// caller's job.
func (s *Service) DeleteEntry(ctx context.Context, profileID, entryID string) error {
	p, err := s.GetByID(ctx, profileID)
	if err != nil {
		return err
	}

	idx := entryIndex(p.History, entryID)
	if idx < 0 {
		return fmt.Errorf("%w: entry %s", ErrNotFound, entryID)
	}

	p.History = append(p.History[:idx], p.History[idx+1:]...)
	p.UpdatedAt = s.now()
	return s.repo.Update(ctx, p)
}

// ImportEntries merges an incoming batch into the ledger, dropping entries
// whose id already exists. Re-importing the same batch is a no-op.
func (s *Service) ImportEntries(ctx context.Context, profileID string, batch []Entry) (int, error) {
	p, err := s.GetByID(ctx, profileID)
	if err != nil {
		return 0, err
	}

	for _, e := range batch {
		if err := validateImportedEntry(e); err != nil {
			return 0, err
		}
	}

	existing := make(map[string]struct{}, len(p.History))
	for _, e := range p.History {
		existing[e.ID] = struct{}{}
	}

	fresh := make([]Entry, 0, len(batch))
	for _, e := range batch {
		if _, dup := existing[e.ID]; dup {
			continue
		}
		existing[e.ID] = struct{}{}
		fresh = append(fresh, e)
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	p.History = append(fresh, p.History...)
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return 0, err
	}
	return len(fresh), nil
}

// Archive snapshots the current ledger into an immutable episode and clears
// it. An empty ledger has nothing to archive.
func (s *Service) Archive(ctx context.Context, profileID string) (Episode, error) {
	p, err := s.GetByID(ctx, profileID)
	if err != nil {
		return Episode{}, err
	}
	if len(p.History) == 0 {
		return Episode{}, ErrNothingToArchive
	}

	start, end := p.History[0].Timestamp, p.History[0].Timestamp
	for _, e := range p.History[1:] {
		if e.Timestamp.Before(start) {
			start = e.Timestamp
		}
		if e.Timestamp.After(end) {
			end = e.Timestamp
		}
	}

	snapshot := make([]Entry, len(p.History))
	copy(snapshot, p.History)

	ep := Episode{
		ID:        uuid.NewString(),
		StartDate: start,
		EndDate:   end,
		History:   snapshot,
		Summary:   fmt.Sprintf("Epizod %s - %s", start.Format("02.01.2006"), end.Format("02.01.2006")),
	}

	p.Episodes = append(p.Episodes, ep)
	p.History = []Entry{}
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Episode{}, err
	}
	return ep, nil
}

// ExportAll dumps every profile in the store.
func (s *Service) ExportAll(ctx context.Context) (Export, error) {
	ps, err := s.repo.List(ctx)
	if err != nil {
		return Export{}, err
	}
	return Export{
		Version:    ExportVersion,
		ExportedAt: s.now(),
		Profiles:   ps,
	}, nil
}

// ImportAll replaces the store wholesale. Every profile is validated before
// anything is written, so a bad import leaves the store untouched.
func (s *Service) ImportAll(ctx context.Context, in Export) error {
	if in.Version == "" {
		return fmt.Errorf("%w: missing export version", ErrInvalidInput)
	}
	for _, p := range in.Profiles {
		if strings.TrimSpace(p.ID) == "" {
			return fmt.Errorf("%w: profile without id", ErrInvalidInput)
		}
		if err := validateName(strings.TrimSpace(p.Name)); err != nil {
			return err
		}
		if err := validateWeight(p.WeightKg); err != nil {
			return err
		}
	}
	return s.repo.ReplaceAll(ctx, in.Profiles)
}

func entryIndex(history []Entry, entryID string) int {
	for i, e := range history {
		if e.ID == entryID {
			return i
		}
	}
	return -1
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len([]rune(name)) > MaxNameLen {
		return fmt.Errorf("%w: name longer than %d characters", ErrInvalidInput, MaxNameLen)
	}
	return nil
}

func validateWeight(kg float64) error {
	if kg < MinWeightKg || kg > MaxWeightKg {
		return fmt.Errorf("%w: weight must be between %v and %v kg", ErrInvalidInput, MinWeightKg, MaxWeightKg)
	}
	return nil
}

func validateTemperature(c float64) error {
	if c < MinTempC || c > MaxTempC {
		return fmt.Errorf("%w: temperature must be between %v and %v °C", ErrInvalidInput, MinTempC, MaxTempC)
	}
	return nil
}

func validateImportedEntry(e Entry) error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("%w: imported entry without id", ErrInvalidInput)
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("%w: imported entry without timestamp", ErrInvalidInput)
	}
	switch e.Kind {
	case EntryKindDose:
		if e.Dose == nil {
			return fmt.Errorf("%w: dose entry without dose detail", ErrInvalidInput)
		}
	case EntryKindTemperature:
		if e.Temperature == nil {
			return fmt.Errorf("%w: temperature entry without temperature", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown entry kind %q", ErrInvalidInput, e.Kind)
	}
	return nil
}
