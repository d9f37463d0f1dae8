package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fever-tracker/internal/domain/profiles"
	"fever-tracker/internal/platform/logger"
)

// Responder is the opaque external text service.
type Responder interface {
	Ask(ctx context.Context, prompt, patientContext string) (string, error)
	IsConfigured() bool
}

type Answer struct {
	Message string `json:"message"`
	Source  string `json:"source"` // ai | offline
	Matched bool   `json:"matched"`
}

type Service struct {
	responder Responder
	timeout   time.Duration
	log       logger.Logger
}

// NewService wires the external responder. responder may be nil (offline-only
// mode).
func NewService(responder Responder, timeout time.Duration, log logger.Logger) *Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{responder: responder, timeout: timeout, log: log}
}

// Ask tries the external service under a deadline and falls back to the
// offline rule set on any failure. Core calculations never wait on this.
func (s *Service) Ask(ctx context.Context, prompt, patientContext string) Answer {
	if s.responder != nil && s.responder.IsConfigured() {
		askCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		msg, err := s.responder.Ask(askCtx, prompt, patientContext)
		if err == nil && strings.TrimSpace(msg) != "" {
			return Answer{Message: msg, Source: "ai", Matched: true}
		}
		if err != nil && s.log != nil {
			s.log.Warn("ai responder failed, using offline rules", map[string]any{"error": err.Error()})
		}
	}

	msg, matched := OfflineAnswer(prompt)
	return Answer{Message: msg, Source: "offline", Matched: matched}
}

// ContextFor summarizes a profile for the external responder: weight plus the
// few most recent events.
func ContextFor(p profiles.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pacjent: %s, waga %.1f kg.", p.Name, p.WeightKg)

	history := p.SortedHistory()
	if len(history) > 5 {
		history = history[:5]
	}
	for _, e := range history {
		switch e.Kind {
		case profiles.EntryKindDose:
			if e.Dose != nil {
				fmt.Fprintf(&b, " %s: %s %.0f mg.", e.Timestamp.Format("02.01 15:04"), e.Dose.Drug, e.Dose.Mg)
			}
		case profiles.EntryKindTemperature:
			if e.Temperature != nil {
				fmt.Fprintf(&b, " %s: %.1f°C.", e.Timestamp.Format("02.01 15:04"), *e.Temperature)
			}
		}
	}
	return b.String()
}
