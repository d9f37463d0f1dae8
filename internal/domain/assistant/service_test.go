package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fever-tracker/internal/domain/formulary"
	"fever-tracker/internal/domain/profiles"
)

// -------------------------
// Test responder
// -------------------------

type testResponder struct {
	configured bool
	answer     string
	err        error
	gotPrompt  string
	gotContext string
}

func (r *testResponder) Ask(ctx context.Context, prompt, patientContext string) (string, error) {
	r.gotPrompt = prompt
	r.gotContext = patientContext
	return r.answer, r.err
}

func (r *testResponder) IsConfigured() bool { return r.configured }

// -------------------------
// Tests
// -------------------------

func TestOfflineAnswer_RuleMatching(t *testing.T) {
	cases := []struct {
		prompt   string
		wantWord string
	}{
		{"Dziecko zwymiotowało po leku, co robić?", "zwymiotowało lek do 15 minut"},
		{"Gorączka nie spada mimo leku", "innej grupy"},
		{"nadal gorączka po syropie", "innej grupy"},
		{"Ile dawki mogę podać?", "na podstawie wagi"},
		{"Kiedy jechać do szpitala?", "nie zastępuje porady lekarskiej"},
		{"Dziecko ma drgawki!", "bezpiecznej pozycji"},
		{"Czy można łączyć paracetamol z ibuprofenem?", "naprzemienne podawanie"},
	}
	for _, tc := range cases {
		msg, matched := OfflineAnswer(tc.prompt)
		if !matched {
			t.Fatalf("prompt %q: expected a rule match", tc.prompt)
		}
		if !strings.Contains(msg, tc.wantWord) {
			t.Fatalf("prompt %q: answer %q missing %q", tc.prompt, msg, tc.wantWord)
		}
	}
}

func TestOfflineAnswer_DiacriticInsensitive(t *testing.T) {
	// ASCII-typed prompt must hit the same rules as proper Polish.
	msgASCII, okASCII := OfflineAnswer("nadal goraczka")
	msgPolish, okPolish := OfflineAnswer("nadal gorączka")
	if !okASCII || !okPolish {
		t.Fatalf("expected both spellings to match: ascii=%v polish=%v", okASCII, okPolish)
	}
	if msgASCII != msgPolish {
		t.Fatalf("expected identical answers")
	}

	if _, ok := OfflineAnswer("czy mogę ŁĄCZYĆ leki?"); !ok {
		t.Fatalf("expected match regardless of case and diacritics")
	}
}

func TestOfflineAnswer_NoMatch(t *testing.T) {
	msg, matched := OfflineAnswer("jaka jest pogoda?")
	if matched {
		t.Fatalf("expected no match")
	}
	if msg != NoAnswerMessage {
		t.Fatalf("expected the no-answer message, got %q", msg)
	}
}

func TestService_Ask_PrefersConfiguredResponder(t *testing.T) {
	r := &testResponder{configured: true, answer: "odpowiedź AI"}
	svc := NewService(r, time.Second, nil)

	ans := svc.Ask(context.Background(), "dziecko ma drgawki", "ctx")
	if ans.Source != "ai" || ans.Message != "odpowiedź AI" {
		t.Fatalf("expected AI answer, got %+v", ans)
	}
	if r.gotContext != "ctx" {
		t.Fatalf("expected patient context forwarded, got %q", r.gotContext)
	}
}

func TestService_Ask_FallsBackOnResponderFailure(t *testing.T) {
	r := &testResponder{configured: true, err: errors.New("upstream down")}
	svc := NewService(r, time.Second, nil)

	ans := svc.Ask(context.Background(), "dziecko ma drgawki", "")
	if ans.Source != "offline" {
		t.Fatalf("expected offline fallback, got %+v", ans)
	}
	if !ans.Matched {
		t.Fatalf("expected offline rule match for drgawki")
	}
}

func TestService_Ask_UnconfiguredResponderNeverCalled(t *testing.T) {
	r := &testResponder{configured: false, answer: "should not appear"}
	svc := NewService(r, time.Second, nil)

	ans := svc.Ask(context.Background(), "ile dawki", "")
	if ans.Source != "offline" {
		t.Fatalf("expected offline answer, got %+v", ans)
	}
	if r.gotPrompt != "" {
		t.Fatalf("unconfigured responder must not be asked")
	}
}

func TestService_Ask_NilResponder(t *testing.T) {
	svc := NewService(nil, time.Second, nil)
	ans := svc.Ask(context.Background(), "cokolwiek", "")
	if ans.Source != "offline" {
		t.Fatalf("expected offline answer with nil responder, got %+v", ans)
	}
}

func TestContextFor_SummarizesRecentEvents(t *testing.T) {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	temp := 38.5
	p := profiles.Profile{
		Name:     "Zosia",
		WeightKg: 12,
		History: []profiles.Entry{
			{ID: "t1", Timestamp: base, Kind: profiles.EntryKindTemperature, Temperature: &temp},
			{ID: "d1", Timestamp: base.Add(time.Hour), Kind: profiles.EntryKindDose,
				Dose: &profiles.DoseDetail{Drug: formulary.DrugParacetamol, Amount: 5, Mg: 120, Unit: "ml"}},
		},
	}

	got := ContextFor(p)
	if !strings.Contains(got, "Zosia") || !strings.Contains(got, "12.0 kg") {
		t.Fatalf("expected name and weight in context, got %q", got)
	}
	if !strings.Contains(got, "Paracetamol 120 mg") {
		t.Fatalf("expected dose summary, got %q", got)
	}
	if !strings.Contains(got, "38.5°C") {
		t.Fatalf("expected temperature summary, got %q", got)
	}
}
