// Package assistant answers free-text questions. An external language-model
// responder is optional and best-effort; a deterministic offline rule set is
// the fallback and the safety floor.
package assistant

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NoAnswerMessage is returned when no offline rule matches. The assistant
// never fabricates an answer.
const NoAnswerMessage = "Jestem prostym asystentem (baza offline). Zapytaj o: wymioty, drgawki, łączenie leków, brak poprawy, dawkowanie lub kiedy do lekarza."

type rule struct {
	// Keyword groups, diacritic-stripped lowercase. A rule matches when any
	// group matches; a group matches when the input contains all its words.
	groups [][]string
	answer string
}

// Offline rule set, ported from the original assistant. Order matters: first
// match wins.
var offlineRules = []rule{
	{
		groups: [][]string{{"zwymiotowal"}, {"wymiot"}},
		answer: "Jeśli dziecko zwymiotowało lek do 15 minut od podania, zazwyczaj podaje się dawkę ponownie. Jeśli minęło więcej czasu (np. 30-40 min), lek mógł się już wchłonąć. Obserwuj temperaturę i nie podawaj od razu pełnej dawki bez pewności.",
	},
	{
		groups: [][]string{{"nie", "spada"}, {"nadal", "goraczka"}, {"wysoka"}},
		answer: "Jeśli podałeś lek i gorączka nie spada po 1 godzinie, możesz rozważyć podanie leku z innej grupy (np. jeśli był Paracetamol, to teraz Ibuprofen). Pamiętaj o zachowaniu odstępów między tymi samymi lekami (4h Paracetamol, 6h Ibuprofen).",
	},
	{
		groups: [][]string{{"ile", "dawka"}, {"ile", "dawki"}},
		answer: "Dawkę wyliczamy na podstawie wagi dziecka. Wpisz wagę w profilu, a kalkulator poda dokładną ilość.",
	},
	{
		groups: [][]string{{"lekarz"}, {"szpital"}, {"pogotowie"}},
		answer: "Skontaktuj się z lekarzem, jeśli: gorączka trwa >3 dni, dziecko ma drgawki, wybroczyny, sztywność karku, problemy z oddychaniem lub jest odwodnione. Aplikacja nie zastępuje porady lekarskiej!",
	},
	{
		groups: [][]string{{"drgawk"}},
		answer: "Przy drgawkach gorączkowych: Połóż dziecko w bezpiecznej pozycji na boku. Nie wkładaj nic do buzi. Poluzuj ubranie. Jeśli trwają >5 min, wezwij pogotowie (112).",
	},
	{
		groups: [][]string{{"laczyc"}, {"razem"}, {"naprzemien"}},
		answer: "Możesz stosować tzw. naprzemienne podawanie leków (Paracetamol i Ibuprofen), ale zachowaj odstępy! Między tym samym lekiem (np. Ibuprofen-Ibuprofen) musi być 6h przerwy. Między różnymi (Paracetamol-Ibuprofen) zazwyczaj 3-4h. Nigdy nie podawaj ich naraz, chyba że lekarz zalecił inaczej.",
	},
}

// OfflineAnswer runs the rule set against a prompt. The second return value
// reports whether any rule matched.
func OfflineAnswer(prompt string) (string, bool) {
	in := normalize(prompt)
	for _, r := range offlineRules {
		for _, group := range r.groups {
			if containsAll(in, group) {
				return r.answer, true
			}
		}
	}
	return NoAnswerMessage, false
}

func containsAll(in string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(in, w) {
			return false
		}
	}
	return true
}

var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalize lowercases and strips diacritics so "Drgawki" and "drgawki" and
// ASCII-typed "goraczka" all match. Polish ł is not a combining mark, handled
// separately.
func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "ł", "l")
	out, _, err := transform.String(stripDiacritics, s)
	if err != nil {
		return s
	}
	return out
}
