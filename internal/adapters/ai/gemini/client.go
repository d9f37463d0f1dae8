// Package gemini is the outbound adapter for the generative-language text
// service. Best-effort by contract: callers must treat every failure as
// recoverable and fall back to local rules.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fever-tracker/internal/platform/httpclient"
)

var (
	ErrNotConfigured = errors.New("gemini client not configured")
	ErrEmptyResponse = errors.New("gemini returned no candidates")
)

const systemPrompt = `Jesteś asystentem medycznym w aplikacji "Kalkulator Gorączki".
Twoim celem jest pomaganie rodzicom w dawkowaniu leków, interpretacji objawów (gorączka, wysypka, wymioty) i uspokajaniu.
Bądź konkretny, bezpieczny i zawsze zaznaczaj, że nie jesteś lekarzem.
Używaj języka polskiego. Odpowiadaj krótko i konkretnie.`

type Config struct {
	BaseURL string
	APIKey  string
	Model   string // defaults to gemini-1.5-flash
	Timeout time.Duration
}

type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *httpclient.Client
}

func NewClient(cfg Config) *Client {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		model:   model,
		http:    httpclient.New(cfg.Timeout),
	}
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.baseURL != "" && c.apiKey != ""
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Ask sends the prompt plus patient context to the generateContent endpoint
// and returns the first candidate's text.
func (c *Client) Ask(ctx context.Context, prompt, patientContext string) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}

	full := systemPrompt + "\nKontekst pacjenta: " + orNone(patientContext) + "\n\nPytanie: " + prompt

	var resp generateResponse
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	err := c.http.DoJSON(ctx, http.MethodPost, url,
		map[string]string{"x-goog-api-key": c.apiKey},
		generateRequest{Contents: []content{{Parts: []part{{Text: full}}}}},
		&resp,
	)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}

	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if strings.TrimSpace(p.Text) != "" {
				return strings.TrimSpace(p.Text), nil
			}
		}
	}
	return "", ErrEmptyResponse
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Brak danych"
	}
	return s
}
