// Package share implements the compact "share via code" flow: a reduced
// single-profile payload encoded as deflate-compressed base64url JSON,
// renderable as a QR image.
package share

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"fever-tracker/internal/domain/profiles"
)

var ErrMalformedPayload = errors.New("malformed share payload")

// Version of the share payload format.
const Version = 1

// HistoryLimit caps the number of entries carried in one code; newest win.
const HistoryLimit = 50

// Payload is the reduced wire shape. Short keys keep the QR small.
type Payload struct {
	V        int              `json:"v"`
	Name     string           `json:"n"`
	WeightKg float64          `json:"w"`
	History  []profiles.Entry `json:"h"`
}

// NewPayload builds the share payload from a profile, keeping at most
// HistoryLimit newest entries.
func NewPayload(p profiles.Profile) Payload {
	history := p.SortedHistory()
	if len(history) > HistoryLimit {
		history = history[:HistoryLimit]
	}
	return Payload{
		V:        Version,
		Name:     p.Name,
		WeightKg: p.WeightKg,
		History:  history,
	}
}

// Encode serializes a payload to its transportable string form.
func Encode(p Payload) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("share: marshal: %w", err)
	}

	var buf bytes.Buffer
	zw, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("share: compress: %w", err)
	}
	if _, err := zw.Write(raw); err != nil {
		return "", fmt.Errorf("share: compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("share: compress: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode parses a scanned code. Compressed base64url is tried first, then raw
// JSON, matching how codes from older app versions looked. Anything else is
// ErrMalformedPayload and must leave the caller's store untouched.
func Decode(code string) (Payload, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Payload{}, ErrMalformedPayload
	}

	raw := decompress(code)
	if raw == nil {
		raw = []byte(code)
	}

	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if p.V == 0 || p.History == nil {
		return Payload{}, fmt.Errorf("%w: missing version or history", ErrMalformedPayload)
	}
	return p, nil
}

func decompress(code string) []byte {
	compressed, err := base64.RawURLEncoding.DecodeString(code)
	if err != nil {
		return nil
	}
	zr := flate.NewReader(bytes.NewReader(compressed))
	defer zr.Close()

	raw, err := io.ReadAll(io.LimitReader(zr, 1<<20))
	if err != nil || len(raw) == 0 {
		return nil
	}
	return raw
}

// QRPNG renders an encoded payload as a QR code PNG.
func QRPNG(code string, sizePx int) ([]byte, error) {
	if sizePx <= 0 {
		sizePx = 512
	}
	png, err := qrcode.Encode(code, qrcode.Medium, sizePx)
	if err != nil {
		return nil, fmt.Errorf("share: qr encode: %w", err)
	}
	return png, nil
}
