// Package permalink encodes an (algorithm, input) pair into a shareable
// text blob, carried in the "state" query parameter.
package permalink

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/aretw0/algotrace/pkg/algorithms"
	"github.com/aretw0/algotrace/pkg/domain"
)

// QueryParam is the URL query parameter holding the blob.
const QueryParam = "state"

// Payload is the decoded content of a permalink.
type Payload struct {
	AlgorithmID string       `json:"algorithmId"`
	Input       domain.Input `json:"input"`
}

type rawPayload struct {
	AlgorithmID string         `json:"algorithmId"`
	Input       map[string]any `json:"input"`
}

// Encode returns base64 of the JSON {algorithmId, input}.
func Encode(algorithmID string, in domain.Input) string {
	// Input holds only slices, strings and ints; marshaling cannot fail.
	data, _ := json.Marshal(Payload{AlgorithmID: algorithmID, Input: in})
	return base64.StdEncoding.EncodeToString(data)
}

// Decode parses a blob produced by Encode. Standard and URL-safe base64 are
// both accepted, padded or not. The algorithm must exist in the catalog.
func Decode(s string) (Payload, error) {
	data, err := decodeBase64(strings.TrimSpace(s))
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", domain.ErrInvalidPermalink, err)
	}

	var raw rawPayload
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", domain.ErrInvalidPermalink, err)
	}
	if _, ok := algorithms.Lookup(raw.AlgorithmID); !ok {
		return Payload{}, fmt.Errorf("%w: %w: %q", domain.ErrInvalidPermalink, domain.ErrAlgorithmNotFound, raw.AlgorithmID)
	}

	in, err := domain.DecodeInput(raw.Input)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %w", domain.ErrInvalidPermalink, err)
	}
	return Payload{AlgorithmID: raw.AlgorithmID, Input: in}, nil
}

// Resolve decodes s and never fails: an empty or malformed blob yields the
// first catalog algorithm with its defaults.
func Resolve(s string, logger *slog.Logger) Payload {
	if s != "" {
		p, err := Decode(s)
		if err == nil {
			return p
		}
		if logger != nil {
			logger.Warn("ignoring invalid permalink", "err", err)
		}
	}
	first := algorithms.All()[0]
	return Payload{AlgorithmID: first.ID, Input: first.Defaults.Clone()}
}

// URL appends the encoded state to base, keeping its other query parameters.
func URL(base, algorithmID string, in domain.Input) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	q := u.Query()
	q.Set(QueryParam, Encode(algorithmID, in))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FromURL extracts and resolves the state parameter of a full URL or bare
// query string.
func FromURL(raw string, logger *slog.Logger) Payload {
	state := ""
	if u, err := url.Parse(raw); err == nil {
		state = u.Query().Get(QueryParam)
	}
	return Resolve(state, logger)
}

func decodeBase64(s string) ([]byte, error) {
	var lastErr error
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.URLEncoding, base64.RawStdEncoding, base64.RawURLEncoding} {
		data, err := enc.DecodeString(s)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
