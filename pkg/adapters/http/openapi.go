package http

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/aretw0/algotrace/pkg/domain"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

//go:embed openapi.yaml
var rawDoc []byte

// GetSwagger loads and validates the embedded OpenAPI document.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawDoc)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return doc, nil
}

// bodyValidator checks JSON request bodies against component schemas
// before they are decoded into Go types.
type bodyValidator struct {
	schemas openapi3.Schemas
}

func newBodyValidator(doc *openapi3.T) *bodyValidator {
	return &bodyValidator{schemas: doc.Components.Schemas}
}

// decode reads r's body, validates it against the named schema and decodes
// it into dst. Every failure wraps domain.ErrInvalidInput.
func (v *bodyValidator) decode(r *http.Request, schema string, dst any) error {
	raw, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", domain.ErrInvalidInput, err)
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	ref, ok := v.schemas[schema]
	if !ok || ref.Value == nil {
		return fmt.Errorf("unknown schema %q", schema)
	}
	if err := ref.Value.VisitJSON(generic); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}
