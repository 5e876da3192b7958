package catalog

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// schemaJSON describes the catalog file: an array of project records. Only
// slug is required; any other field may be null or absent.
const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["slug"],
    "properties": {
      "slug":      {"type": "string", "minLength": 1},
      "title":     {"$ref": "#/definitions/text"},
      "summary":   {"$ref": "#/definitions/text"},
      "timeframe": {"$ref": "#/definitions/text"},
      "role":      {"$ref": "#/definitions/text"},
      "purpose":   {"$ref": "#/definitions/text"},
      "outcomes":  {"$ref": "#/definitions/text"},
      "hero":      {"$ref": "#/definitions/text"},
      "tags":      {"type": ["array", "null"], "items": {"type": "string"}},
      "links": {
        "type": ["array", "null"],
        "items": {
          "type": "object",
          "required": ["href"],
          "properties": {
            "href":  {"type": "string"},
            "label": {"$ref": "#/definitions/text"}
          }
        }
      },
      "overview": {"$ref": "#/definitions/blocks"},
      "process":  {"$ref": "#/definitions/blocks"},
      "results":  {"$ref": "#/definitions/blocks"}
    }
  },
  "definitions": {
    "text":   {"type": ["string", "null"]},
    "blocks": {"type": ["array", "null"], "items": {"type": "string"}}
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(schemaJSON)

// FieldError is a single schema violation.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every schema violation found in a catalog document.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("catalog validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateDocument checks raw catalog JSON against the catalog schema.
func ValidateDocument(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validating catalog document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
