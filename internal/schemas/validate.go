// Package schemas provides JSON Schema validation for the type-specific data
// payloads carried by careers page sections.
package schemas

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed sectiondata/*.schema.json
var sectionDataFS embed.FS

// genericSchema is used for section types without a dedicated data shape.
const genericSchema = "generic"

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed: ")
	for i, err := range ve.Errors {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Name    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Name, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

var (
	compileOnce sync.Once
	compiled    map[string]*gojsonschema.Schema
	compileErr  error
)

// loadSchemas compiles every embedded section data schema exactly once.
func loadSchemas() (map[string]*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		entries, err := sectionDataFS.ReadDir("sectiondata")
		if err != nil {
			compileErr = &SchemaLoadError{Name: "sectiondata", Message: "cannot list embedded schemas", Cause: err}
			return
		}

		out := make(map[string]*gojsonschema.Schema, len(entries))
		for _, entry := range entries {
			name := strings.TrimSuffix(entry.Name(), ".schema.json")
			raw, err := sectionDataFS.ReadFile("sectiondata/" + entry.Name())
			if err != nil {
				compileErr = &SchemaLoadError{Name: name, Message: "cannot read schema", Cause: err}
				return
			}
			schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
			if err != nil {
				compileErr = &SchemaLoadError{Name: name, Message: "invalid schema", Cause: err}
				return
			}
			out[name] = schema
		}
		compiled = out
	})
	return compiled, compileErr
}

// ValidateSectionData validates a section's data payload against the schema
// registered for its type. Types without a dedicated schema only require the
// payload to be an object. A nil payload is always valid.
func ValidateSectionData(sectionType string, data map[string]any) error {
	if data == nil {
		return nil
	}

	all, err := loadSchemas()
	if err != nil {
		return err
	}

	schema, ok := all[sectionType]
	if !ok {
		schema = all[genericSchema]
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return &SchemaLoadError{
			Name:    sectionType,
			Message: "document could not be loaded",
			Cause:   err,
		}
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
			Field:   "data." + field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
