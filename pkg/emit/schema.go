package emit

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// Schema names consumers can request.
const (
	SchemaResult = "result"
	SchemaChunk  = "chunk"
	SchemaTail   = "tail"
)

// Sentinel errors for schema handling.
var (
	// ErrUnknownSchema indicates a schema name outside result|chunk|tail.
	ErrUnknownSchema = errors.New("unknown schema")

	// ErrSchemaValidation indicates emitted JSON failed its declared
	// schema. It is reported, never blocking: the bytes were already
	// written when validation runs.
	ErrSchemaValidation = errors.New("output failed schema validation")
)

// SchemaJSON returns the embedded schema document for the given name.
func SchemaJSON(name string) ([]byte, error) {
	data, err := schemaFS.ReadFile("schemas/" + name + ".schema.json")
	if err != nil {
		return nil, fmt.Errorf("%w: %q (want result|chunk|tail)", ErrUnknownSchema, name)
	}

	return data, nil
}

// validateAgainst checks a serialized document against the named schema.
func validateAgainst(name string, document []byte) error {
	schemaData, err := SchemaJSON(name)
	if err != nil {
		return err
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaData)
	documentLoader := gojsonschema.NewBytesLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	if result.Valid() {
		return nil
	}

	var reasons []string
	for _, desc := range result.Errors() {
		reasons = append(reasons, desc.String())
	}

	return fmt.Errorf("%w (%s): %s", ErrSchemaValidation, name, strings.Join(reasons, "; "))
}
