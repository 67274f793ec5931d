package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiled holds compiled schemas keyed by *Schema. Schemas are long-lived
// package values, so the pointer is a stable key and two schemas that share
// a Name never collide.
var compiled sync.Map

// validateResponse checks raw against schema and reports any mismatch as
// *ErrInvalidResponse carrying the offending content. A nil schema accepts
// anything.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}
	invalid := func(format string, args ...any) error {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf(format, args...)}
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return invalid("invalid JSON: %w", err)
	}
	sch, err := compile(schema)
	if err != nil {
		return invalid("schema %q: %w", schema.Name, err)
	}
	if err := sch.Validate(doc); err != nil {
		return invalid("does not match schema %q: %w", schema.Name, err)
	}
	return nil
}

// ValidateJSON validates raw against schema, for callers that pull a
// structured payload out of free text themselves.
func ValidateJSON(schema *Schema, raw []byte) error {
	return validateResponse(schema, raw)
}

func compile(schema *Schema) (*jsonschema.Schema, error) {
	if sch, ok := compiled.Load(schema); ok {
		return sch.(*jsonschema.Schema), nil
	}

	// Round-trip so Go ints and []string become the float64s and []any the
	// compiler expects.
	b, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, err
	}
	def, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	c := jsonschema.NewCompiler()
	url := "mem://" + schema.Name + ".json"
	if err := c.AddResource(url, def); err != nil {
		return nil, err
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, err
	}
	compiled.Store(schema, sch)
	return sch, nil
}
