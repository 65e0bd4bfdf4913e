// Package schema validates manifests and summaries against embedded JSON
// schemas.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/quantmind-br/fmepackager/internal/domain"
)

// Names of the embedded schemas
const (
	Manifest = "manifest.json"
	Summary  = "summary.json"
)

var (
	//go:embed manifest.json
	manifestSchemaJSON []byte

	//go:embed summary.json
	summarySchemaJSON []byte
)

type compiled struct {
	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

var schemas = map[string]*compiled{
	Manifest: {},
	Summary:  {},
}

var sources = map[string][]byte{
	Manifest: manifestSchemaJSON,
	Summary:  summarySchemaJSON,
}

func load(name string) (*jsonschema.Schema, error) {
	c, ok := schemas[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}
	c.once.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(name, bytes.NewReader(sources[name])); err != nil {
			c.err = err
			return
		}
		c.schema, c.err = compiler.Compile(name)
	})
	return c.schema, c.err
}

// ValidateManifest validates a JSON-compatible manifest tree
func ValidateManifest(doc any) error {
	return Validate(Manifest, doc)
}

// ValidateSummary validates a JSON-compatible summary document
func ValidateSummary(doc any) error {
	return Validate(Summary, doc)
}

// Validate validates doc against the named embedded schema. Non-conformance
// is reported as a *domain.SchemaError.
func Validate(name string, doc any) error {
	s, err := load(name)
	if err != nil {
		return fmt.Errorf("load schema %s: %w", name, err)
	}

	if err := s.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			leaf := deepest(ve)
			return &domain.SchemaError{
				Schema:   strings.TrimSuffix(name, ".json"),
				Location: leaf.InstanceLocation,
				Message:  leaf.Message,
			}
		}
		return fmt.Errorf("validate %s: %w", name, err)
	}
	return nil
}

// deepest follows the first cause down to the most specific failure
func deepest(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		causes := ve.Causes
		sort.SliceStable(causes, func(i, j int) bool {
			return causes[i].InstanceLocation < causes[j].InstanceLocation
		})
		ve = causes[0]
	}
	return ve
}

// Normalize converts v into the plain JSON value tree the validator
// expects. Numbers are kept as json.Number.
func Normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
