package crdschema

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/jsonschema-go/jsonschema"

	"go.jacobcolvin.com/crdschema/structural"
)

// rootComponent is the component name the primary schema is validated under.
const rootComponent = "crdschema.root"

// JSON Schema keywords that OpenAPI 3.0 does not define.
var jsonSchemaKeywords = []string{
	"$anchor",
	"$comment",
	"$id",
	"$schema",
	"additionalItems",
	"const",
	"contains",
	"contentEncoding",
	"contentMediaType",
	"dependentRequired",
	"dependentSchemas",
	"else",
	"examples",
	"if",
	"maxContains",
	"minContains",
	"patternProperties",
	"prefixItems",
	"propertyNames",
	"then",
	"unevaluatedItems",
	"unevaluatedProperties",
}

// Validate checks that s is a well-formed OpenAPI 3.0 schema object.
//
// Boolean subschemas are rewritten to their object form and references into
// definitions or $defs are resolved against the components of a synthetic
// OpenAPI document. Failures match [ErrInvalidOpenAPI].
func Validate(ctx context.Context, s *jsonschema.Schema) error {
	root := structural.NewRoot(s)

	schemas := make(map[string]any, len(root.Definitions)+1)

	primary, err := openAPIValue(root.Schema)
	if err != nil {
		return err
	}

	schemas[rootComponent] = primary

	for name, def := range root.Definitions {
		v, err := openAPIValue(def)
		if err != nil {
			return fmt.Errorf("%w: definition %q: %w", ErrInvalidOpenAPI, name, err)
		}

		schemas[name] = v
	}

	data, err := json.Marshal(map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   "crdschema",
			"version": "0.0.0",
		},
		"paths": map[string]any{},
		"components": map[string]any{
			"schemas": schemas,
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOpenAPI, err)
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOpenAPI, err)
	}

	err = doc.Validate(ctx, openapi3.AllowExtraSiblingFields(jsonSchemaKeywords...))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOpenAPI, err)
	}

	return nil
}

// openAPIValue returns the generic JSON value of s in OpenAPI form.
func openAPIValue(s *jsonschema.Schema) (any, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOpenAPI, err)
	}

	var v any

	err = json.Unmarshal(raw, &v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOpenAPI, err)
	}

	return toOpenAPI(v), nil
}

// toOpenAPI rewrites a JSON Schema value in place: boolean subschemas become
// objects, definitions are dropped, and references to them are pointed at
// components.
func toOpenAPI(v any) any {
	switch v := v.(type) {
	case bool:
		if v {
			return map[string]any{}
		}

		return map[string]any{"not": map[string]any{}}

	case map[string]any:
		for k, sub := range v {
			switch k {
			case "$ref":
				if ref, ok := sub.(string); ok {
					v[k] = componentRef(ref)
				}

			case "definitions", "$defs":
				delete(v, k)

			case "properties", "patternProperties", "dependentSchemas":
				if m, ok := sub.(map[string]any); ok {
					for name, p := range m {
						m[name] = toOpenAPI(p)
					}
				}

			case "items", "allOf", "anyOf", "oneOf", "prefixItems":
				if seq, ok := sub.([]any); ok {
					for i, item := range seq {
						seq[i] = toOpenAPI(item)
					}
				} else {
					v[k] = toOpenAPI(sub)
				}

			case "not", "if", "then", "else", "additionalItems", "contains",
				"propertyNames", "unevaluatedItems", "unevaluatedProperties":
				v[k] = toOpenAPI(sub)

			case "additionalProperties":
				// OpenAPI allows a boolean here.
				if _, ok := sub.(bool); !ok {
					v[k] = toOpenAPI(sub)
				}
			}
		}

		return v
	}

	return v
}

func componentRef(ref string) string {
	for _, prefix := range []string{"#/definitions/", "#/$defs/"} {
		if name, ok := strings.CutPrefix(ref, prefix); ok {
			return "#/components/schemas/" + name
		}
	}

	return ref
}
