package crdschema

import (
	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"

	"go.jacobcolvin.com/crdschema/structural"
)

// pairFunc is called with a schema and the node it was decoded from, or
// renders to. Its result replaces the node.
type pairFunc func(node any, s *jsonschema.Schema) any

// walkPaired calls fn for s and every subschema of s, paired with the
// corresponding node of a decoded document tree. Nodes without a schema
// counterpart are left alone.
func walkPaired(node any, s *jsonschema.Schema, fn pairFunc) any {
	if s == nil {
		return node
	}

	node = fn(node, s)

	m, ok := node.(yaml.MapSlice)
	if !ok {
		return node
	}

	for i, item := range m {
		key, ok := item.Key.(string)
		if !ok {
			continue
		}

		switch key {
		case "properties":
			m[i].Value = walkPairedMap(item.Value, s.Properties, fn)
		case "patternProperties":
			m[i].Value = walkPairedMap(item.Value, s.PatternProperties, fn)
		case "definitions":
			m[i].Value = walkPairedMap(item.Value, s.Definitions, fn)
		case "$defs":
			m[i].Value = walkPairedMap(item.Value, s.Defs, fn)
		case "dependentSchemas":
			m[i].Value = walkPairedMap(item.Value, s.DependentSchemas, fn)

		case "items":
			if _, ok := item.Value.([]any); ok {
				m[i].Value = walkPairedSlice(item.Value, s.ItemsArray, fn)
			} else {
				m[i].Value = walkPaired(item.Value, s.Items, fn)
			}

		case "allOf":
			m[i].Value = walkPairedSlice(item.Value, s.AllOf, fn)
		case "anyOf":
			m[i].Value = walkPairedSlice(item.Value, s.AnyOf, fn)
		case "oneOf":
			m[i].Value = walkPairedSlice(item.Value, s.OneOf, fn)
		case "prefixItems":
			m[i].Value = walkPairedSlice(item.Value, s.PrefixItems, fn)

		default:
			if sub := subschema(s, key); sub != nil {
				m[i].Value = walkPaired(item.Value, sub, fn)
			}
		}
	}

	return m
}

// subschema returns the single subschema of s under keyword.
func subschema(s *jsonschema.Schema, keyword string) *jsonschema.Schema {
	switch keyword {
	case "not":
		return s.Not
	case "if":
		return s.If
	case "then":
		return s.Then
	case "else":
		return s.Else
	case "additionalItems":
		return s.AdditionalItems
	case "additionalProperties":
		return s.AdditionalProperties
	case "contains":
		return s.Contains
	case "propertyNames":
		return s.PropertyNames
	case "unevaluatedItems":
		return s.UnevaluatedItems
	case "unevaluatedProperties":
		return s.UnevaluatedProperties
	}

	return nil
}

func walkPairedMap(node any, schemas map[string]*jsonschema.Schema, fn pairFunc) any {
	m, ok := node.(yaml.MapSlice)
	if !ok {
		return node
	}

	for i, item := range m {
		if name, ok := item.Key.(string); ok {
			m[i].Value = walkPaired(item.Value, schemas[name], fn)
		}
	}

	return m
}

func walkPairedSlice(node any, schemas []*jsonschema.Schema, fn pairFunc) any {
	seq, ok := node.([]any)
	if !ok {
		return node
	}

	for i, v := range seq {
		if i < len(schemas) {
			seq[i] = walkPaired(v, schemas[i], fn)
		}
	}

	return seq
}

// annotate records what the decoded schema tree loses from its source: the
// key order of every properties mapping, carried into PropertyOrder, and
// which nodes were written as the literal true.
func annotate(leaves structural.TrueLeaves) pairFunc {
	return func(node any, s *jsonschema.Schema) any {
		switch n := node.(type) {
		case bool:
			if n {
				leaves.Add(s)
			}

		case yaml.MapSlice:
			for _, item := range n {
				if key, ok := item.Key.(string); !ok || key != "properties" {
					continue
				}

				props, ok := item.Value.(yaml.MapSlice)
				if !ok {
					continue
				}

				s.PropertyOrder = s.PropertyOrder[:0]
				for _, p := range props {
					if name, ok := p.Key.(string); ok {
						s.PropertyOrder = append(s.PropertyOrder, name)
					}
				}
			}
		}

		return node
	}
}

// restoreEmpty renders every empty schema that was not written as the
// literal true as {}. jsonschema-go renders both as true.
func restoreEmpty(leaves structural.TrueLeaves) pairFunc {
	return func(node any, s *jsonschema.Schema) any {
		if b, ok := node.(bool); ok && b && !leaves.Has(s) {
			return yaml.MapSlice{}
		}

		return node
	}
}
