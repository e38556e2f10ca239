package structural

import (
	"maps"
	"reflect"
	"slices"

	"github.com/google/jsonschema-go/jsonschema"
)

// Extension keys understood by Kubernetes structural schemas.
const (
	Nullable              = "nullable"
	EmbeddedResource      = "x-kubernetes-embedded-resource"
	IntOrString           = "x-kubernetes-int-or-string"
	PreserveUnknownFields = "x-kubernetes-preserve-unknown-fields"
)

const typeObject = "object"

// Root is a schema document: a primary schema plus its named definitions.
//
// Create instances with [NewRoot].
type Root struct {
	Schema      *jsonschema.Schema
	Definitions map[string]*jsonschema.Schema

	// TrueLeaves holds the nodes of the tree written as the boolean true.
	// Empty nodes missing from it are treated as {}.
	TrueLeaves TrueLeaves
}

// TrueLeaves is a set of schemas that were written as the boolean true.
//
// jsonschema-go decodes both true and {} to the zero [jsonschema.Schema], so
// the decoder that builds a tree records which nodes were the literal true.
type TrueLeaves map[*jsonschema.Schema]struct{}

// Add records s as a literal true.
func (t TrueLeaves) Add(s *jsonschema.Schema) {
	t[s] = struct{}{}
}

// Has reports whether s was recorded as a literal true.
func (t TrueLeaves) Has(s *jsonschema.Schema) bool {
	_, ok := t[s]

	return ok
}

// IsLeaf reports whether s is a boolean leaf of r: false, or a node recorded
// in r.TrueLeaves.
func (r *Root) IsLeaf(s *jsonschema.Schema) bool {
	return IsFalse(s) || r.TrueLeaves.Has(s)
}

// NewRoot returns a [Root] for s. The definitions registry is taken from
// s.Definitions, or from s.Defs when s.Definitions is nil. The map is shared
// with s, so completing the root also completes the definitions held by s.
func NewRoot(s *jsonschema.Schema) *Root {
	r := &Root{Schema: s}
	if s == nil {
		return r
	}

	r.Definitions = s.Definitions
	if r.Definitions == nil {
		r.Definitions = s.Defs
	}

	return r
}

// True returns the boolean schema true (validates everything).
func True() *jsonschema.Schema {
	return &jsonschema.Schema{}
}

// False returns the boolean schema false (validates nothing).
func False() *jsonschema.Schema {
	return &jsonschema.Schema{Not: &jsonschema.Schema{}}
}

// IsTrue reports whether s renders as the boolean schema true. jsonschema-go
// decodes both true and {} to the zero [jsonschema.Schema]; use
// [Root.IsLeaf] to tell them apart.
func IsTrue(s *jsonschema.Schema) bool {
	return s != nil && reflect.ValueOf(s).Elem().IsZero()
}

// IsFalse reports whether s is the boolean schema false, i.e. {"not": {}}.
func IsFalse(s *jsonschema.Schema) bool {
	if s == nil || !IsTrue(s.Not) {
		return false
	}

	rest := *s
	rest.Not = nil

	return reflect.ValueOf(rest).IsZero()
}

// IsBool reports whether s is a boolean leaf.
func IsBool(s *jsonschema.Schema) bool {
	return IsTrue(s) || IsFalse(s)
}

// IsNullable reports whether the nullable marker is set to true on s.
func IsNullable(s *jsonschema.Schema) bool {
	if s == nil {
		return false
	}

	v, ok := s.Extra[Nullable].(bool)

	return ok && v
}

// SetNullable sets the nullable marker on a generated schema, before
// [Complete] runs. Boolean schemas are left alone, since adding a key would
// turn them into objects.
func SetNullable(s *jsonschema.Schema) {
	if s == nil || IsBool(s) {
		return
	}

	markNullable(s)
}

// markNullable sets the nullable marker on s unconditionally. The merge pass
// uses it on anchors, which may still be empty when the marker arrives.
func markNullable(s *jsonschema.Schema) {
	if s.Extra == nil {
		s.Extra = make(map[string]any)
	}

	s.Extra[Nullable] = true
}

// ClearNullable removes the nullable marker from s.
func ClearNullable(s *jsonschema.Schema) {
	if s == nil {
		return
	}

	delete(s.Extra, Nullable)

	if len(s.Extra) == 0 {
		s.Extra = nil
	}
}

// PropertyKeys returns the property names of s in rendering order: names in
// PropertyOrder first, then the rest sorted, matching how
// [jsonschema.Schema.MarshalJSON] writes them.
func PropertyKeys(s *jsonschema.Schema) []string {
	if s == nil || s.Properties == nil {
		return nil
	}

	keys := make([]string, 0, len(s.Properties))
	seen := make(map[string]bool, len(s.PropertyOrder))

	for _, k := range s.PropertyOrder {
		if _, ok := s.Properties[k]; ok && !seen[k] {
			keys = append(keys, k)
			seen[k] = true
		}
	}

	var rest []string

	for k := range s.Properties {
		if !seen[k] {
			rest = append(rest, k)
		}
	}

	slices.Sort(rest)

	return append(keys, rest...)
}

// addProperty adds name to s with schema p, keeping the existing rendering
// order and placing name last.
func addProperty(s *jsonschema.Schema, name string, p *jsonschema.Schema) {
	if s.Properties == nil {
		s.Properties = make(map[string]*jsonschema.Schema)
	}

	if _, ok := s.Properties[name]; !ok {
		s.PropertyOrder = append(PropertyKeys(s), name)
	}

	s.Properties[name] = p
}

// sortedKeys returns the keys of m in sorted order.
func sortedKeys(m map[string]*jsonschema.Schema) []string {
	return slices.Sorted(maps.Keys(m))
}
