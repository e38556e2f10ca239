package structural

import (
	"strconv"

	"github.com/google/jsonschema-go/jsonschema"
)

// Visitor recursively modifies a schema document and its subschemas.
//
// Each method has a default implementation in the matching Walk function
// ([WalkRoot], [WalkSchema], [WalkSchemaObject]). An implementation that only
// cares about one granularity calls the Walk functions from the others.
type Visitor interface {
	// VisitRoot is called once for the document. Implementations usually
	// call [WalkRoot] to visit the primary schema and the definitions.
	VisitRoot(root *Root) error
	// VisitSchema is called for every schema position, including boolean
	// leaves. Implementations usually call [WalkSchema].
	VisitSchema(s *jsonschema.Schema) error
	// VisitSchemaObject is called for every constrained (non-boolean)
	// schema. Implementations usually call [WalkSchemaObject] to visit its
	// subschemas.
	VisitSchemaObject(s *jsonschema.Schema) error
}

// WalkRoot visits the primary schema of root, then each definition in
// sorted key order.
func WalkRoot(v Visitor, root *Root) error {
	if root.Schema != nil {
		err := v.VisitSchema(root.Schema)
		if err != nil {
			return err
		}
	}

	return walkMap(v, root.Definitions, "definitions", sortedKeys(root.Definitions))
}

// WalkSchema dispatches s to [Visitor.VisitSchemaObject] unless it is nil or
// a boolean leaf.
func WalkSchema(v Visitor, s *jsonschema.Schema) error {
	if s == nil || IsBool(s) {
		return nil
	}

	return v.VisitSchemaObject(s)
}

// WalkSchemaObject visits every direct subschema of s: composition keywords
// first, then array keywords, then object keywords.
func WalkSchemaObject(v Visitor, s *jsonschema.Schema) error {
	err := walkComposition(v, s)
	if err != nil {
		return err
	}

	err = walkArray(v, s)
	if err != nil {
		return err
	}

	return walkObject(v, s)
}

func walkComposition(v Visitor, s *jsonschema.Schema) error {
	err := walkSubschemas(v, s)
	if err != nil {
		return err
	}

	for _, sub := range []struct {
		schema  *jsonschema.Schema
		keyword string
	}{
		{s.If, "if"},
		{s.Then, "then"},
		{s.Else, "else"},
	} {
		err := walkOne(v, sub.schema, sub.keyword)
		if err != nil {
			return err
		}
	}

	return nil
}

// walkSubschemas visits only allOf, anyOf, oneOf, and not, the keywords
// folded by the merge pass.
func walkSubschemas(v Visitor, s *jsonschema.Schema) error {
	for _, sub := range []struct {
		schemas []*jsonschema.Schema
		keyword string
	}{
		{s.AllOf, "allOf"},
		{s.AnyOf, "anyOf"},
		{s.OneOf, "oneOf"},
	} {
		err := walkSlice(v, sub.schemas, sub.keyword)
		if err != nil {
			return err
		}
	}

	return walkOne(v, s.Not, "not")
}

func walkArray(v Visitor, s *jsonschema.Schema) error {
	err := walkOne(v, s.Items, "items")
	if err != nil {
		return err
	}

	err = walkSlice(v, s.ItemsArray, "items")
	if err != nil {
		return err
	}

	err = walkOne(v, s.AdditionalItems, "additionalItems")
	if err != nil {
		return err
	}

	return walkOne(v, s.Contains, "contains")
}

func walkObject(v Visitor, s *jsonschema.Schema) error {
	err := walkMap(v, s.Properties, "properties", PropertyKeys(s))
	if err != nil {
		return err
	}

	err = walkMap(v, s.PatternProperties, "patternProperties", sortedKeys(s.PatternProperties))
	if err != nil {
		return err
	}

	err = walkOne(v, s.AdditionalProperties, "additionalProperties")
	if err != nil {
		return err
	}

	return walkOne(v, s.PropertyNames, "propertyNames")
}

func walkOne(v Visitor, s *jsonschema.Schema, keyword string) error {
	if s == nil {
		return nil
	}

	err := v.VisitSchema(s)
	if err != nil {
		return atPath(err, keyword)
	}

	return nil
}

func walkSlice(v Visitor, schemas []*jsonschema.Schema, keyword string) error {
	for i, s := range schemas {
		err := v.VisitSchema(s)
		if err != nil {
			return atPath(err, keyword, strconv.Itoa(i))
		}
	}

	return nil
}

func walkMap(v Visitor, schemas map[string]*jsonschema.Schema, keyword string, keys []string) error {
	for _, k := range keys {
		err := v.VisitSchema(schemas[k])
		if err != nil {
			return atPath(err, keyword, k)
		}
	}

	return nil
}
