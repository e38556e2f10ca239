package structural

import (
	"github.com/google/jsonschema-go/jsonschema"
)

// Complete rewrites root in place into a structural schema.
//
// The metadata property of the primary schema is restricted to name and
// generateName. Then every schema is completed bottom-up: a schema owning
// allOf, anyOf, oneOf, or not absorbs the type, nullable marker, items, and
// properties of those branches.
//
// The first violation stops the pass and is returned as an [*Error]. The
// tree is left partially rewritten in that case.
func Complete(root *Root) error {
	return (&completer{root: root}).VisitRoot(root)
}

// CompleteSchema is [Complete] for a bare schema, using its definitions
// (or $defs) as the definitions registry. No node is known to be a literal
// true, so empty schemas are treated as {}.
func CompleteSchema(s *jsonschema.Schema) error {
	return Complete(NewRoot(s))
}

// completer implements the top-level structural completion.
//
// See:
//   - https://kubernetes.io/docs/tasks/extend-kubernetes/custom-resources/custom-resource-definitions/#specifying-a-structural-schema
//   - k8s.io/apiextensions-apiserver/pkg/apiserver/schema/complete.go
type completer struct {
	root *Root
}

// VisitRoot implements [Visitor].
func (c *completer) VisitRoot(root *Root) error {
	if root.Schema != nil && !root.IsLeaf(root.Schema) {
		restrictMetadata(root, root.Schema)
	}

	return WalkRoot(c, root)
}

// VisitSchema implements [Visitor].
func (c *completer) VisitSchema(s *jsonschema.Schema) error {
	return WalkSchema(c, s)
}

// VisitSchemaObject implements [Visitor].
func (c *completer) VisitSchemaObject(s *jsonschema.Schema) error {
	err := WalkSchemaObject(c, s)
	if err != nil {
		return err
	}

	if !hasSubschemas(s) {
		return nil
	}

	return walkSubschemas(newMerger(c.root, s), s)
}

// restrictMetadata replaces the metadata property of s with an object schema
// that only allows name and generateName, without defaults.
func restrictMetadata(root *Root, s *jsonschema.Schema) {
	metadata, ok := s.Properties["metadata"]
	if !ok || metadata == nil || root.IsLeaf(metadata) {
		return
	}

	restricted := &jsonschema.Schema{Type: typeObject}

	for _, name := range PropertyKeys(metadata) {
		if name != "name" && name != "generateName" {
			continue
		}

		prop := metadata.Properties[name]
		if prop != nil && !IsBool(prop) {
			prop.Default = nil
		}

		addProperty(restricted, name, prop)
	}

	s.Properties["metadata"] = restricted
}

func hasSubschemas(s *jsonschema.Schema) bool {
	return len(s.AllOf) > 0 || len(s.AnyOf) > 0 || len(s.OneOf) > 0 || s.Not != nil
}
