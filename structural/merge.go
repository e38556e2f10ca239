package structural

import (
	"github.com/google/jsonschema-go/jsonschema"
)

// merger folds composition branches into the schema it is anchored at.
//
// Only the type, items, properties, and extensions of the anchor are
// written. Branches are strictly below the anchor in the tree, so a branch
// never aliases the anchor.
type merger struct {
	parent *jsonschema.Schema
	root   *Root
}

func newMerger(root *Root, parent *jsonschema.Schema) *merger {
	return &merger{parent: parent, root: root}
}

// VisitRoot implements [Visitor].
func (m *merger) VisitRoot(root *Root) error {
	return WalkRoot(m, root)
}

// VisitSchema implements [Visitor].
func (m *merger) VisitSchema(s *jsonschema.Schema) error {
	return WalkSchema(m, s)
}

// VisitSchemaObject merges the branch s into the anchor.
func (m *merger) VisitSchemaObject(s *jsonschema.Schema) error {
	// Nested composition flattens into the same anchor.
	err := walkSubschemas(m, s)
	if err != nil {
		return err
	}

	err = m.mergeItems(s)
	if err != nil {
		return atPath(err, "items")
	}

	err = m.mergeProperties(s)
	if err != nil {
		return err
	}

	err = m.mergeType(s)
	if err != nil {
		return err
	}

	if v, ok := s.Extra[Nullable]; ok {
		ClearNullable(s)

		if b, ok := v.(bool); ok && b {
			markNullable(m.parent)
		}
	}

	// TODO: move additionalProperties to the parent.
	// TODO: replace the parent position when this is the only subschema.

	s.Default = nil
	s.Title = ""
	s.Description = ""

	return nil
}

// mergeItems merges the items schema of s into the items schema of the
// anchor, creating it when absent. Items are a structural boundary, so the
// merge uses a new anchor.
func (m *merger) mergeItems(s *jsonschema.Schema) error {
	if s.ItemsArray != nil {
		return newError(ReasonItemsArray)
	}

	if s.Items == nil {
		return nil
	}

	if m.parent.ItemsArray != nil {
		return newError(ReasonItemsArray)
	}

	if m.parent.Items == nil {
		m.parent.Items = &jsonschema.Schema{}
	}

	if IsFalse(m.parent.Items) {
		return nil
	}

	return newMerger(m.root, m.parent.Items).VisitSchema(s.Items)
}

// mergeProperties merges each property of s into the same-named property of
// the anchor, creating it when absent.
func (m *merger) mergeProperties(s *jsonschema.Schema) error {
	for _, name := range PropertyKeys(s) {
		target, ok := m.parent.Properties[name]
		if !ok || target == nil {
			target = &jsonschema.Schema{}
			addProperty(m.parent, name, target)
		}

		if m.root.IsLeaf(target) {
			return atPath(newError(ReasonPropertyBool), "properties", name)
		}

		err := newMerger(m.root, target).VisitSchema(s.Properties[name])
		if err != nil {
			return atPath(err, "properties", name)
		}
	}

	return nil
}

// mergeType moves the type of s to the anchor.
func (m *merger) mergeType(s *jsonschema.Schema) error {
	typ, types := s.Type, s.Types
	s.Type, s.Types = "", nil

	if types != nil || m.parent.Types != nil {
		return newError(ReasonTypeArray)
	}

	switch {
	case typ == "":
	case m.parent.Type == "":
		m.parent.Type = typ
	case m.parent.Type != typ:
		return newError(ReasonTypeMismatch)
	}

	return nil
}
