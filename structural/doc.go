// Package structural completes JSON Schema documents into Kubernetes
// structural schemas.
//
// A structural schema is one where every node states exactly one type, and
// where the type and nullability implied by allOf, anyOf, oneOf, and not are
// carried by the node that owns those keywords. The Kubernetes API server
// requires structural schemas for CustomResourceDefinitions; schemas produced
// by code generators frequently express a type only through composition,
// e.g. a nullable reference rendered as anyOf with a single branch.
//
// Schemas are represented with [jsonschema.Schema]. Boolean schemas follow
// the jsonschema-go encoding: true is the zero schema and false is
// {"not": {}}; see [IsTrue], [IsFalse], and [IsBool].
//
// Since true and {} decode alike, a [Root] records the nodes written as the
// literal true in [Root.TrueLeaves]. Completion treats those, and false, as
// boolean leaves; any other empty schema is {}.
//
// # Completion
//
// [Complete] runs in two steps:
//
//  1. The metadata property of the primary schema is replaced by an object
//     schema allowing only name and generateName, with their defaults
//     removed.
//
//  2. Every schema, primary and definitions, is walked depth-first. After
//     its subschemas are complete, a schema that owns allOf, anyOf, oneOf,
//     or not merges each branch into itself:
//
//     - branches of a branch merge into the same owner, so nested
//     composition is flattened;
//     - items and properties of a branch merge into the owner's items and
//     same-named properties, which are created when absent; a property
//     that is a boolean leaf cannot be merged into;
//     - the type of a branch moves to the owner, and must match the
//     owner's type if it has one;
//     - a nullable: true marker moves to the owner;
//     - default, title, and description are cleared on the branch.
//
// Hoisting additionalProperties out of branches and collapsing a
// composition with a single branch are not performed.
//
// # Errors
//
// Completion stops at the first violation and returns an [*Error] matching
// [ErrInvalid]. The error carries the JSON pointer of the offending node and
// the call stack at the point of failure:
//
//	err := structural.CompleteSchema(schema)
//
//	var serr *structural.Error
//	if errors.As(err, &serr) {
//	    fmt.Println(serr.Path, serr.Reason)
//	}
//
// # Custom Traversals
//
// [Visitor] and the Walk functions expose the traversal used by
// [Complete]. Implement all three methods and call the matching Walk
// function for the granularities you do not customize:
//
//	type stripDescriptions struct{}
//
//	func (v stripDescriptions) VisitRoot(r *structural.Root) error {
//	    return structural.WalkRoot(v, r)
//	}
//
//	func (v stripDescriptions) VisitSchema(s *jsonschema.Schema) error {
//	    return structural.WalkSchema(v, s)
//	}
//
//	func (v stripDescriptions) VisitSchemaObject(s *jsonschema.Schema) error {
//	    s.Description = ""
//	    return structural.WalkSchemaObject(v, s)
//	}
//
// [jsonschema.Schema]: https://pkg.go.dev/github.com/google/jsonschema-go/jsonschema#Schema
package structural
