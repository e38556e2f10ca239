package crdschema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/google/jsonschema-go/jsonschema"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"go.jacobcolvin.com/crdschema/structural"
)

// CustomResourceDefinition group and kind.
var crdGroupKind = schema.GroupKind{
	Group: "apiextensions.k8s.io",
	Kind:  "CustomResourceDefinition",
}

// Document is one decoded document of an input stream.
//
// A document is either a CustomResourceDefinition, holding one schema per
// served version, a bare schema, or another Kubernetes object that is passed
// through untouched. Create instances with [Decode].
type Document struct {
	// value is the document with key order preserved. Mappings are
	// [yaml.MapSlice] and sequences are []any.
	value any

	// GroupVersionKind is set for Kubernetes objects and empty for bare
	// schemas.
	GroupVersionKind schema.GroupVersionKind
	// Name is metadata.name of a Kubernetes object.
	Name string

	schemas []*Location
	// Index is the position of the document in its stream, counting empty
	// documents.
	Index int
}

// Location is a schema held by a [Document].
type Location struct {
	// Schema is the decoded schema. It may be modified in place; the
	// document renders its current state.
	Schema *jsonschema.Schema

	// parent holds the schema under key at index. It is nil when the
	// schema is the whole document.
	parent yaml.MapSlice

	// Path is the JSON pointer of the schema within its document.
	Path string
	// Version is the CustomResourceDefinition version the schema belongs
	// to, if any.
	Version string

	trueLeaves structural.TrueLeaves
	index      int
}

// Root returns the schema as a [structural.Root], with the nodes written as
// the literal true recorded.
func (l *Location) Root() *structural.Root {
	root := structural.NewRoot(l.Schema)
	root.TrueLeaves = l.trueLeaves

	return root
}

// String returns the location as a URI fragment, e.g.
// "#/spec/versions/0/schema/openAPIV3Schema".
func (l *Location) String() string {
	return "#" + l.Path
}

// IsCRD reports whether d is a CustomResourceDefinition.
func (d *Document) IsCRD() bool {
	return d.GroupVersionKind.GroupKind() == crdGroupKind
}

// Schemas returns the schemas held by d, in document order.
func (d *Document) Schemas() []*Location {
	return d.schemas
}

// MarshalJSON renders d, including the current state of its schemas, as
// JSON with key order preserved.
func (d *Document) MarshalJSON() ([]byte, error) {
	v, err := d.render()
	if err != nil {
		return nil, err
	}

	out, err := yaml.MarshalWithOptions(v, yaml.JSON())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	return bytes.TrimSpace(out), nil
}

// render writes the schemas of d back into its value and returns it.
func (d *Document) render() (any, error) {
	for _, loc := range d.schemas {
		raw, err := json.Marshal(loc.Schema)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrWriteOutput, loc, err)
		}

		var v any

		err = yaml.UnmarshalWithOptions(raw, &v, yaml.UseOrderedMap())
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrWriteOutput, loc, err)
		}

		v = walkPaired(v, loc.Schema, restoreEmpty(loc.trueLeaves))

		if loc.parent == nil {
			d.value = v
		} else {
			loc.parent[loc.index].Value = v
		}
	}

	return d.value, nil
}

// Decode reads a stream of YAML or JSON documents. Empty documents are
// skipped.
func Decode(data []byte) ([]*Document, error) {
	file, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidYAML, err)
	}

	var docs []*Document

	for i, node := range file.Docs {
		if node.Body == nil || node.Body.Type() == ast.NullType {
			slog.Debug("skipping empty document", slog.Int("document", i))

			continue
		}

		var v any

		err := yaml.NodeToValue(node.Body, &v, yaml.UseOrderedMap())
		if err != nil {
			return nil, fmt.Errorf("%w: document %d: %w", ErrInvalidYAML, i, err)
		}

		doc, err := newDocument(i, v)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}

		docs = append(docs, doc)
	}

	return docs, nil
}

func newDocument(index int, v any) (*Document, error) {
	doc := &Document{Index: index, value: v}

	m, ok := v.(yaml.MapSlice)
	if !ok {
		if _, isBool := v.(bool); !isBool {
			return nil, fmt.Errorf("%w: expected a mapping, got %T", ErrInvalidYAML, v)
		}

		return doc, doc.addBare()
	}

	apiVersion, hasVersion := stringAt(m, "apiVersion")
	kind, hasKind := stringAt(m, "kind")

	if !hasVersion || !hasKind {
		return doc, doc.addBare()
	}

	gv, err := schema.ParseGroupVersion(apiVersion)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidYAML, err)
	}

	doc.GroupVersionKind = gv.WithKind(kind)

	if metadata, ok := mapAt(m, "metadata"); ok {
		doc.Name, _ = stringAt(metadata, "name")
	}

	if !doc.IsCRD() {
		slog.Warn("passing through document",
			slog.Int("document", index),
			slog.String("kind", doc.GroupVersionKind.String()),
		)

		return doc, nil
	}

	switch gv.Version {
	case "v1":
		err = doc.addVersions(m)
	case "v1beta1":
		err = doc.addValidation(m)
		if err == nil {
			err = doc.addVersions(m)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDocument, doc.GroupVersionKind)
	}

	if err != nil {
		return nil, err
	}

	return doc, nil
}

// addBare adds the whole document as a schema.
func (d *Document) addBare() error {
	return d.addSchema(&Location{}, d.value)
}

// addVersions adds spec.versions[*].schema.openAPIV3Schema.
func (d *Document) addVersions(m yaml.MapSlice) error {
	spec, ok := mapAt(m, "spec")
	if !ok {
		return nil
	}

	i, ok := indexOf(spec, "versions")
	if !ok {
		return nil
	}

	versions, ok := spec[i].Value.([]any)
	if !ok {
		return fmt.Errorf("%w: /spec/versions: expected a sequence", ErrInvalidYAML)
	}

	for n, item := range versions {
		version, ok := item.(yaml.MapSlice)
		if !ok {
			continue
		}

		s, ok := mapAt(version, "schema")
		if !ok {
			continue
		}

		name, _ := stringAt(version, "name")

		err := d.addAt(s, "openAPIV3Schema", name, "spec", "versions", strconv.Itoa(n), "schema")
		if err != nil {
			return err
		}
	}

	return nil
}

// addValidation adds the top-level spec.validation.openAPIV3Schema used by
// v1beta1 definitions.
func (d *Document) addValidation(m yaml.MapSlice) error {
	spec, ok := mapAt(m, "spec")
	if !ok {
		return nil
	}

	validation, ok := mapAt(spec, "validation")
	if !ok {
		return nil
	}

	return d.addAt(validation, "openAPIV3Schema", "", "spec", "validation")
}

func (d *Document) addAt(parent yaml.MapSlice, key, version string, path ...string) error {
	i, ok := indexOf(parent, key)
	if !ok || parent[i].Value == nil {
		return nil
	}

	loc := &Location{
		parent:  parent,
		index:   i,
		Path:    "/" + strings.Join(append(path, key), "/"),
		Version: version,
	}

	return d.addSchema(loc, parent[i].Value)
}

func (d *Document) addSchema(loc *Location, v any) error {
	raw, err := yaml.MarshalWithOptions(v, yaml.JSON())
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidSchema, loc, err)
	}

	var s jsonschema.Schema

	err = json.Unmarshal(raw, &s)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidSchema, loc, err)
	}

	loc.trueLeaves = structural.TrueLeaves{}
	walkPaired(v, &s, annotate(loc.trueLeaves))

	loc.Schema = &s
	d.schemas = append(d.schemas, loc)

	return nil
}

// Encode writes docs to w in the given format. YAML documents are separated
// by "---"; JSON documents are written one value per document. Indent is
// the number of spaces per nesting level.
func Encode(w io.Writer, docs []*Document, format Format, indent int) error {
	if indent <= 0 {
		indent = defaultIndent
	}

	var buf bytes.Buffer

	for i, doc := range docs {
		v, err := doc.render()
		if err != nil {
			return err
		}

		switch format {
		case FormatJSON:
			raw, err := yaml.MarshalWithOptions(v, yaml.JSON())
			if err != nil {
				return fmt.Errorf("%w: %w", ErrWriteOutput, err)
			}

			err = json.Indent(&buf, bytes.TrimSpace(raw), "", strings.Repeat(" ", indent))
			if err != nil {
				return fmt.Errorf("%w: %w", ErrWriteOutput, err)
			}

			buf.WriteByte('\n')

		default:
			if i > 0 {
				buf.WriteString("---\n")
			}

			out, err := yaml.MarshalWithOptions(v, yaml.Indent(indent))
			if err != nil {
				return fmt.Errorf("%w: %w", ErrWriteOutput, err)
			}

			buf.Write(out)
		}
	}

	_, err := w.Write(buf.Bytes())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	return nil
}

func indexOf(m yaml.MapSlice, key string) (int, bool) {
	for i, item := range m {
		if k, ok := item.Key.(string); ok && k == key {
			return i, true
		}
	}

	return 0, false
}

func mapAt(m yaml.MapSlice, key string) (yaml.MapSlice, bool) {
	i, ok := indexOf(m, key)
	if !ok {
		return nil, false
	}

	v, ok := m[i].Value.(yaml.MapSlice)

	return v, ok
}

func stringAt(m yaml.MapSlice, key string) (string, bool) {
	i, ok := indexOf(m, key)
	if !ok {
		return "", false
	}

	v, ok := m[i].Value.(string)

	return v, ok
}
