package crdschema_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/crdschema/crdschema"
)

const widgetCRD = `
apiVersion: apiextensions.k8s.io/v1
kind: CustomResourceDefinition
metadata:
  name: widgets.example.com
spec:
  group: example.com
  versions:
  - name: v1alpha1
    schema:
      openAPIV3Schema:
        type: object
  - name: v1beta1
  - name: v1
    schema:
      openAPIV3Schema:
        type: object
        properties:
          spec:
            type: object
`

func TestDecode(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input        string
		wantKinds    []string
		wantPaths    [][]string
		wantVersions [][]string
		wantNames    []string
	}{
		"v1 definition": {
			input:     widgetCRD,
			wantKinds: []string{"apiextensions.k8s.io/v1, Kind=CustomResourceDefinition"},
			wantPaths: [][]string{{
				"#/spec/versions/0/schema/openAPIV3Schema",
				"#/spec/versions/2/schema/openAPIV3Schema",
			}},
			wantVersions: [][]string{{"v1alpha1", "v1"}},
			wantNames:    []string{"widgets.example.com"},
		},
		"v1beta1 definition": {
			input: `
apiVersion: apiextensions.k8s.io/v1beta1
kind: CustomResourceDefinition
metadata:
  name: gadgets.example.com
spec:
  validation:
    openAPIV3Schema:
      type: object
  versions:
  - name: v2
    schema:
      openAPIV3Schema:
        type: object
`,
			wantKinds: []string{"apiextensions.k8s.io/v1beta1, Kind=CustomResourceDefinition"},
			wantPaths: [][]string{{
				"#/spec/validation/openAPIV3Schema",
				"#/spec/versions/0/schema/openAPIV3Schema",
			}},
			wantVersions: [][]string{{"", "v2"}},
			wantNames:    []string{"gadgets.example.com"},
		},
		"bare schemas": {
			input: `
type: object
---
true
`,
			wantKinds:    []string{"", ""},
			wantPaths:    [][]string{{"#"}, {"#"}},
			wantVersions: [][]string{{""}, {""}},
			wantNames:    []string{"", ""},
		},
		"other objects pass through": {
			input: `
apiVersion: v1
kind: Service
metadata:
  name: web
`,
			wantKinds:    []string{"/v1, Kind=Service"},
			wantPaths:    [][]string{nil},
			wantVersions: [][]string{nil},
			wantNames:    []string{"web"},
		},
		"json": {
			input:        `{"type": "object", "properties": {"a": {"type": "string"}}}`,
			wantKinds:    []string{""},
			wantPaths:    [][]string{{"#"}},
			wantVersions: [][]string{{""}},
			wantNames:    []string{""},
		},
		"empty": {
			input: "",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			docs, err := crdschema.Decode([]byte(tc.input))
			require.NoError(t, err)
			require.Len(t, docs, len(tc.wantKinds))

			for i, doc := range docs {
				kind := ""
				if !doc.GroupVersionKind.Empty() {
					kind = doc.GroupVersionKind.String()
				}

				assert.Equal(t, tc.wantKinds[i], kind)
				assert.Equal(t, tc.wantNames[i], doc.Name)

				var paths, versions []string

				for _, loc := range doc.Schemas() {
					require.NotNil(t, loc.Schema)

					paths = append(paths, loc.String())
					versions = append(versions, loc.Version)
				}

				assert.Equal(t, tc.wantPaths[i], paths)
				assert.Equal(t, tc.wantVersions[i], versions)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  error
	}{
		"malformed yaml": {
			input: "type: [object",
			want:  crdschema.ErrInvalidYAML,
		},
		"scalar document": {
			input: "hello",
			want:  crdschema.ErrInvalidYAML,
		},
		"sequence document": {
			input: "- type: object",
			want:  crdschema.ErrInvalidYAML,
		},
		"unsupported definition version": {
			input: `
apiVersion: apiextensions.k8s.io/v2
kind: CustomResourceDefinition
`,
			want: crdschema.ErrUnsupportedDocument,
		},
		"versions not a sequence": {
			input: `
apiVersion: apiextensions.k8s.io/v1
kind: CustomResourceDefinition
spec:
  versions: v1
`,
			want: crdschema.ErrInvalidYAML,
		},
		"schema with invalid type": {
			input: "type: 5",
			want:  crdschema.ErrInvalidSchema,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := crdschema.Decode([]byte(tc.input))
			require.ErrorIs(t, err, tc.want)
		})
	}
}

const orderedSchema = `
type: object
properties:
  zulu:
    type: object
    properties:
      yankee: {type: string}
      xray: {type: string}
  alpha:
    type: string
  mike:
    items:
      properties:
        second: {type: string}
        first: {type: string}
`

func TestEncodeKeepsPropertyOrder(t *testing.T) {
	t.Parallel()

	for _, format := range []crdschema.Format{crdschema.FormatYAML, crdschema.FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()

			docs, err := crdschema.Decode([]byte(orderedSchema))
			require.NoError(t, err)

			var buf bytes.Buffer

			require.NoError(t, crdschema.Encode(&buf, docs, format, 2))

			assertOrder(t, buf.String(), "zulu", "yankee", "xray", "alpha", "mike", "second", "first")
		})
	}
}

func TestEncodeFormats(t *testing.T) {
	t.Parallel()

	input := `
apiVersion: v1
kind: ConfigMap
metadata:
  name: a
---
type: object
anyOf:
- nullable: true
`

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		docs, err := crdschema.Decode([]byte(input))
		require.NoError(t, err)

		var buf bytes.Buffer

		require.NoError(t, crdschema.Encode(&buf, docs, crdschema.FormatYAML, 4))

		parts := strings.Split(buf.String(), "---\n")
		require.Len(t, parts, 2)
		assert.Contains(t, parts[0], "\n    name: a")

		got, err := yaml.YAMLToJSON([]byte(parts[1]))
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"object","anyOf":[{"nullable":true}]}`, string(got))
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		docs, err := crdschema.Decode([]byte(input))
		require.NoError(t, err)

		var buf bytes.Buffer

		require.NoError(t, crdschema.Encode(&buf, docs, crdschema.FormatJSON, 2))
		assert.Contains(t, buf.String(), "\n  \"metadata\": {\n    \"name\": \"a\"\n  }")

		dec := json.NewDecoder(&buf)

		var values []any

		for {
			var v any

			err := dec.Decode(&v)
			if errors.Is(err, io.EOF) {
				break
			}

			require.NoError(t, err)

			values = append(values, v)
		}

		assert.Len(t, values, 2)
	})
}

func TestEncodeWriteError(t *testing.T) {
	t.Parallel()

	docs, err := crdschema.Decode([]byte("type: object"))
	require.NoError(t, err)

	err = crdschema.Encode(failingWriter{}, docs, crdschema.FormatYAML, 2)
	require.ErrorIs(t, err, crdschema.ErrWriteOutput)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

// assertOrder asserts that each of words first appears after the previous
// one in s.
func assertOrder(t *testing.T, s string, words ...string) {
	t.Helper()

	last := -1

	for _, w := range words {
		i := strings.Index(s, w)
		require.GreaterOrEqual(t, i, 0, "%q not found in:\n%s", w, s)
		assert.Greater(t, i, last, "%q out of order in:\n%s", w, s)

		last = i
	}
}
