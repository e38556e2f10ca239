package structural_test

import (
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/require"
)

// parse decodes a YAML schema document.
func parse(t *testing.T, src string) *jsonschema.Schema {
	t.Helper()

	data, err := yaml.YAMLToJSON([]byte(src))
	require.NoError(t, err)

	var s jsonschema.Schema

	require.NoError(t, json.Unmarshal(data, &s))

	return &s
}

// render encodes s as JSON.
func render(t *testing.T, s *jsonschema.Schema) string {
	t.Helper()

	out, err := json.Marshal(s)
	require.NoError(t, err)

	return string(out)
}

// toJSON converts a YAML document to JSON for comparisons.
func toJSON(t *testing.T, src string) string {
	t.Helper()

	out, err := yaml.YAMLToJSON([]byte(src))
	require.NoError(t, err)

	return string(out)
}

// decoded returns the generic JSON value of s.
func decoded(t *testing.T, s *jsonschema.Schema) any {
	t.Helper()

	var v any

	require.NoError(t, json.Unmarshal([]byte(render(t, s)), &v))

	return v
}
