package crdschema_test

import (
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/crdschema/crdschema"
)

func parseSchema(t *testing.T, src string) *jsonschema.Schema {
	t.Helper()

	data, err := yaml.YAMLToJSON([]byte(src))
	require.NoError(t, err)

	var s jsonschema.Schema

	require.NoError(t, json.Unmarshal(data, &s))

	return &s
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input   string
		wantErr string
	}{
		"object with extensions": {
			input: `
type: object
x-kubernetes-preserve-unknown-fields: true
properties:
  port:
    x-kubernetes-int-or-string: true
    anyOf:
    - type: integer
    - type: string
`,
		},
		"boolean subschemas": {
			input: `
type: object
properties:
  anything: true
  nothing: false
allOf:
- true
`,
		},
		"references to definitions": {
			input: `
type: object
properties:
  name:
    $ref: '#/definitions/Name'
  id:
    $ref: '#/$defs/ID'
definitions:
  Name:
    type: string
$defs:
  ID:
    type: integer
`,
		},
		"json schema keywords": {
			input: `
$schema: http://json-schema.org/draft-07/schema#
type: object
patternProperties:
  ^x-:
    type: string
propertyNames:
  maxLength: 10
`,
		},
		"array without items": {
			input: `
type: array
`,
			wantErr: "items",
		},
		"unresolved reference": {
			input: `
type: object
properties:
  name:
    $ref: '#/definitions/Missing'
`,
			wantErr: "Missing",
		},
		"unknown type": {
			input: `
type: object
properties:
  n:
    type: "null"
`,
			wantErr: "null",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := crdschema.Validate(t.Context(), parseSchema(t, tc.input))
			if tc.wantErr == "" {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, crdschema.ErrInvalidOpenAPI)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidateDoesNotModifySchema(t *testing.T) {
	t.Parallel()

	s := parseSchema(t, `
type: object
properties:
  name:
    $ref: '#/definitions/Name'
definitions:
  Name:
    anyOf:
    - true
`)

	before, err := json.Marshal(s)
	require.NoError(t, err)

	require.NoError(t, crdschema.Validate(t.Context(), s))

	after, err := json.Marshal(s)
	require.NoError(t, err)

	assert.JSONEq(t, string(before), string(after))
}
