package crdschema_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/crdschema/crdschema"
)

func TestDiff(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		before string
		after  string
		want   string
	}{
		"equal": {
			before: "a\nb\n",
			after:  "a\nb\n",
			want:   "",
		},
		"changed line": {
			before: "a\nb\nc\n",
			after:  "a\nB\nc\n",
			want:   "--- a/crd.yaml\n+++ b/crd.yaml\n a\n-b\n+B\n c\n",
		},
		"added lines": {
			before: "type: string\n",
			after:  "type: string\nnullable: true\n",
			want:   "--- a/crd.yaml\n+++ b/crd.yaml\n type: string\n+nullable: true\n",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			err := crdschema.Diff(&buf, "crd.yaml", []byte(tc.before), []byte(tc.after), false)
			require.NoError(t, err)
			assert.Equal(t, tc.want, buf.String())
		})
	}
}

func TestDiffColored(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := crdschema.Diff(&buf, "crd.yaml", []byte("a\nb\n"), []byte("a\nc\n"), true)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "\x1b[31m-b\x1b[0m")
	assert.Contains(t, out, "\x1b[32m+c\x1b[0m")
	assert.Contains(t, out, " a\n")
}

func TestDiffWriteError(t *testing.T) {
	t.Parallel()

	err := crdschema.Diff(failingWriter{}, "crd.yaml", []byte("a\n"), []byte("b\n"), false)
	require.ErrorIs(t, err, crdschema.ErrWriteOutput)
}

func TestDiffProcessed(t *testing.T) {
	t.Parallel()

	input := []byte(`type: object
properties:
  value:
    anyOf:
    - type: string
`)

	original, err := crdschema.Decode(input)
	require.NoError(t, err)

	results, err := crdschema.NewProcessor().Process(t.Context(), crdschema.Input{Name: "in.yaml", Data: input})
	require.NoError(t, err)

	var before, after bytes.Buffer

	require.NoError(t, crdschema.Encode(&before, original, crdschema.FormatYAML, 2))
	require.NoError(t, results[0].Encode(&after, crdschema.FormatYAML, 2))

	var buf bytes.Buffer

	require.NoError(t, crdschema.Diff(&buf, "in.yaml", before.Bytes(), after.Bytes(), false))

	out := buf.String()
	assert.Contains(t, out, "--- a/in.yaml\n+++ b/in.yaml\n")
	assert.Contains(t, out, "+    type: string\n")
	assert.Contains(t, out, "-    - type: string\n")
}
