package crdschema_test

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/crdschema/crdschema"
)

func TestConfigNewProcessor(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		args       []string
		wantFormat crdschema.Format
		wantErr    error
	}{
		"defaults": {
			wantFormat: crdschema.FormatAuto,
		},
		"all flags": {
			args: []string{
				"-o", "out.yaml",
				"--output-format=json",
				"--indent=4",
				"--validate",
				"--diff",
				"--color=always",
				"--keep-going",
			},
			wantFormat: crdschema.FormatJSON,
		},
		"unknown format": {
			args:    []string{"--output-format=toml"},
			wantErr: crdschema.ErrInvalidOption,
		},
		"unknown color": {
			args:    []string{"--color=sometimes"},
			wantErr: crdschema.ErrInvalidOption,
		},
		"zero indent": {
			args:    []string{"--indent=0"},
			wantErr: crdschema.ErrInvalidOption,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := crdschema.NewConfig()

			cmd := &cobra.Command{Use: "test"}
			cfg.RegisterFlags(cmd.Flags())
			require.NoError(t, cmd.Flags().Parse(tc.args))

			p, err := cfg.NewProcessor()
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, p)

			format, err := cfg.Format()
			require.NoError(t, err)
			assert.Equal(t, tc.wantFormat, format)
		})
	}
}

func TestConfigFlagValues(t *testing.T) {
	t.Parallel()

	cfg := crdschema.NewConfig()

	cmd := &cobra.Command{Use: "test"}
	cfg.RegisterFlags(cmd.Flags())
	require.NoError(t, cmd.Flags().Parse([]string{"-o", "out.yaml", "--indent=4", "--validate", "--keep-going"}))

	assert.Equal(t, "out.yaml", cfg.Output)
	assert.Equal(t, 4, cfg.Indent)
	assert.True(t, cfg.Validate)
	assert.True(t, cfg.KeepGoing)
	assert.False(t, cfg.Diff)
	assert.Equal(t, crdschema.ColorAuto, cfg.Color)
}

func TestConfigColorEnabled(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		color string
		want  bool
	}{
		"always":         {color: crdschema.ColorAlways, want: true},
		"never":          {color: crdschema.ColorNever, want: false},
		"auto on buffer": {color: crdschema.ColorAuto, want: false},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := crdschema.NewConfig()
			cfg.Color = tc.color

			assert.Equal(t, tc.want, cfg.ColorEnabled(&bytes.Buffer{}))
		})
	}
}

func TestConfigRegisterCompletions(t *testing.T) {
	t.Parallel()

	cfg := crdschema.NewConfig()

	cmd := &cobra.Command{Use: "test"}
	cfg.RegisterFlags(cmd.Flags())
	require.NoError(t, cfg.RegisterCompletions(cmd))

	tcs := map[string]struct {
		flag string
		want []string
	}{
		"output-format": {
			flag: "output-format",
			want: []string{"auto", "yaml", "json"},
		},
		"color": {
			flag: "color",
			want: []string{"auto", "always", "never"},
		},
		"indent": {
			flag: "indent",
			want: nil,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			fn, ok := cmd.GetFlagCompletionFunc(tc.flag)
			require.True(t, ok)

			values, directive := fn(cmd, nil, "")
			assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
			assert.Equal(t, tc.want, values)
		})
	}
}
