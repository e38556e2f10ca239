// Package main provides the CLI entry point for crdschema, a tool that
// completes the schemas of Kubernetes CustomResourceDefinitions into
// structural schemas.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/crdschema/crdschema"
	"go.jacobcolvin.com/crdschema/log"
	"go.jacobcolvin.com/crdschema/profile"
	"go.jacobcolvin.com/crdschema/version"
)

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := crdschema.NewConfig()
	logCfg := log.NewConfig()
	profileCfg := profile.NewConfig()

	rootCmd := &cobra.Command{
		Use:   "crdschema [flags] <file|-> [file ...]",
		Short: "Complete CustomResourceDefinition schemas into structural schemas",
		Long: `crdschema rewrites the openAPIV3Schema of CustomResourceDefinitions, and
bare JSON Schema documents, so that every node carries the type and
nullability implied by its allOf, anyOf, oneOf, and not branches. The
metadata property is restricted to name and generateName.

Inputs may be YAML or JSON streams; use - to read from stdin.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := logCfg.NewLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			slog.SetDefault(logger)

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p := profileCfg.NewProfiler()

			err := p.Start()
			if err != nil {
				return err
			}

			return errors.Join(run(cmd, cfg, args), p.Stop())
		},
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String("crdschema"))
		},
	})

	cfg.RegisterFlags(rootCmd.Flags())
	logCfg.RegisterFlags(rootCmd.PersistentFlags())
	profileCfg.RegisterFlags(rootCmd.Flags())

	completionErr := errors.Join(
		cfg.RegisterCompletions(rootCmd),
		logCfg.RegisterCompletions(rootCmd),
		profileCfg.RegisterCompletions(rootCmd),
	)

	if completionErr != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", completionErr)
	}

	return rootCmd
}

func run(cmd *cobra.Command, cfg *crdschema.Config, args []string) error {
	p, err := cfg.NewProcessor()
	if err != nil {
		return err
	}

	format, err := cfg.Format()
	if err != nil {
		return err
	}

	inputs, err := readInputs(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	results, procErr := p.Process(cmd.Context(), inputs...)

	var out bytes.Buffer

	if cfg.Diff {
		var colorTarget io.Writer
		if cfg.Output == "" || cfg.Output == "-" {
			colorTarget = cmd.OutOrStdout()
		}

		err = writeDiffs(&out, cfg, format, cfg.ColorEnabled(colorTarget), inputs, results)
	} else {
		err = writeResults(&out, cfg, format, results)
	}

	if err != nil {
		return err
	}

	err = writeOutput(cmd.OutOrStdout(), cfg.Output, out.Bytes())
	if err != nil {
		return err
	}

	return procErr
}

func readInputs(stdin io.Reader, args []string) ([]crdschema.Input, error) {
	inputs := make([]crdschema.Input, 0, len(args))

	for _, arg := range args {
		if arg == "-" {
			in, err := crdschema.ReadInput("stdin", stdin)
			if err != nil {
				return nil, err
			}

			inputs = append(inputs, in)

			continue
		}

		data, err := os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", crdschema.ErrReadInput, err)
		}

		inputs = append(inputs, crdschema.Input{Name: arg, Data: data})
	}

	return inputs, nil
}

// writeResults encodes every document of every result as one stream, in the
// format of the first input when format is auto.
func writeResults(w io.Writer, cfg *crdschema.Config, format crdschema.Format, results []crdschema.Result) error {
	if len(results) == 0 {
		return nil
	}

	if format == crdschema.FormatAuto {
		format = results[0].Format
	}

	var docs []*crdschema.Document
	for _, res := range results {
		docs = append(docs, res.Documents...)
	}

	return crdschema.Encode(w, docs, format, cfg.Indent)
}

// writeDiffs writes the difference between each input, decoded and encoded
// again, and its result.
func writeDiffs(
	w io.Writer,
	cfg *crdschema.Config,
	format crdschema.Format,
	colored bool,
	inputs []crdschema.Input,
	results []crdschema.Result,
) error {
	data := make(map[string][]byte, len(inputs))
	for _, in := range inputs {
		data[in.Name] = in.Data
	}

	for _, res := range results {
		original, err := crdschema.Decode(data[res.Name])
		if err != nil {
			return err
		}

		before := crdschema.Result{Name: res.Name, Format: res.Format, Documents: original}

		var a, b bytes.Buffer

		err = before.Encode(&a, format, cfg.Indent)
		if err != nil {
			return err
		}

		err = res.Encode(&b, format, cfg.Indent)
		if err != nil {
			return err
		}

		err = crdschema.Diff(w, res.Name, a.Bytes(), b.Bytes(), colored)
		if err != nil {
			return err
		}
	}

	return nil
}

func writeOutput(stdout io.Writer, path string, out []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(out)
		if err != nil {
			return fmt.Errorf("%w: %w", crdschema.ErrWriteOutput, err)
		}

		return nil
	}

	err := os.WriteFile(path, out, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", crdschema.ErrWriteOutput, err)
	}

	return nil
}
