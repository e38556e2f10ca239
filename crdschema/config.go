package crdschema

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var colorModes = []string{ColorAuto, ColorAlways, ColorNever}

// Flags holds CLI flag names for processing configuration, allowing callers
// to customize flag names while keeping sensible defaults.
type Flags struct {
	Output       string
	OutputFormat string
	Indent       string
	Validate     string
	Diff         string
	Color        string
	KeepGoing    string
}

// Config holds CLI flag values for processing configuration.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewProcessor] to create a [Processor].
type Config struct {
	Flags        Flags
	Output       string
	OutputFormat string
	Color        string
	Indent       int
	Validate     bool
	Diff         bool
	KeepGoing    bool
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		Output:       "output",
		OutputFormat: "output-format",
		Indent:       "indent",
		Validate:     "validate",
		Diff:         "diff",
		Color:        "color",
		KeepGoing:    "keep-going",
	}

	return &Config{Flags: f}
}

// RegisterFlags adds processing flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&c.Output, c.Flags.Output, "o", "-",
		"output file path (- for stdout)")
	flags.StringVar(&c.OutputFormat, c.Flags.OutputFormat, string(FormatAuto),
		fmt.Sprintf("output format, one of: %s", formatStrings()))
	flags.IntVar(&c.Indent, c.Flags.Indent, defaultIndent,
		"indentation spaces")
	flags.BoolVar(&c.Validate, c.Flags.Validate, false,
		"check completed schemas against OpenAPI 3.0")
	flags.BoolVar(&c.Diff, c.Flags.Diff, false,
		"print a diff of each input instead of the completed documents")
	flags.StringVar(&c.Color, c.Flags.Color, ColorAuto,
		fmt.Sprintf("colorize diff output, one of: %s", colorModes))
	flags.BoolVar(&c.KeepGoing, c.Flags.KeepGoing, false,
		"process all inputs and report every failure")
}

// RegisterCompletions registers shell completions for processing flags on
// cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.OutputFormat,
		cobra.FixedCompletions(formatStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.OutputFormat, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.Color,
		cobra.FixedCompletions(colorModes, cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Color, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.Indent,
		func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		})
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Indent, err)
	}

	return nil
}

// NewProcessor creates a [Processor] using this [Config].
func (c *Config) NewProcessor() (*Processor, error) {
	_, err := c.Format()
	if err != nil {
		return nil, err
	}

	if !slices.Contains(colorModes, strings.ToLower(c.Color)) {
		return nil, fmt.Errorf("%w: unknown color mode %q", ErrInvalidOption, c.Color)
	}

	if c.Indent < 1 {
		return nil, fmt.Errorf("%w: indent must be positive, got %d", ErrInvalidOption, c.Indent)
	}

	return NewProcessor(
		WithValidate(c.Validate),
		WithKeepGoing(c.KeepGoing),
	), nil
}

// Format returns the parsed output format.
func (c *Config) Format() (Format, error) {
	return ParseFormat(c.OutputFormat)
}

// ColorEnabled reports whether diff output written to w is colorized. In
// auto mode, output is colorized when w is a terminal.
func (c *Config) ColorEnabled(w io.Writer) bool {
	switch strings.ToLower(c.Color) {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}

func formatStrings() []string {
	out := make([]string, 0, len(allFormats))
	for _, f := range allFormats {
		out = append(out, string(f))
	}

	return out
}
