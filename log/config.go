package log

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds the CLI flag names used by [Config].
type Flags struct {
	Level   string
	Format  string
	Verbose string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
	}
}

// Config holds CLI flag values for log configuration.
//
// The level names the least severe records that are written. Each verbose
// step lowers it by one level, so "-v" on the default warn level shows info
// records and "-vv" shows debug records, including one per completed
// schema.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags].
type Config struct {
	Level   string
	Format  string
	Flags   Flags
	Verbose int
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		Level:   "log-level",
		Format:  "log-format",
		Verbose: "verbose",
	}

	return f.NewConfig()
}

// RegisterFlags adds logging flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Level, c.Flags.Level, string(LevelWarn),
		fmt.Sprintf("log level, one of: %s", GetAllLevelStrings()))
	flags.StringVar(&c.Format, c.Flags.Format, string(FormatText),
		fmt.Sprintf("log format, one of: %s", GetAllFormatStrings()))
	flags.CountVarP(&c.Verbose, c.Flags.Verbose, "v",
		"lower the log level by one step per use")
}

// RegisterCompletions registers shell completions for log flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Level,
		cobra.FixedCompletions(GetAllLevelStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Level, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.Format,
		cobra.FixedCompletions(GetAllFormatStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Format, err)
	}

	return nil
}

// EffectiveLevel returns the configured level lowered by the verbose count.
// It never goes below [LevelDebug].
func (c *Config) EffectiveLevel() (Level, error) {
	lvl, err := ParseLevel(c.Level)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	i := slices.Index(allLevels, lvl) + max(c.Verbose, 0)

	return allLevels[min(i, len(allLevels)-1)], nil
}

// NewLogger creates a [*slog.Logger] writing to w.
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	lvl, err := c.EffectiveLevel()
	if err != nil {
		return nil, err
	}

	format, err := ParseFormat(c.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return slog.New(NewHandler(w, lvl, format)), nil
}
