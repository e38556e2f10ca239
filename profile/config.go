package profile

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds the CLI flag names used by [Config].
type Flags struct {
	CPUProfile       string
	HeapProfile      string
	AllocsProfile    string
	GoroutineProfile string
	MemProfileRate   string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
	}
}

// Config holds output paths for the profiles written while schemas are
// processed. An empty path disables the profile.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags].
type Config struct {
	Flags Flags

	CPUProfile       string
	HeapProfile      string
	AllocsProfile    string
	GoroutineProfile string

	// MemProfileRate is applied to [runtime.MemProfileRate] when a heap or
	// allocs profile is enabled. Zero keeps the runtime default.
	MemProfileRate int
}

// NewConfig creates a new [Config] with default flag names and all profiles
// disabled.
func NewConfig() *Config {
	f := Flags{
		CPUProfile:       "cpu-profile",
		HeapProfile:      "heap-profile",
		AllocsProfile:    "allocs-profile",
		GoroutineProfile: "goroutine-profile",
		MemProfileRate:   "mem-profile-rate",
	}

	return f.NewConfig()
}

// RegisterFlags adds profiling flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.CPUProfile, c.Flags.CPUProfile, "", "write CPU profile to file")
	flags.StringVar(&c.HeapProfile, c.Flags.HeapProfile, "", "write heap profile to file")
	flags.StringVar(&c.AllocsProfile, c.Flags.AllocsProfile, "", "write allocs profile to file")
	flags.StringVar(&c.GoroutineProfile, c.Flags.GoroutineProfile, "", "write goroutine profile to file")
	flags.IntVar(&c.MemProfileRate, c.Flags.MemProfileRate, 0, "memory profile rate in bytes per sample (0 keeps the runtime default)")
}

// RegisterCompletions registers shell completions for profile flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.MemProfileRate,
		func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		})
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.MemProfileRate, err)
	}

	return nil
}

// Enabled reports whether any profile will be written.
func (c *Config) Enabled() bool {
	return c.CPUProfile != "" || len(c.snapshots()) > 0
}

// NewProfiler creates a new [Profiler] using a copy of this [Config].
func (c *Config) NewProfiler() *Profiler {
	return &Profiler{
		Config: *c,
	}
}

// snapshot is a profile captured once, when the [Profiler] stops.
type snapshot struct {
	name string
	path string
}

func (c *Config) snapshots() []snapshot {
	all := []snapshot{
		{"heap", c.HeapProfile},
		{"allocs", c.AllocsProfile},
		{"goroutine", c.GoroutineProfile},
	}

	enabled := all[:0]

	for _, s := range all {
		if s.path != "" {
			enabled = append(enabled, s)
		}
	}

	return enabled
}
