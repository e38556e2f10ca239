// Package log provides structured logging handler construction for use with
// [log/slog].
//
// It supports multiple output formats ([FormatJSON], [FormatLogfmt], and
// [FormatText]) and severity levels ([LevelError], [LevelWarn], [LevelInfo],
// and [LevelDebug]). Use [NewHandler] to create a handler directly, or use
// [Config] with CLI flag integration via [github.com/spf13/pflag] and shell
// completion support via [github.com/spf13/cobra].
//
// Library packages in this module only log through [log/slog]. Commands
// create a [Config], register flags, then install a logger at startup:
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.RegisterCompletions(rootCmd)
//
//	logger, err := cfg.NewLogger(os.Stderr)
//	slog.SetDefault(logger)
//
// Warnings, such as Kubernetes objects passed through unchanged, are shown
// by default. Each -v lowers the level by one step.
//
// The text format is rendered by [charm.land/log/v2] and is meant for
// terminals; use [FormatJSON] or [FormatLogfmt] when output is collected by
// another program.
package log
