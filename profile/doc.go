// Package profile writes pprof profiles of a crdschema run.
//
// CPU profiling covers the time between [Profiler.Start] and
// [Profiler.Stop]; heap, allocs, and goroutine profiles are snapshots taken
// when the profiler stops.
//
//	cfg := profile.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//
//	p := cfg.NewProfiler()
//	err := p.Start()
//	// process inputs
//	err = p.Stop()
package profile
