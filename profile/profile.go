package profile

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/hashicorp/go-multierror"
)

var (
	// ErrProfile indicates that a profile could not be started or written.
	ErrProfile = errors.New("profile")

	// ErrNotStarted is returned by [Profiler.Stop] without a prior
	// [Profiler.Start].
	ErrNotStarted = errors.New("profiler not started")
)

// Profiler controls the lifecycle of one profiling session.
//
// Create instances with [Config.NewProfiler].
type Profiler struct {
	cpuFile *os.File
	Config

	started bool
}

// Start applies the memory profile rate and starts CPU profiling if enabled.
func (p *Profiler) Start() error {
	if p.MemProfileRate > 0 && (p.HeapProfile != "" || p.AllocsProfile != "") {
		runtime.MemProfileRate = p.MemProfileRate
	}

	if p.CPUProfile != "" {
		f, err := os.Create(p.CPUProfile) //nolint:gosec // Profile path from CLI flag is expected.
		if err != nil {
			return fmt.Errorf("%w: cpu: %w", ErrProfile, err)
		}

		err = pprof.StartCPUProfile(f)
		if err != nil {
			return errors.Join(
				fmt.Errorf("%w: cpu: %w", ErrProfile, err),
				f.Close(),
			)
		}

		p.cpuFile = f

		slog.Debug("started profile", slog.String("profile", "cpu"), slog.String("path", p.CPUProfile))
	}

	p.started = true

	return nil
}

// Stop stops CPU profiling and writes every enabled snapshot profile. A
// failing profile does not prevent the others from being written; all
// failures are returned together.
func (p *Profiler) Stop() error {
	if !p.started {
		return ErrNotStarted
	}

	p.started = false

	var merr *multierror.Error

	if p.cpuFile != nil {
		pprof.StopCPUProfile()

		err := p.cpuFile.Close()
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%w: cpu: %w", ErrProfile, err))
		}

		p.cpuFile = nil
	}

	for _, s := range p.snapshots() {
		err := writeSnapshot(s)
		if err != nil {
			merr = multierror.Append(merr, err)

			continue
		}

		slog.Debug("wrote profile", slog.String("profile", s.name), slog.String("path", s.path))
	}

	return merr.ErrorOrNil()
}

func writeSnapshot(s snapshot) error {
	prof := pprof.Lookup(s.name)
	if prof == nil {
		return fmt.Errorf("%w: %s: unknown profile", ErrProfile, s.name)
	}

	f, err := os.Create(s.path) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrProfile, s.name, err)
	}

	err = prof.WriteTo(f, 0)
	if err != nil {
		return errors.Join(
			fmt.Errorf("%w: %s: %w", ErrProfile, s.name, err),
			f.Close(),
		)
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrProfile, s.name, err)
	}

	return nil
}
