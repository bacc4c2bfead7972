package cmd

import (
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/ndnfw/planes/fw/core"
)

// Profiler wraps runtime/pprof CPU, memory and block profiling, gated by
// the three optional output paths in core.Config.Profiling.
type Profiler struct {
	config  *core.Config
	cpuFile *os.File
	block   *pprof.Profile
}

// NewProfiler constructs a Profiler bound to config's profiling section.
func NewProfiler(config *core.Config) *Profiler {
	return &Profiler{config: config}
}

func (p *Profiler) String() string { return "profiler" }

// Start opens the CPU profile file and begins CPU/block profiling,
// depending on which paths are configured. A no-op if none are set.
func (p *Profiler) Start() (err error) {
	if p.config.Profiling.CpuProfile != "" {
		p.cpuFile, err = os.Create(p.config.Profiling.CpuProfile)
		if err != nil {
			return err
		}
		core.Log.Info(p, "profiling cpu", "out", p.config.Profiling.CpuProfile)
		pprof.StartCPUProfile(p.cpuFile)
	}

	if p.config.Profiling.BlockProfile != "" {
		core.Log.Info(p, "profiling blocking operations", "out", p.config.Profiling.BlockProfile)
		runtime.SetBlockProfileRate(1)
		p.block = pprof.Lookup("block")
	}

	return nil
}

// Stop writes out every profile that was started and closes their files.
func (p *Profiler) Stop() {
	if p.block != nil {
		f, err := os.Create(p.config.Profiling.BlockProfile)
		if err != nil {
			core.Log.Error(p, "unable to open block profile output", "err", err)
		} else {
			if err := p.block.WriteTo(f, 0); err != nil {
				core.Log.Error(p, "unable to write block profile", "err", err)
			}
			f.Close()
		}
	}

	if p.config.Profiling.MemProfile != "" {
		f, err := os.Create(p.config.Profiling.MemProfile)
		if err != nil {
			core.Log.Error(p, "unable to open memory profile output", "err", err)
		} else {
			runtime.GC()
			core.Log.Info(p, "profiling memory", "out", p.config.Profiling.MemProfile)
			if err := pprof.WriteHeapProfile(f); err != nil {
				core.Log.Error(p, "unable to write memory profile", "err", err)
			}
			f.Close()
		}
	}

	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		p.cpuFile.Close()
	}
}
