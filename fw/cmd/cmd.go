package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ndnfw/planes/fw/core"
)

var config = core.DefaultConfig()

// CmdPlanesd is the daemon's top-level cobra command: "planesd CONFIG-FILE".
var CmdPlanesd = &cobra.Command{
	Use:     "planesd CONFIG-FILE",
	Short:   "NDN forwarding daemon with classical, PIT-less and bridge planes",
	Version: "0.1.0",
	Args:    cobra.ExactArgs(1),
	RunE:    run,
}

func init() {
	CmdPlanesd.Flags().StringVar(&config.Profiling.CpuProfile, "cpu-profile", "", "write CPU profile to file")
	CmdPlanesd.Flags().StringVar(&config.Profiling.MemProfile, "mem-profile", "", "write memory profile to file")
	CmdPlanesd.Flags().StringVar(&config.Profiling.BlockProfile, "block-profile", "", "write block profile to file")
}

func run(cmd *cobra.Command, args []string) error {
	configfile := args[0]

	loaded, err := core.LoadConfig(configfile)
	if err != nil {
		return err
	}
	// Flags set on the command line take precedence over the config file's
	// own profiling section.
	if config.Profiling.CpuProfile != "" {
		loaded.Profiling.CpuProfile = config.Profiling.CpuProfile
	}
	if config.Profiling.MemProfile != "" {
		loaded.Profiling.MemProfile = config.Profiling.MemProfile
	}
	if config.Profiling.BlockProfile != "" {
		loaded.Profiling.BlockProfile = config.Profiling.BlockProfile
	}

	profiler := NewProfiler(loaded)
	if err := profiler.Start(); err != nil {
		return err
	}

	daemon, err := NewDaemon(loaded)
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		core.Log.Info(daemon, "received signal, shutting down", "signal", sig)
		daemon.Stop()
		profiler.Stop()
	}()

	daemon.Start()
	return nil
}
