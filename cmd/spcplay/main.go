// Command spcplay drives the spc700/dsp core from the outside: it loads a
// freestanding program image, runs it through the scheduler, and plays the
// resulting audio, the way the example corpus's own CLI tool wraps a library
// package in a small root-command-with-subcommands surface.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/retrocoderamen/spcdsp/internal/diag"
	"github.com/retrocoderamen/spcdsp/internal/sample"
	"github.com/retrocoderamen/spcdsp/internal/system"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "spcplay",
		Short: "Run and inspect SPC700/DSP sound programs",
	}
	root.AddCommand(newRunCmd(), newDumpCmd(), newFuzzCmd())
	return root
}

func newLogger(verbose bool) *diag.Logger {
	if !verbose {
		return diag.Discard()
	}
	return diag.New(diag.Options{Level: log.DebugLevel})
}

// newRunCmd plays an image through the core with a real audio backend until
// it halts or the cycle budget runs out.
func newRunCmd() *cobra.Command {
	var (
		profilePath string
		loadBase    uint16
		cycles      uint64
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "run <image>",
		Short: "Load a freestanding program and play its audio output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading image: %w", err)
			}

			p, err := loadProfile(profilePath)
			if err != nil {
				return err
			}
			if p.LoadBase != nil {
				loadBase = uint16(*p.LoadBase)
			}

			sink, err := NewOtoSink(p.SampleRate)
			if err != nil {
				return fmt.Errorf("opening audio sink: %w", err)
			}
			defer sink.Close()

			lg := newLogger(verbose)
			sys := system.New(p.region(), sink, lg)
			sys.LoadIPLOverride(loadBase, prog)
			p.apply(sys)

			fmt.Printf("spcplay: running %s at $%04x (%s)\n", args[0], loadBase, p.Region)

			const batch = 4096
			var ran uint64
			for cycles == 0 || ran < cycles {
				sys.RunCycles(batch)
				ran += batch
				if err := sys.Halted(); err != nil {
					fmt.Printf("spcplay: halted after %d cycles: %v\n", ran, err)
					return nil
				}
			}
			fmt.Printf("spcplay: ran %d cycles, stopping\n", ran)
			// let the ring buffer drain instead of cutting audio off abruptly.
			time.Sleep(200 * time.Millisecond)
			return nil
		},
	}

	cmd.Flags().StringVar(&profilePath, "profile", "", "YAML configuration profile")
	cmd.Flags().Uint16Var(&loadBase, "base", 0x0200, "address to load the image at")
	cmd.Flags().Uint64Var(&cycles, "cycles", 0, "master cycle budget (0 = run until halted)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable structured logging")
	return cmd
}

// newDumpCmd loads a save state and prints its voice table and global DSP
// registers in a human-readable form, for inspecting a machine without
// playing it back.
func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <savestate>",
		Short: "Print a save state's voice table and DSP registers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading save state: %w", err)
			}
			st, err := system.DecodeSaveState(data)
			if err != nil {
				return err
			}
			dumpSaveState(st)
			return nil
		},
	}
	return cmd
}

// newFuzzCmd free-runs the scheduler for a fixed cycle count with no audio
// sink attached, reporting whatever fault (if any) stopped it. This is the
// "fuzz-run the scheduler for N cycles" harness SPEC_FULL.md's DOMAIN STACK
// section calls for.
func newFuzzCmd() *cobra.Command {
	var (
		cycles   uint64
		loadBase uint16
		region   string
	)

	cmd := &cobra.Command{
		Use:   "fuzz <image>",
		Short: "Run an image for N cycles with no audio output and report faults",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading image: %w", err)
			}

			reg := system.RegionNTSC
			if region == "pal" {
				reg = system.RegionPAL
			}
			sys := system.New(reg, discardSink{}, diag.Discard())
			sys.LoadIPLOverride(loadBase, prog)

			const batch = 4096
			var ran uint64
			for ran < cycles {
				sys.RunCycles(batch)
				ran += batch
				if err := sys.Halted(); err != nil {
					fmt.Printf("fuzz: halted after %d cycles: %v\n", ran, err)
					return nil
				}
			}
			fmt.Printf("fuzz: completed %d cycles with no fault\n", ran)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&cycles, "cycles", 1_000_000, "master cycle budget")
	cmd.Flags().Uint16Var(&loadBase, "base", 0x0200, "address to load the image at")
	cmd.Flags().StringVar(&region, "region", "ntsc", "timing region: ntsc or pal")
	return cmd
}

// discardSink is the fuzz command's audio sink: it throws every sample away,
// since fuzzing cares about faults and cycle throughput, not playback.
type discardSink struct{}

func (discardSink) PushSample(sample.Stereo) {}
