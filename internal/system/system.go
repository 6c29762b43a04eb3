// Package system wires the SPC700 CPU, the DSP and the shared address space
// into one runnable machine, the way the source project's
// internal/emulator.Emulator assembled
// its own CPU/PPU/APU/clock quartet.
package system

import (
	"github.com/retrocoderamen/spcdsp/internal/clock"
	"github.com/retrocoderamen/spcdsp/internal/diag"
	"github.com/retrocoderamen/spcdsp/internal/dsp"
	"github.com/retrocoderamen/spcdsp/internal/memory"
	"github.com/retrocoderamen/spcdsp/internal/spc700"
)

// Region selects which master-to-dispatch-clock Ratio the scheduler runs at.
type Region int

const (
	RegionNTSC Region = iota
	RegionPAL
)

func (r Region) ratio() clock.Ratio {
	if r == RegionPAL {
		return clock.PALRatio
	}
	return clock.NTSCRatio
}

// System is the whole emulated machine: memory, CPU, DSP and the scheduler
// driving them.
type System struct {
	Memory *memory.Memory
	CPU    *spc700.CPU
	DSP    *dsp.Dsp
	Clock  *clock.MasterClock

	region Region
	log    *diag.Logger
}

// New builds a System wired up and reset, ready to run from the boot ROM
// entry point. sink receives every finished audio sample.
func New(region Region, sink dsp.Sink, log *diag.Logger) *System {
	mem := memory.New(log)
	d := dsp.New(mem, sink, log)
	mem.AttachDSP(d)
	cpu := spc700.NewCPU(mem, log)

	s := &System{Memory: mem, CPU: cpu, DSP: d, region: region, log: log.Component("system")}
	s.Clock = clock.NewMasterClock(region.ratio(), cpu, dspAdapter{d}, mem)
	return s
}

// dspAdapter adapts dsp.Dsp's SoundCycle to clock.DSP, keeping the clock
// package free of a direct dependency on internal/dsp.
type dspAdapter struct {
	d *dsp.Dsp
}

func (a dspAdapter) SoundCycle(dispatchCounter uint16) {
	a.d.SoundCycle(dispatchCounter)
}

// Reset restores the CPU to its post-IPL-boot state, clears the four
// mailbox ports in each direction and zeroes the scheduler's accumulators.
// RAM and the DSP retain their current contents.
func (s *System) Reset() {
	s.CPU.Reset()
	for i := 0; i < 4; i++ {
		s.Memory.SetInput(i, 0)
		s.Memory.Write8(0xf4+uint16(i), 0)
	}
	s.Clock.Reset()
}

// RunCycles advances the machine by n master clock cycles, dispatching
// whatever mix of CPU instructions, DSP samples and timer ticks fall due.
func (s *System) RunCycles(n uint16) {
	s.Clock.Tick(n)
	s.Clock.Refresh()
}

// Halted reports the fault that stopped the CPU, if any.
func (s *System) Halted() error {
	if f := s.CPU.Halted(); f != nil {
		return f
	}
	return nil
}

// HostWrite writes one of the four host-to-SPC700 mailbox ports ($F4-$F7 as
// seen by the running program).
func (s *System) HostWrite(port int, v uint8) {
	s.Memory.SetInput(port, v)
}

// HostRead reads one of the four SPC700-to-host mailbox ports.
func (s *System) HostRead(port int) uint8 {
	return s.Memory.Output(port)
}

// LoadIPLOverride replaces the boot ROM path entirely by writing prog
// directly into RAM at base and pointing PC at it, bypassing the IPL
// handshake. Test harnesses and the run and fuzz subcommands use this to run a
// freestanding SPC700 program without a host side driving the mailbox.
func (s *System) LoadIPLOverride(base uint16, prog []uint8) {
	for i, b := range prog {
		// plain RAM writes never fault; the returned error only ever
		// surfaces for the $F1/$F8-$FF MMIO range, which base+i won't hit
		// for any reasonably sized test program.
		s.Memory.Write8(base+uint16(i), b)
	}
	s.Memory.SetROMEnabled(false)
	s.CPU.State.PC = base
}
