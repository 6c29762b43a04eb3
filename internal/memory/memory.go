// Package memory is the SPC700's address space: 64KiB of flat RAM, a
// 64-byte boot ROM overlaid at the top of the map, and the $F0-$FF MMIO
// window that the CPU, the host mailbox and the DSP register file all share.
package memory

import (
	"github.com/retrocoderamen/spcdsp/internal/corefault"
	"github.com/retrocoderamen/spcdsp/internal/diag"
)

// DSPPort is the seam the DSP register file ($F2/$F3) is reached through.
// internal/dsp's Dsp type implements this.
type DSPPort interface {
	ReadRegister(id uint8) uint8
	WriteRegister(id uint8, val uint8)
}

// bootROM is the fixed 64-byte IPL boot ROM, mapped at $FFC0-$FFFF whenever
// the overlay is enabled.
var bootROM = [64]uint8{
	0xCD, 0xEF, 0xBD, 0xE8, 0x00, 0xC6, 0x1D, 0xD0, 0xFC, 0x8F, 0xAA, 0xF4, 0x8F, 0xBB, 0xF5, 0x78,
	0xCC, 0xF4, 0xD0, 0xFB, 0x2F, 0x19, 0xEB, 0xF4, 0xD0, 0xFC, 0x7E, 0xF4, 0xD0, 0x0B, 0xE4, 0xF5,
	0xCB, 0xF4, 0xD7, 0x00, 0xFC, 0xD0, 0xF3, 0xAB, 0x01, 0x10, 0xEF, 0x7E, 0xF4, 0x10, 0xEB, 0xBA,
	0xF6, 0xDA, 0x00, 0xBA, 0xF4, 0xC4, 0xF4, 0xDD, 0x5D, 0xD0, 0xDB, 0x1F, 0x00, 0x00, 0xC0, 0xFF,
}

// Memory is the flat address space plus the MMIO block at $F0-$FF.
type Memory struct {
	ram [0x10000]uint8

	dspAddr uint8 // $F2: register index latch for $F3
	dsp     DSPPort

	input  [4]uint8 // $F4-$F7 as seen by the CPU (host writes these)
	output [4]uint8 // $F4-$F7 as seen by the host (CPU writes these)

	control     uint8    // last byte written to $F1
	timerEnable uint8    // low 3 bits of $F1
	timers      [3]uint8 // free-running dividers, wrap at timerMax
	timerMax    [3]uint8 // $FA/$FB/$FC
	counters    [3]uint8 // $FD/$FE/$FF, 4-bit, read-and-clear

	log *diag.Logger
}

// New builds a Memory with RAM zeroed and the boot ROM overlay enabled,
// matching $F0's documented reset value of 0x80.
func New(log *diag.Logger) *Memory {
	m := &Memory{log: log.Component("memory")}
	m.ram[0xf0] = 0x80
	return m
}

// isROMMapped reports whether the boot ROM overlay is active. $F0 is a
// plain RAM byte from the bus's point of view; bit 7 happens to be the
// overlay's enable switch, read back directly rather than mirrored into a
// separate field.
func (m *Memory) isROMMapped() bool {
	return m.ram[0xf0]&0x80 != 0
}

// AttachDSP wires the DSP register file in behind $F2/$F3.
func (m *Memory) AttachDSP(dsp DSPPort) {
	m.dsp = dsp
}

// Read8 dispatches a CPU-visible read, applying the boot ROM overlay and the
// $F0-$FF MMIO routing.
func (m *Memory) Read8(addr uint16) (uint8, error) {
	switch {
	case addr == 0xf2:
		return m.dspAddr, nil
	case addr == 0xf3:
		return m.dsp.ReadRegister(m.dspAddr), nil
	case addr >= 0xf4 && addr <= 0xf7:
		return m.input[addr-0xf4], nil
	case addr >= 0xfd && addr <= 0xff:
		i := addr - 0xfd
		v := m.counters[i]
		m.counters[i] = 0
		return v, nil
	case addr == 0xf1 || (addr >= 0xf8 && addr <= 0xff):
		return 0, corefault.Mmio(addr)
	case m.isROMMapped() && addr >= 0xffc0:
		return bootROM[addr&0x3f], nil
	default:
		return m.ram[addr], nil
	}
}

// Write8 dispatches a CPU-visible write, applying the same MMIO routing as
// Read8. The boot ROM overlay never intercepts writes: $FFC0-$FFFF is RAM
// underneath it.
func (m *Memory) Write8(addr uint16, val uint8) error {
	switch {
	case addr == 0xf1:
		m.writeControl(val)
	case addr == 0xf2:
		m.dspAddr = val
	case addr == 0xf3:
		m.dsp.WriteRegister(m.dspAddr, val)
	case addr >= 0xf4 && addr <= 0xf7:
		m.output[addr-0xf4] = val
	case addr == 0xfa || addr == 0xfb || addr == 0xfc:
		i := (^uint8(addr) & 3) ^ 1
		m.timerMax[i] = val
	case addr == 0xf8 || addr == 0xf9 || addr == 0xfd || addr == 0xfe || addr == 0xff:
		return corefault.Mmio(addr)
	default:
		m.ram[addr] = val
	}
	return nil
}

// writeControl implements $F1: mailbox-half clear bits, timer enable bits
// and the edge-triggered reset of any timer whose enable bit just went high.
func (m *Memory) writeControl(val uint8) {
	if val&0x10 != 0 {
		m.input[0] = 0
		m.input[1] = 0
	}
	if val&0x20 != 0 {
		m.input[2] = 0
		m.input[3] = 0
	}
	active := val &^ m.timerEnable
	m.timerEnable = val & 7
	m.control = val
	for i := 0; i < 3; i++ {
		if active&(1<<uint(i)) != 0 {
			m.counters[i] = 0
			m.timers[i] = 0
		}
	}
}

// ReadRaw16 reads a little-endian 16-bit value straight from RAM, bypassing
// the boot ROM overlay. The DSP's echo path uses this: it reads and writes
// ring-buffer samples even while the overlay covers $FFC0-$FFFF for the CPU.
func (m *Memory) ReadRaw16(addr uint16) uint16 {
	lo := m.ram[addr]
	hi := m.ram[addr+1]
	return uint16(lo) | uint16(hi)<<8
}

// WriteRaw16 writes a little-endian 16-bit value straight to RAM, bypassing
// the overlay, for the same reason as ReadRaw16.
func (m *Memory) WriteRaw16(addr uint16, val uint16) {
	m.ram[addr] = uint8(val)
	m.ram[addr+1] = uint8(val >> 8)
}

// ReadRawByte reads a RAM byte with no overlay or MMIO routing, used by the
// BRR decoder to fetch source directory entries and sample bytes.
func (m *Memory) ReadRawByte(addr uint16) uint8 {
	return m.ram[addr]
}

// SetInput sets one of the four host-to-SPC700 mailbox bytes ($F4-$F7 as
// read by the CPU).
func (m *Memory) SetInput(i int, v uint8) {
	m.input[i] = v
}

// Output returns one of the four SPC700-to-host mailbox bytes ($F4-$F7 as
// written by the CPU).
func (m *Memory) Output(i int) uint8 {
	return m.output[i]
}

// SetROMEnabled toggles the boot ROM overlay directly, for harness/test use;
// ordinary CPU code only ever sets this indirectly by writing $F0.
func (m *Memory) SetROMEnabled(v bool) {
	if v {
		m.ram[0xf0] |= 0x80
	} else {
		m.ram[0xf0] &^= 0x80
	}
}

// Snapshot is Memory's save-state-safe projection of every mutable field.
type Snapshot struct {
	RAM         [0x10000]uint8
	DspAddr     uint8
	Input       [4]uint8
	Output      [4]uint8
	Control     uint8
	TimerEnable uint8
	Timers      [3]uint8
	TimerMax    [3]uint8
	Counters    [3]uint8
}

// Snapshot captures the current state for a save state.
func (m *Memory) Snapshot() Snapshot {
	return Snapshot{
		RAM:         m.ram,
		DspAddr:     m.dspAddr,
		Input:       m.input,
		Output:      m.output,
		Control:     m.control,
		TimerEnable: m.timerEnable,
		Timers:      m.timers,
		TimerMax:    m.timerMax,
		Counters:    m.counters,
	}
}

// Restore replaces the current state with a previously captured Snapshot.
func (m *Memory) Restore(s Snapshot) {
	m.ram = s.RAM
	m.dspAddr = s.DspAddr
	m.input = s.Input
	m.output = s.Output
	m.control = s.Control
	m.timerEnable = s.TimerEnable
	m.timers = s.Timers
	m.timerMax = s.TimerMax
	m.counters = s.Counters
}

// TickTimer advances hardware timer i one dispatch-counter step, called by
// internal/clock at the cadence SPEC_FULL §4.8 specifies (timer 2 every 16
// cycles, timers 0 and 1 every 128).
func (m *Memory) TickTimer(i int) {
	if m.timerEnable&(1<<uint(i)) == 0 {
		return
	}
	m.timers[i]++
	if m.timers[i] == m.timerMax[i] {
		m.timers[i] = 0
		m.counters[i] = (m.counters[i] + 1) & 0xf
	}
}
