// Package spc700 implements the Sony SPC700, the audio coprocessor's CPU:
// three 8-bit registers, a zero-page-relative direct page, an 8-bit stack
// confined to page $01, and a 256-entry opcode dispatch table.
package spc700

import (
	"github.com/retrocoderamen/spcdsp/internal/corefault"
	"github.com/retrocoderamen/spcdsp/internal/diag"
)

// Bus is the address space the CPU reads and writes through. internal/memory
// implements this.
type Bus interface {
	Read8(addr uint16) (uint8, error)
	Write8(addr uint16, val uint8) error
}

// State is the complete register file, snapshotted wholesale by save states.
type State struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16
	Status  uint8
}

// CPU is the SPC700 core: registers plus the bus and logger it was wired up
// with.
type CPU struct {
	State State
	bus   Bus
	log   *diag.Logger

	halted *corefault.Fault
}

// NewCPU builds a CPU wired to bus, logging through log (a nil logger is
// valid and silent).
func NewCPU(bus Bus, log *diag.Logger) *CPU {
	c := &CPU{bus: bus, log: log.Component("spc700")}
	c.Reset()
	return c
}

// Reset sets the register file to its post-IPL-boot state: PC at the boot
// ROM entry point, SP at the top of page 1, status clear.
func (c *CPU) Reset() {
	c.State = State{SP: 0xef, PC: 0xffc0}
	c.halted = nil
}

// Halted reports the fault that latched the machine, if any. Once set it is
// permanent for the life of the CPU; Step becomes a no-op.
func (c *CPU) Halted() *corefault.Fault {
	return c.halted
}

func (c *CPU) flag(mask uint8) bool {
	return c.State.Status&mask != 0
}

func (c *CPU) setFlag(mask uint8, v bool) {
	if v {
		c.State.Status |= mask
	} else {
		c.State.Status &^= mask
	}
}

// getSmall maps an 8-bit direct-page offset to its full address, selecting
// page $00 or $01 by the zero-page status bit.
func (c *CPU) getSmall(addr uint8) uint16 {
	return uint16(addr) | (uint16(c.State.Status&FlagZeroPage) << 3)
}

func (c *CPU) readSmall(addr uint8) uint8 {
	v, err := c.bus.Read8(c.getSmall(addr))
	c.latch(err)
	return v
}

func (c *CPU) writeSmall(addr uint8, val uint8) {
	c.latch(c.bus.Write8(c.getSmall(addr), val))
}

func (c *CPU) read16Small(addr uint8) uint16 {
	lo := c.readSmall(addr)
	hi := c.readSmall(addr + 1)
	return uint16(lo) | uint16(hi)<<8
}

func (c *CPU) write16Small(addr uint8, val uint16) {
	c.writeSmall(addr, uint8(val))
	c.writeSmall(addr+1, uint8(val>>8))
}

func (c *CPU) read16(addr uint16) uint16 {
	lo := c.read8(addr)
	hi := c.read8(addr + 1)
	return uint16(lo) | uint16(hi)<<8
}

func (c *CPU) read8(addr uint16) uint8 {
	v, err := c.bus.Read8(addr)
	c.latch(err)
	return v
}

func (c *CPU) write8(addr uint16, val uint8) {
	c.latch(c.bus.Write8(addr, val))
}

// push writes a byte to page $01 at SP and decrements SP.
func (c *CPU) push(val uint8) {
	c.write8(0x100|uint16(c.State.SP), val)
	c.State.SP--
}

// push16 splits val into big-endian bytes and pushes the high byte first,
// so the low byte ends up closer to the current SP (pull16 recovers it
// little-endian).
func (c *CPU) push16(val uint16) {
	c.push(uint8(val >> 8))
	c.push(uint8(val))
}

// pull increments SP then reads page $01 at the new SP.
func (c *CPU) pull() uint8 {
	c.State.SP++
	return c.read8(0x100 | uint16(c.State.SP))
}

func (c *CPU) pull16() uint16 {
	lo := c.pull()
	hi := c.pull()
	return uint16(lo) | uint16(hi)<<8
}

// load fetches the byte at PC and advances PC.
func (c *CPU) load() uint8 {
	v := c.read8(c.State.PC)
	c.State.PC++
	return v
}

func (c *CPU) load16() uint16 {
	lo := c.load()
	hi := c.load()
	return uint16(lo) | uint16(hi)<<8
}

// ya treats Y:A as a little-endian 16-bit pair (Y high, A low), the pairing
// MOVW, MUL, DIV and ADDW/SUBW-style instructions operate on.
func (c *CPU) ya() uint16 {
	return uint16(c.State.A) | uint16(c.State.Y)<<8
}

func (c *CPU) setYA(v uint16) {
	c.State.A = uint8(v)
	c.State.Y = uint8(v >> 8)
}

func (c *CPU) updateNZ8(v uint8) uint8 {
	c.setFlag(FlagZero, v == 0)
	c.setFlag(FlagSign, v&0x80 != 0)
	return v
}

func (c *CPU) updateNZ16(v uint16) uint16 {
	c.setFlag(FlagZero, v == 0)
	c.setFlag(FlagSign, v&0x8000 != 0)
	return v
}

// branchRel applies a signed 8-bit relative branch to PC.
func (c *CPU) branchRel(offset uint8) {
	c.State.PC = uint16(int32(c.State.PC) + int32(int8(offset)))
}

// compare sets N/Z/C for a-b without storing the result, the shared core of
// CMP/CMPX/CMPY across every addressing mode.
func (c *CPU) compare(a, b uint8) {
	r := int16(a) - int16(b)
	c.setFlag(FlagCarry, a >= b)
	c.updateNZ8(uint8(r))
}

// adc is the 8-bit add-with-carry used by ADC across every addressing mode.
// Half-carry here is the nibble-carry approximation the reference decoder
// itself uses (DESIGN.md "DIV flag approximation" records the matching
// decision for DIV; ADC's half-carry follows the same nibble rule).
func (c *CPU) adc(a, b uint8) uint8 {
	carry := uint16(0)
	if c.flag(FlagCarry) {
		carry = 1
	}
	full := uint16(a) + uint16(b) + carry
	c.setFlag(FlagHalfCarry, (a&0xf)+(b&0xf)+uint8(carry) > 0xf)
	c.setFlag(FlagCarry, full > 0xff)
	c.setFlag(FlagOverflow, (a^uint8(full))&(b^uint8(full))&0x80 != 0)
	return c.updateNZ8(uint8(full))
}

func (c *CPU) sbc(a, b uint8) uint8 {
	return c.adc(a, ^b)
}

// add16 is the unsigned 16-bit add used by ADDW, with half carry taken from
// the carry out of bit 11 and carry/overflow from bit 15.
func (c *CPU) add16(a, b uint16) uint16 {
	full := uint32(a) + uint32(b)
	c.setFlag(FlagHalfCarry, (a&0xfff)+(b&0xfff) > 0xfff)
	c.setFlag(FlagCarry, full > 0xffff)
	c.setFlag(FlagOverflow, (a^uint16(full))&(b^uint16(full))&0x8000 != 0)
	return c.updateNZ16(uint16(full))
}

// adc16 is SUBW, computed as a-b by adding the one's complement of b plus a
// forced carry-in of 1, carried through at full 32-bit width so the carry-in
// itself still contributes when b is zero (a-0 must never borrow).
func (c *CPU) adc16(a, b uint16) uint16 {
	nb := ^b
	full := uint32(a) + uint32(nb) + 1
	c.setFlag(FlagHalfCarry, (a&0xfff)+(nb&0xfff)+1 > 0xfff)
	c.setFlag(FlagCarry, full > 0xffff)
	c.setFlag(FlagOverflow, (a^uint16(full))&(nb^uint16(full))&0x8000 != 0)
	return c.updateNZ16(uint16(full))
}

// Snapshot is a save-state-safe projection of a CPU: its register file plus
// a halted fault flattened into plain fields, since corefault.Fault's Kind
// is a sentinel error and not itself gob-encodable.
type Snapshot struct {
	State   State
	Halted  bool
	FaultTag  uint8
	FaultPC   uint16
	FaultAddr uint16
	FaultByte uint8
}

// Snapshot captures the current state for a save state.
func (c *CPU) Snapshot() Snapshot {
	s := Snapshot{State: c.State}
	if c.halted != nil {
		s.Halted = true
		s.FaultTag = c.halted.Tag()
		s.FaultPC = c.halted.PC
		s.FaultAddr = c.halted.Addr
		s.FaultByte = c.halted.Byte
	}
	return s
}

// Restore replaces the current state with a previously captured Snapshot.
// It returns an error only if the snapshot's fault tag is corrupt.
func (c *CPU) Restore(s Snapshot) error {
	c.State = s.State
	if !s.Halted {
		c.halted = nil
		return nil
	}
	f, err := corefault.FromTag(s.FaultTag, s.FaultPC, s.FaultAddr, s.FaultByte)
	if err != nil {
		return err
	}
	c.halted = f
	return nil
}

// latch records a non-nil fault once, permanently halting Step.
func (c *CPU) latch(err error) {
	if err == nil || c.halted != nil {
		return
	}
	if f, ok := err.(*corefault.Fault); ok {
		c.halted = f
		c.log.Errorf("halted: %v", f)
	}
}
