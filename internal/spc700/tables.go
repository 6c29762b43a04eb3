package spc700

// Status flag bits, in the order the hardware packs them into the 8-bit
// status byte.
const (
	FlagCarry     = 0x01
	FlagZero      = 0x02
	FlagInterrupt = 0x04
	FlagHalfCarry = 0x08
	FlagBreak     = 0x10
	FlagZeroPage  = 0x20
	FlagOverflow  = 0x40
	FlagSign      = 0x80
)

// cycles is the per-opcode cycle count, indexed by opcode byte. A 0 entry
// marks an opcode with no assigned timing because dispatch never reaches
// it (see dispatch.go's fallthrough to UnimplementedInstruction).
var cycles = [256]uint8{
	2, 0, 4, 5, 3, 4, 3, 6, 2, 6, 5, 4, 5, 4, 6, 0,
	2, 0, 4, 5, 4, 5, 5, 6, 5, 5, 6, 0, 2, 2, 4, 6,
	2, 0, 4, 5, 3, 4, 3, 6, 2, 6, 5, 4, 5, 4, 5, 2,
	2, 0, 4, 5, 4, 5, 5, 6, 5, 0, 6, 0, 2, 2, 3, 8,
	2, 0, 4, 5, 3, 4, 3, 6, 2, 0, 4, 4, 5, 4, 6, 0,
	2, 0, 4, 5, 4, 5, 5, 6, 5, 0, 4, 5, 2, 2, 4, 3,
	2, 0, 4, 5, 3, 4, 3, 2, 2, 6, 4, 4, 5, 4, 5, 5,
	2, 0, 4, 5, 4, 5, 5, 6, 5, 0, 5, 0, 2, 2, 3, 0,
	2, 0, 4, 5, 3, 4, 3, 6, 2, 6, 5, 4, 5, 2, 4, 5,
	2, 0, 4, 5, 4, 5, 5, 6, 5, 0, 5, 5, 2, 2, 12, 5,
	3, 0, 4, 5, 3, 4, 3, 6, 2, 0, 4, 4, 5, 2, 4, 4,
	2, 0, 4, 5, 4, 5, 5, 6, 0, 0, 5, 5, 2, 2, 0, 4,
	3, 0, 4, 5, 4, 5, 4, 7, 2, 5, 6, 4, 5, 2, 4, 9,
	2, 0, 4, 5, 5, 6, 6, 7, 4, 5, 5, 5, 2, 2, 6, 0,
	2, 0, 4, 5, 3, 4, 3, 6, 2, 4, 5, 3, 4, 3, 4, 0,
	2, 0, 4, 5, 4, 5, 5, 6, 3, 4, 5, 4, 2, 2, 4, 0,
}

// adsrGainNoiseRates is the 32-entry triangular-encoded rate table shared by
// the DSP's ADSR envelope and noise generator. Transcribed here so both
// internal/spc700 tests and internal/dsp can share one formula: for n >= 0
// and < 0x1a, inv = 0x22-n, x = inv/3, y = inv%3, rate = (1<<(x-2))*y + (1<<x);
// for n >= 0x1a, rate = 0x20-n.
func adsrGainNoiseRate(n uint8) uint16 {
	if n >= 0x1a {
		return uint16(0x20 - n)
	}
	inv := 0x22 - uint16(n)
	x := inv / 3
	y := inv % 3
	return (uint16(1)<<(x-2))*y + (uint16(1) << x)
}

// ADSRGainNoiseRates is the fully materialized 32-entry table.
var ADSRGainNoiseRates = func() [32]uint16 {
	var t [32]uint16
	for i := range t {
		t[i] = adsrGainNoiseRate(uint8(i))
	}
	return t
}()
