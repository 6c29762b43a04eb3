package dsp

import "github.com/retrocoderamen/spcdsp/internal/sample"

// keyOnVoice re-triggers a voice in response to the fade-in (key-on) mask
// SoundCycle samples each cycle: it reloads the sample start address from
// the source directory, clears the loop/end flags and decode history, and
// enters Attack or Gain mode depending on whether the ADSR envelope is
// enabled for this voice.
func (d *Dsp) keyOnVoice(v *Voice) {
	v.DataAddr = d.readDirWord(v.DirAddr)
	v.LoopBit = false
	v.EndBit = false
	v.Gain = 0
	for i := range v.DecodeBuffer {
		v.DecodeBuffer[i] = 0
	}
	if v.ADSR[0]&0x80 != 0 {
		v.Period = PeriodAttack
	} else {
		v.Period = PeriodGain
	}
}

// readDirWord reads a little-endian 16-bit sample address out of the source
// directory, bypassing the boot ROM overlay the same way the rest of the
// DSP's sample reads do.
func (d *Dsp) readDirWord(addr uint16) uint16 {
	lo := d.ram.ReadRawByte(addr)
	hi := d.ram.ReadRawByte(addr + 1)
	return uint16(lo) | uint16(hi)<<8
}

// pitchStep computes the pitch-counter increment for one voice, applying
// pitch modulation from the previous voice's last output sample when the
// PitchModulation bit is set (voice 0 can never be modulated, since there
// is no voice -1).
func (d *Dsp) pitchStep(i int, v *Voice, lastSample int16) uint16 {
	if i != 0 && d.PitchModulation&(1<<uint(i)) != 0 {
		factor := int32(lastSample>>4) + 0x400
		return uint16((int32(v.Pitch) * factor) >> 10)
	}
	return v.Pitch
}

// decodeNextBlock advances past a pitch-counter overflow into the next BRR
// block: following the loop address on a just-finished sample, then
// unpacking the 9-byte header+data block into 16 new decoded samples
// appended to the rolling decode history.
func (d *Dsp) decodeNextBlock(v *Voice) {
	if v.EndBit {
		v.DataAddr = d.readDirWord(v.DirAddr + 2)
		if !v.LoopBit {
			v.Reset()
		}
	}
	copy(v.DecodeBuffer[0:3], v.DecodeBuffer[len(v.DecodeBuffer)-3:])

	header := d.ram.ReadRawByte(v.DataAddr)
	v.EndBit = header&1 != 0
	v.LoopBit = header&2 != 0
	v.DataAddr++

	shift := header >> 4
	filter := header & 0xc

	for byteID := 0; byteID < 8; byteID++ {
		b := d.ram.ReadRawByte(v.DataAddr)
		v.DataAddr++
		index := byteID << 1
		for nibbleID, raw := range [2]uint8{b >> 4, b & 0xf} {
			idx := index | nibbleID
			signed := int8(raw)
			if raw&8 != 0 {
				signed = int8(raw | 0xf0)
			}

			var s int16
			switch {
			case shift == 0:
				s = int16(signed) >> 1
			case shift <= 12:
				s = int16(signed) << (shift - 1)
			default:
				s = int16(signed>>3) << 11
			}

			older := v.DecodeBuffer[idx+1]
			old := v.DecodeBuffer[idx+2]
			acc := brrFilter(filter, int32(s), int32(old), int32(older))
			v.DecodeBuffer[idx+3] = sample.FoldS15(int32(sample.ClampS16(acc)))
		}
	}
}

// brrFilter applies one of the BRR codec's 4 predictive filters to the
// freshly decoded sample s, given the previous two decoded samples.
func brrFilter(filter uint8, s, old, older int32) int32 {
	switch filter {
	case 0:
		return s
	case 0x4:
		return s + old + (-old >> 4)
	case 0x8:
		return s + old*2 + ((-3 * old) >> 5) - older + (older >> 4)
	default: // 0xc
		return s + old*2 + ((-13 * old) >> 6) - older + ((older * 3) >> 4)
	}
}
