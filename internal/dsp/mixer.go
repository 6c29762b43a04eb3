package dsp

import "github.com/retrocoderamen/spcdsp/internal/sample"

// interpolate runs the 4-tap Gaussian resampler against a voice's decode
// history at its current sub-sample pitch-counter phase. The running sum is
// intentionally truncated to 16 bits after the 3rd tap before the 4th is
// added; this mirrors a real hardware artifact in the interpolation path and
// must not be replaced with a saturating clamp.
func interpolate(buf *[19]int16, pitchCounter uint16) int16 {
	phase := (pitchCounter >> 4) & 0xff
	base := int(pitchCounter >> 12)

	sum := (gaussTable[0xff-phase] * int32(buf[base])) >> 10
	sum += (gaussTable[0x1ff-phase] * int32(buf[base+1])) >> 10
	sum += (gaussTable[0x100+phase] * int32(buf[base+2])) >> 10
	sum = int32(int16(sum))
	sum += (gaussTable[phase] * int32(buf[base+3])) >> 10

	return sample.ClampS16(sum) >> 1
}

// stepVoice runs one voice through one sample period: pitch advance, BRR
// decode on overflow, interpolation (or noise substitution), envelope
// progression and the final gain-scaled output sample. Pitch and decode
// buffer advancement always run even when noise is substituted for this
// voice's output, so toggling the noise bit resumes BRR playback at the
// correct position. It returns the voice's post-gain sample, which feeds
// last_sample for the next voice's pitch modulation and the master mix.
func (d *Dsp) stepVoice(i int, v *Voice, lastSample int16, noise bool) int16 {
	step := d.pitchStep(i, v, lastSample)
	overflowed := v.PitchCounter+step < v.PitchCounter
	v.PitchCounter += step
	if overflowed {
		d.decodeNextBlock(v)
	}

	var out int16
	if noise {
		out = d.noiseSample()
	} else {
		out = interpolate(&v.DecodeBuffer, v.PitchCounter)
	}

	v.advanceEnvelope()

	out = sample.ClampS16((int32(out) * int32(v.Gain)) >> 11)
	v.LastSample = out
	v.VxEnv = uint8(v.Gain >> 4)
	v.VxOut = uint8(out >> 7)
	return out
}
