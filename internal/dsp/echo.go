package dsp

import "github.com/retrocoderamen/spcdsp/internal/sample"

// processEcho runs one sample's worth of the 8-tap FIR echo filter. mixed is
// the post-master-volume stereo mix SoundCycle just produced, used both as
// the echo return value's base and, via echoSend, as the feedback input.
// The return value is the final stereo sample after the echo volume mix;
// echoSend is the sum of every voice with its Echo bit set, needed separately
// because it feeds the feedback path rather than the dry mix.
func (d *Dsp) processEcho(mixed sample.Stereo, echoSend sample.Stereo) sample.Stereo {
	addr := d.EchoDataAddr + d.echoBufferOffset
	d.echoBufferOffset += 4

	d.firBuffer[d.firBufferIndex] = Stereo16{
		L: int16(d.ram.ReadRaw16(addr)) >> 1,
		R: int16(d.ram.ReadRaw16(addr+2)) >> 1,
	}

	firL := d.firSum(0)
	firR := d.firSum(1)
	d.firBufferIndex = (d.firBufferIndex + 1) & 7

	out := sample.Stereo{
		Left:  sample.AddSaturating16(mixed.Left, sample.ClampS16((int32(firL)*int32(d.EchoVolume.L))>>7)),
		Right: sample.AddSaturating16(mixed.Right, sample.ClampS16((int32(firR)*int32(d.EchoVolume.R))>>7)),
	}

	if d.Flags&0x20 == 0 {
		fbL := sample.AddSaturating16(echoSend.Left, sample.ClampS16((int32(firL)*int32(d.EchoFeedback))>>7))
		fbR := sample.AddSaturating16(echoSend.Right, sample.ClampS16((int32(firR)*int32(d.EchoFeedback))>>7))
		d.ram.WriteRaw16(addr, uint16(sample.MaskEven(fbL)))
		d.ram.WriteRaw16(addr+2, uint16(sample.MaskEven(fbR)))
	}

	d.echoIndex--
	if d.echoIndex == 0 {
		d.echoIndex = d.EchoDelay
		d.echoBufferOffset = 0
	}

	return out
}

// firSum convolves the 8-sample history ring against the 8 FIR coefficient
// registers (each voice's register $_F slot doubles as FIR tap i's
// coefficient, a hardware register-layout quirk, not a per-voice value).
// The running total is truncated to 16 bits immediately after accumulating
// the 7th tap; real software depends on this artifact, so it is reproduced
// exactly rather than smoothed away.
func (d *Dsp) firSum(channel int) int16 {
	var sum int32
	for tap := uint8(0); tap < 8; tap++ {
		idx := (d.firBufferIndex + tap + 1) & 7
		var s int16
		if channel == 0 {
			s = d.firBuffer[idx].L
		} else {
			s = d.firBuffer[idx].R
		}
		coeff := int32(d.Voices[tap].FIRCoefficient)
		sum += (int32(s) * coeff) >> 6
		if tap == 6 {
			sum = int32(int16(sum)) // truncating wrap, not a saturating clamp
		}
	}
	return sample.ClampS16(sum)
}
