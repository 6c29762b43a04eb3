package dsp

import "github.com/retrocoderamen/spcdsp/internal/sample"

// SoundCycle runs one full output sample: fade-in/fade-out key edges, a
// global reset if the Flags reset bit is set, every voice's pitch/decode/
// envelope/mix step, master volume, the echo filter, and the final mute
// gate. It is called once per emitted sample by internal/clock's scheduler.
// dispatchCounter is the scheduler's raw counter; fade processing is
// suppressed whenever its low 6 bits are exactly zero, matching the
// hardware's own gating. The finished sample is pushed to the Sink passed
// to New, not returned.
func (d *Dsp) SoundCycle(dispatchCounter uint16) {
	var fadeIn, fadeOut uint8
	if dispatchCounter&0x3f > 0 {
		fadeIn = d.FadeIn
		fadeOut = d.FadeOut
		d.FadeIn &= fadeOut
	}

	if d.Flags&0x80 != 0 {
		for _, v := range d.Voices {
			v.Reset()
		}
	}

	var lastSample int16
	var mix, echoSend sample.Stereo
	for i, v := range d.Voices {
		bit := uint8(1) << uint(i)
		switch {
		case fadeOut&bit != 0:
			v.Period = PeriodRelease
		case fadeIn&bit != 0:
			d.keyOnVoice(v)
		}

		out := d.stepVoice(i, v, lastSample, d.Noise&bit != 0)
		lastSample = out

		contribution := sample.Stereo{
			Left:  int16((int32(out) * int32(v.VolL)) >> 6),
			Right: int16((int32(out) * int32(v.VolR)) >> 6),
		}
		mix.Left = sample.AddSaturating16(mix.Left, contribution.Left)
		mix.Right = sample.AddSaturating16(mix.Right, contribution.Right)

		if d.Echo&bit != 0 {
			echoSend.Left = sample.AddSaturating16(echoSend.Left, int16((int32(out)*int32(v.VolL))>>6))
			echoSend.Right = sample.AddSaturating16(echoSend.Right, int16((int32(out)*int32(v.VolR))>>6))
		}
	}
	d.advanceNoise()

	master := sample.Stereo{
		Left:  sample.ClampS16((int32(mix.Left) * int32(d.MasterVolume.L)) >> 7),
		Right: sample.ClampS16((int32(mix.Right) * int32(d.MasterVolume.R)) >> 7),
	}

	out := d.processEcho(master, echoSend)

	if d.Flags&0x40 != 0 {
		out = sample.Stereo{}
	}
	d.sink.PushSample(out)
}
