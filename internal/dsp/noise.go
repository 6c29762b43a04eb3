package dsp

// noiseRateIndex is the low 5 bits of the flags register, packed alongside
// mute/echo-write-disable/reset the same way the real hardware's NON clock
// shares $6C with those bits.
func (d *Dsp) noiseRateIndex() uint8 {
	return d.Flags & 0x1f
}

// advanceNoise ticks the shared 15-bit noise LFSR once per sample at the
// rate the low 5 bits of Flags select, reusing the same triangular rate
// table the envelope uses.
func (d *Dsp) advanceNoise() {
	rate := adsrGainNoiseRate(d.noiseRateIndex())
	d.noiseRateCounter++
	if d.noiseRateCounter < rate {
		return
	}
	d.noiseRateCounter = 0
	feedback := (d.noiseLFSR ^ (d.noiseLFSR >> 1)) & 1
	d.noiseLFSR = (d.noiseLFSR >> 1) | (feedback << 14)
}

// noiseSample sign-extends the LFSR's low 15 bits into a signed 16-bit
// sample, the value substituted for a voice's interpolated output whenever
// its Noise bit is set.
func (d *Dsp) noiseSample() int16 {
	v := d.noiseLFSR & 0x7fff
	if v&0x4000 != 0 {
		return int16(v) - 0x8000
	}
	return int16(v)
}
