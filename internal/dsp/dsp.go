// Package dsp implements the 8-voice stereo sound processor: BRR sample
// decoding, Gaussian interpolation, ADSR envelopes, an 8-tap echo filter
// and the 128-register control surface the SPC700 reaches through $F2/$F3.
package dsp

import (
	"github.com/retrocoderamen/spcdsp/internal/diag"
	"github.com/retrocoderamen/spcdsp/internal/sample"
)

// RAM is the raw sample-memory seam the DSP reads BRR blocks and the echo
// ring buffer from. internal/memory.Memory implements this; the DSP never
// goes through the boot ROM overlay, matching the source's read16_norom/
// write16_norom split.
type RAM interface {
	ReadRawByte(addr uint16) uint8
	ReadRaw16(addr uint16) uint16
	WriteRaw16(addr uint16, val uint16)
}

// Sink is the audio output seam: SoundCycle pushes exactly one stereo
// sample into it per call. internal/system wires this to the host's audio
// backend (see cmd/spcplay's oto sink).
type Sink interface {
	PushSample(s sample.Stereo)
}

const voiceCount = 8

// Dsp is the whole sound processor, exposing the 128-register file at $F2/
// $F3 (see registers.go) and one SoundCycle per emitted sample.
type Dsp struct {
	Voices [voiceCount]*Voice

	MasterVolume Stereo8
	EchoVolume   Stereo8
	FadeIn       uint8
	FadeOut      uint8
	Flags        uint8
	EchoFeedback int8

	PitchModulation uint8 // bit i: voice i's pitch is modulated by voice i-1's output
	Noise           uint8 // bit i: voice i plays the noise generator instead of BRR
	Echo            uint8 // bit i: voice i's output also feeds the echo buffer

	SourceDirAddr uint16 // sample directory base address; register holds the high byte
	EchoDataAddr  uint16 // echo ring buffer base address; register holds the high byte
	EchoDelay     uint16 // ring length in samples; register holds (EchoDelay >> 9)

	echoIndex        uint16 // counts down from EchoDelay to 0, then wraps echoBufferOffset
	echoBufferOffset uint16 // current byte offset within the echo ring
	firBuffer        [8]Stereo16
	firBufferIndex   uint8

	noiseLFSR        uint16
	noiseRateCounter uint16

	ram  RAM
	sink Sink
	log  *diag.Logger
}

// Stereo8 is a pair of signed 8-bit levels, the register file's native
// width for volume controls.
type Stereo8 struct {
	L, R int8
}

// Stereo16 is a pair of signed 16-bit samples, used by the echo FIR's ring
// buffer.
type Stereo16 struct {
	L, R int16
}

// New builds a Dsp with every voice silent and the flags register at its
// documented reset value (echo and mute both disabled is $00; the reference
// decoder resets flags to 0xe0, muting output and disabling echo writes
// until firmware configures it).
func New(ram RAM, sink Sink, log *diag.Logger) *Dsp {
	d := &Dsp{ram: ram, sink: sink, log: log.Component("dsp")}
	for i := range d.Voices {
		d.Voices[i] = NewVoice()
	}
	d.Flags = 0xe0
	d.EchoDelay = 1
	d.echoIndex = 1
	d.noiseLFSR = 0x4000
	return d
}

// Snapshot is a save-state-safe projection of the whole DSP: every voice by
// value plus the global registers and the echo/noise state machinery that
// never surfaces through the register file.
type Snapshot struct {
	Voices [voiceCount]VoiceSnapshot

	MasterVolume    Stereo8
	EchoVolume      Stereo8
	FadeIn          uint8
	FadeOut         uint8
	Flags           uint8
	EchoFeedback    int8
	PitchModulation uint8
	Noise           uint8
	Echo            uint8
	SourceDirAddr   uint16
	EchoDataAddr    uint16
	EchoDelay       uint16

	EchoIndex        uint16
	EchoBufferOffset uint16
	FirBuffer        [8]Stereo16
	FirBufferIndex   uint8

	NoiseLFSR        uint16
	NoiseRateCounter uint16
}

// Snapshot captures the current state for a save state.
func (d *Dsp) Snapshot() Snapshot {
	s := Snapshot{
		MasterVolume:     d.MasterVolume,
		EchoVolume:       d.EchoVolume,
		FadeIn:           d.FadeIn,
		FadeOut:          d.FadeOut,
		Flags:            d.Flags,
		EchoFeedback:     d.EchoFeedback,
		PitchModulation:  d.PitchModulation,
		Noise:            d.Noise,
		Echo:             d.Echo,
		SourceDirAddr:    d.SourceDirAddr,
		EchoDataAddr:     d.EchoDataAddr,
		EchoDelay:        d.EchoDelay,
		EchoIndex:        d.echoIndex,
		EchoBufferOffset: d.echoBufferOffset,
		FirBuffer:        d.firBuffer,
		FirBufferIndex:   d.firBufferIndex,
		NoiseLFSR:        d.noiseLFSR,
		NoiseRateCounter: d.noiseRateCounter,
	}
	for i, v := range d.Voices {
		s.Voices[i] = v.Snapshot()
	}
	return s
}

// Restore replaces the current state with a previously captured Snapshot,
// rejecting it outright if any voice's period tag is corrupt.
func (d *Dsp) Restore(s Snapshot) error {
	for i := range s.Voices {
		if _, err := DecodeAdsrPeriod(s.Voices[i].PeriodTag); err != nil {
			return err
		}
	}
	d.MasterVolume = s.MasterVolume
	d.EchoVolume = s.EchoVolume
	d.FadeIn = s.FadeIn
	d.FadeOut = s.FadeOut
	d.Flags = s.Flags
	d.EchoFeedback = s.EchoFeedback
	d.PitchModulation = s.PitchModulation
	d.Noise = s.Noise
	d.Echo = s.Echo
	d.SourceDirAddr = s.SourceDirAddr
	d.EchoDataAddr = s.EchoDataAddr
	d.EchoDelay = s.EchoDelay
	d.echoIndex = s.EchoIndex
	d.echoBufferOffset = s.EchoBufferOffset
	d.firBuffer = s.FirBuffer
	d.firBufferIndex = s.FirBufferIndex
	d.noiseLFSR = s.NoiseLFSR
	d.noiseRateCounter = s.NoiseRateCounter
	for i := range d.Voices {
		if err := d.Voices[i].Restore(s.Voices[i]); err != nil {
			return err
		}
	}
	return nil
}
