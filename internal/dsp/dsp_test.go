package dsp

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/retrocoderamen/spcdsp/internal/sample"
	"github.com/retrocoderamen/spcdsp/internal/spc700"
)

type capturingSink struct {
	samples []sample.Stereo
}

func (s *capturingSink) PushSample(v sample.Stereo) {
	s.samples = append(s.samples, v)
}

func TestNewResetsFlagsAndNoiseSeed(t *testing.T) {
	d := New(&fakeRAM{}, &capturingSink{}, nil)
	require.Equal(t, uint8(0xe0), d.Flags, "Flags should reset muted with echo writes disabled")
	require.NotZero(t, d.noiseLFSR, "LFSR must never seed to zero or it would never shift")
}

func TestSoundCycleEmitsExactlyOneSample(t *testing.T) {
	sink := &capturingSink{}
	d := New(&fakeRAM{}, sink, nil)

	d.SoundCycle(1)

	require.Len(t, sink.samples, 1)
}

func TestSoundCycleMuteGateSilencesOutput(t *testing.T) {
	sink := &capturingSink{}
	d := New(&fakeRAM{}, sink, nil)
	d.Flags |= 0x40 // mute
	d.MasterVolume = Stereo8{L: 127, R: 127}
	d.Voices[0].Period = PeriodGain
	d.Voices[0].GainMode = 0x7f
	d.Voices[0].VolL, d.Voices[0].VolR = 127, 127
	d.Voices[0].DecodeBuffer[0] = 5000 // nonzero tap so the mute gate is actually exercised

	d.SoundCycle(1)

	require.Equal(t, sample.Stereo{}, sink.samples[0], "mute bit should zero the final output regardless of voice levels")
}

func TestSoundCycleGlobalResetSilencesVoices(t *testing.T) {
	d := New(&fakeRAM{}, &capturingSink{}, nil)
	d.Voices[0].Period = PeriodAttack
	d.Voices[0].Gain = 0x400
	d.Flags |= 0x80 // reset

	d.SoundCycle(1)

	require.Equal(t, PeriodRelease, d.Voices[0].Period)
	require.Zero(t, d.Voices[0].Gain)
}

func TestDspSnapshotRestoreRoundTrip(t *testing.T) {
	d := New(&fakeRAM{}, &capturingSink{}, nil)
	d.MasterVolume = Stereo8{L: 10, R: -10}
	d.Voices[3].Pitch = 0x1234
	d.Voices[3].Period = PeriodDecay
	d.noiseLFSR = 0x2222

	snap := d.Snapshot()

	d2 := New(&fakeRAM{}, &capturingSink{}, nil)
	err := d2.Restore(snap)
	require.NoError(t, err)
	require.Equal(t, d.MasterVolume, d2.MasterVolume)
	require.Equal(t, d.Voices[3].Pitch, d2.Voices[3].Pitch)
	require.Equal(t, d.Voices[3].Period, d2.Voices[3].Period)
	require.Equal(t, d.noiseLFSR, d2.noiseLFSR)
}

func TestDspRestoreRejectsCorruptVoicePeriod(t *testing.T) {
	d := New(&fakeRAM{}, &capturingSink{}, nil)
	snap := d.Snapshot()
	snap.Voices[0].PeriodTag = 200 // outside 0..4

	err := d.Restore(snap)
	require.Error(t, err)
}

// TestClampS16StaysInRange checks the saturating cast every multiply-
// accumulate stage in the DSP pipeline relies on: no int32 input should ever
// escape the signed 16-bit window.
func TestClampS16StaysInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Int32().Draw(t, "v")
		got := sample.ClampS16(v)
		if int32(got) > 32767 || int32(got) < -32768 {
			t.Fatalf("ClampS16(%d) = %d, escaped int16 range", v, got)
		}
		if v >= -32768 && v <= 32767 && int32(got) != v {
			t.Fatalf("ClampS16(%d) = %d, want unchanged in-range value", v, got)
		}
	})
}

// TestAdsrGainNoiseRateTableMatchesSpc700 checks the DSP's transcribed copy
// of the triangular rate table agrees with internal/spc700's materialized
// one for every possible 5-bit register value, since the two packages must
// never drift on this shared formula.
func TestAdsrGainNoiseRateTableMatchesSpc700(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := uint8(rapid.IntRange(0, 31).Draw(t, "n"))
		got := adsrGainNoiseRate(n)
		want := spc700.ADSRGainNoiseRates[n]
		if got != want {
			t.Fatalf("adsrGainNoiseRate(%d) = %d, want %d (internal/spc700's table)", n, got, want)
		}
	})
}
