package dsp

import "github.com/retrocoderamen/spcdsp/internal/corefault"

// AdsrPeriod is the envelope state machine's current phase. Its byte
// encoding is part of the save-state format, so the order here is load
// bearing: Attack=0, Decay=1, Sustain=2, Gain=3, Release=4.
type AdsrPeriod uint8

const (
	PeriodAttack AdsrPeriod = iota
	PeriodDecay
	PeriodSustain
	PeriodGain
	PeriodRelease
)

// DecodeAdsrPeriod turns a save-state tag byte back into an AdsrPeriod,
// raising UnknownSaveDiscriminant for any value outside 0..4.
func DecodeAdsrPeriod(tag uint8) (AdsrPeriod, error) {
	if tag > uint8(PeriodRelease) {
		return 0, corefault.SaveDiscriminant(tag)
	}
	return AdsrPeriod(tag), nil
}

// Voice is one of the DSP's 8 channels: its mixer levels, its BRR source
// state, and its ADSR envelope.
type Voice struct {
	VolL, VolR int8
	Pitch      uint16

	SourceNumber uint8
	DirAddr      uint16 // recomputed whenever SourceNumber or the shared source directory base changes
	DataAddr     uint16 // current BRR block address within the sample

	ADSR     [2]uint8
	GainMode uint8
	Gain     uint16

	VxEnv uint8 // last envelope gain sampled into the register file, read-only to the CPU
	VxOut uint8 // last output sample's high byte, read-only to the CPU

	SustainRate      uint16 // rate-table value for the Sustain period, looked up from ADSR[1]
	SustainThreshold uint16

	FIRCoefficient int8

	DecodeBuffer [19]int16 // BRR nibbles decoded ahead of the current playback position
	PitchCounter uint16

	Period        AdsrPeriod
	PeriodRateMap [4]uint16 // indexed by Period for Attack/Decay/Sustain; Release uses a fixed decrement and Gain mode reads GainMode directly
	RateIndex     uint16

	EndBit  bool
	LoopBit bool

	LastSample int16

	NoiseEnabled bool
	EchoEnabled  bool
	KeyOn        bool
}

// NewVoice returns a voice in its post-reset state: envelope silent,
// Release period, nothing keyed on.
func NewVoice() *Voice {
	v := &Voice{}
	v.Reset()
	return v
}

// Reset silences the voice, matching a DSP flags-register global reset
// (master reset bit, $6C bit 7).
func (v *Voice) Reset() {
	v.Period = PeriodRelease
	v.Gain = 0
	v.KeyOn = false
	v.EndBit = false
}

// VoiceSnapshot is a save-state-safe projection of a Voice: everything the
// live struct holds, with Period flattened to a plain byte so a corrupt
// save file is caught by DecodeAdsrPeriod instead of silently aliasing an
// out-of-range AdsrPeriod.
type VoiceSnapshot struct {
	VolL, VolR       int8
	Pitch            uint16
	SourceNumber     uint8
	DirAddr          uint16
	DataAddr         uint16
	ADSR             [2]uint8
	GainMode         uint8
	Gain             uint16
	VxEnv            uint8
	VxOut            uint8
	SustainRate      uint16
	SustainThreshold uint16
	FIRCoefficient   int8
	DecodeBuffer     [19]int16
	PitchCounter     uint16
	PeriodTag        uint8
	PeriodRateMap    [4]uint16
	RateIndex        uint16
	EndBit           bool
	LoopBit          bool
	LastSample       int16
	NoiseEnabled     bool
	EchoEnabled      bool
	KeyOn            bool
}

// Snapshot captures v for a save state.
func (v *Voice) Snapshot() VoiceSnapshot {
	return VoiceSnapshot{
		VolL: v.VolL, VolR: v.VolR,
		Pitch:            v.Pitch,
		SourceNumber:     v.SourceNumber,
		DirAddr:          v.DirAddr,
		DataAddr:         v.DataAddr,
		ADSR:             v.ADSR,
		GainMode:         v.GainMode,
		Gain:             v.Gain,
		VxEnv:            v.VxEnv,
		VxOut:            v.VxOut,
		SustainRate:      v.SustainRate,
		SustainThreshold: v.SustainThreshold,
		FIRCoefficient:   v.FIRCoefficient,
		DecodeBuffer:     v.DecodeBuffer,
		PitchCounter:     v.PitchCounter,
		PeriodTag:        uint8(v.Period),
		PeriodRateMap:    v.PeriodRateMap,
		RateIndex:        v.RateIndex,
		EndBit:           v.EndBit,
		LoopBit:          v.LoopBit,
		LastSample:       v.LastSample,
		NoiseEnabled:     v.NoiseEnabled,
		EchoEnabled:      v.EchoEnabled,
		KeyOn:            v.KeyOn,
	}
}

// Restore replaces v's state with a previously captured VoiceSnapshot,
// rejecting a corrupt PeriodTag via DecodeAdsrPeriod.
func (v *Voice) Restore(s VoiceSnapshot) error {
	period, err := DecodeAdsrPeriod(s.PeriodTag)
	if err != nil {
		return err
	}
	v.VolL, v.VolR = s.VolL, s.VolR
	v.Pitch = s.Pitch
	v.SourceNumber = s.SourceNumber
	v.DirAddr = s.DirAddr
	v.DataAddr = s.DataAddr
	v.ADSR = s.ADSR
	v.GainMode = s.GainMode
	v.Gain = s.Gain
	v.VxEnv = s.VxEnv
	v.VxOut = s.VxOut
	v.SustainRate = s.SustainRate
	v.SustainThreshold = s.SustainThreshold
	v.FIRCoefficient = s.FIRCoefficient
	v.DecodeBuffer = s.DecodeBuffer
	v.PitchCounter = s.PitchCounter
	v.Period = period
	v.PeriodRateMap = s.PeriodRateMap
	v.RateIndex = s.RateIndex
	v.EndBit = s.EndBit
	v.LoopBit = s.LoopBit
	v.LastSample = s.LastSample
	v.NoiseEnabled = s.NoiseEnabled
	v.EchoEnabled = s.EchoEnabled
	v.KeyOn = s.KeyOn
	return nil
}
