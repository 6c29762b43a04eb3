package dsp

import "testing"

func TestAttackStepsTowardDecay(t *testing.T) {
	v := NewVoice()
	v.Period = PeriodAttack
	v.Gain = 0x7be

	v.updateGain(2) // any rate other than 1 takes the +32 step
	if v.Gain != 0x7de {
		t.Fatalf("Gain after attack step = %#x, want 0x7de", v.Gain)
	}
	if v.Period != PeriodAttack {
		t.Fatalf("Period = %v, want still PeriodAttack below the 0x7df threshold", v.Period)
	}

	v.updateGain(2)
	if v.Gain != 0x7fe {
		t.Fatalf("Gain after crossing threshold = %#x, want 0x7fe", v.Gain)
	}
	if v.Period != PeriodDecay {
		t.Fatalf("Period = %v, want PeriodDecay once Gain > 0x7df", v.Period)
	}
}

func TestAttackRateOneUsesFastStep(t *testing.T) {
	v := NewVoice()
	v.Period = PeriodAttack
	v.Gain = 0

	v.updateGain(1)
	if v.Gain != 1024 {
		t.Fatalf("Gain after rate-1 attack step = %d, want 1024", v.Gain)
	}
}

func TestAttackGainClampsAt0x7ff(t *testing.T) {
	v := NewVoice()
	v.Period = PeriodAttack
	v.Gain = 0x7f0

	v.updateGain(1) // +1024 would overflow 0x7ff
	if v.Gain != 0x7ff {
		t.Fatalf("Gain after overflowing attack step = %#x, want 0x7ff", v.Gain)
	}
}

func TestDecayFallsThroughToSustain(t *testing.T) {
	v := NewVoice()
	v.Period = PeriodDecay
	v.SustainThreshold = 0x100
	v.Gain = 0x101

	v.updateGain(2)
	if v.Period != PeriodSustain {
		t.Fatalf("Period after decaying below threshold = %v, want PeriodSustain", v.Period)
	}
}

func TestReleaseRampsDownByEightPerSample(t *testing.T) {
	v := NewVoice()
	v.Period = PeriodRelease
	v.Gain = 100

	v.advanceEnvelope()
	if v.Gain != 92 {
		t.Fatalf("Gain after one release tick = %d, want 92", v.Gain)
	}
}

func TestReleaseSaturatesAtZero(t *testing.T) {
	v := NewVoice()
	v.Period = PeriodRelease
	v.Gain = 3

	v.advanceEnvelope()
	if v.Gain != 0 {
		t.Fatalf("Gain after release past zero = %d, want 0", v.Gain)
	}
}

func TestGainModeBypassesRateTable(t *testing.T) {
	v := NewVoice()
	v.Period = PeriodGain
	v.ADSR[0] = 0 // ADSR disabled, so GainMode's low 7 bits are the level directly
	v.GainMode = 0x55

	v.advanceEnvelope()
	if v.Gain != 0x55 {
		t.Fatalf("Gain in direct gain mode = %#x, want 0x55", v.Gain)
	}
}

func TestRateIndexGatesUpdateGain(t *testing.T) {
	v := NewVoice()
	v.Period = PeriodAttack
	v.ADSR[0] = 0x80 // ADSR enabled, so advanceEnvelope consults PeriodRateMap
	v.PeriodRateMap[PeriodAttack] = 3
	v.Gain = 0

	v.advanceEnvelope() // RateIndex 0->1, below rate, no update
	v.advanceEnvelope() // 1->2
	if v.Gain != 0 {
		t.Fatalf("Gain ticked before RateIndex reached rate: %d", v.Gain)
	}
	v.advanceEnvelope() // 2->3, wraps, updateGain fires
	if v.Gain == 0 {
		t.Fatal("Gain never advanced once RateIndex reached the configured rate")
	}
	if v.RateIndex != 0 {
		t.Fatalf("RateIndex after wrap = %d, want reset to 0", v.RateIndex)
	}
}

func TestSubSatSaturatesAtZero(t *testing.T) {
	if got := subSat(3, 8); got != 0 {
		t.Errorf("subSat(3, 8) = %d, want 0", got)
	}
	if got := subSat(8, 3); got != 5 {
		t.Errorf("subSat(8, 3) = %d, want 5", got)
	}
}
