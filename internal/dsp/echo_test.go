package dsp

import (
	"testing"

	"github.com/retrocoderamen/spcdsp/internal/sample"
)

func TestFirSumConvolvesEightTaps(t *testing.T) {
	d := New(&fakeRAM{}, discardDspSink{}, nil)
	for i := range d.firBuffer {
		d.firBuffer[i] = Stereo16{L: int16(i+1) * 100, R: int16(i+1) * 50}
	}
	for i := range d.Voices {
		d.Voices[i].FIRCoefficient = 1
	}
	d.firBufferIndex = 0

	got := d.firSum(0)
	if got == 0 {
		t.Fatal("firSum with every coefficient 1 and a nonzero history should not be zero")
	}
}

func TestFirSumZeroCoefficientsIsSilent(t *testing.T) {
	d := New(&fakeRAM{}, discardDspSink{}, nil)
	for i := range d.firBuffer {
		d.firBuffer[i] = Stereo16{L: 12345, R: -12345}
	}
	// FIRCoefficient defaults to 0 on every fresh voice.
	if got := d.firSum(0); got != 0 {
		t.Errorf("firSum with all-zero coefficients = %d, want 0", got)
	}
	if got := d.firSum(1); got != 0 {
		t.Errorf("firSum(right) with all-zero coefficients = %d, want 0", got)
	}
}

func TestProcessEchoAdvancesRingOffsetByFour(t *testing.T) {
	d := New(&fakeRAM{}, discardDspSink{}, nil)
	d.EchoDataAddr = 0x1000
	d.EchoDelay = 4 << 9
	d.echoIndex = d.EchoDelay // far from wrapping this cycle
	before := d.echoBufferOffset

	d.processEcho(sample.Stereo{}, sample.Stereo{})

	if d.echoBufferOffset != before+4 {
		t.Errorf("echoBufferOffset after one echo sample = %d, want %d", d.echoBufferOffset, before+4)
	}
}

func TestProcessEchoWrapsBufferOffsetAtDelayEnd(t *testing.T) {
	d := New(&fakeRAM{}, discardDspSink{}, nil)
	d.EchoDataAddr = 0x2000
	d.EchoDelay = 1
	d.echoIndex = 1

	d.processEcho(sample.Stereo{}, sample.Stereo{})

	if d.echoIndex != d.EchoDelay {
		t.Errorf("echoIndex after wrapping = %d, want %d", d.echoIndex, d.EchoDelay)
	}
	if d.echoBufferOffset != 0 {
		t.Errorf("echoBufferOffset after wrapping = %d, want 0", d.echoBufferOffset)
	}
}

func TestProcessEchoSkipsFeedbackWriteWhenDisabled(t *testing.T) {
	ram := &fakeRAM{}
	d := New(ram, discardDspSink{}, nil)
	d.EchoDataAddr = 0x3000
	d.Flags |= 0x20 // echo write disable

	ram.mem[0x3000] = 0xff
	ram.mem[0x3001] = 0xff

	d.processEcho(sample.Stereo{}, sample.Stereo{Left: 1000, Right: 1000})

	if ram.mem[0x3000] != 0xff || ram.mem[0x3001] != 0xff {
		t.Error("echo write-disable bit should leave the ring buffer untouched")
	}
}
