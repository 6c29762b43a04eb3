package spc700

import (
	"testing"

	"pgregory.net/rapid"
)

func TestAdcSbcFlagRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := uint8(rapid.IntRange(0, 255).Draw(t, "a"))
		b := uint8(rapid.IntRange(0, 255).Draw(t, "b"))

		cpu, _ := newTestCPU(nil, 0)
		cpu.setFlag(FlagCarry, false)
		sum := cpu.adc(a, b)
		wantOverflow := (int8(a) >= 0) == (int8(b) >= 0) && (int8(a) >= 0) != (int8(sum) >= 0)
		if cpu.flag(FlagOverflow) != wantOverflow {
			t.Fatalf("adc(%d,%d) overflow = %v, want %v", a, b, cpu.flag(FlagOverflow), wantOverflow)
		}

		cpu.setFlag(FlagCarry, true)
		back := cpu.sbc(sum, b)
		if back != a {
			t.Fatalf("sbc(adc(%d,%d),%d) = %d, want %d", a, b, b, back, a)
		}
	})
}

func TestAdcHalfCarryNibbleApproximation(t *testing.T) {
	cpu, _ := newTestCPU(nil, 0)
	cpu.setFlag(FlagCarry, false)
	cpu.adc(0x0f, 0x01)
	if !cpu.flag(FlagHalfCarry) {
		t.Error("adc(0x0f,0x01) should set HalfCarry, nibble sum crosses 0xf")
	}

	cpu.setFlag(FlagCarry, false)
	cpu.adc(0x01, 0x01)
	if cpu.flag(FlagHalfCarry) {
		t.Error("adc(0x01,0x01) should not set HalfCarry")
	}
}

func TestDivYAXGeneralCase(t *testing.T) {
	cpu, _ := newTestCPU(nil, 0)
	cpu.State.Y = 0x05
	cpu.State.A = 0x00 // YA = 0x0500 = 1280
	cpu.State.X = 0x10 // divide by 16

	cpu.divYAX()

	if cpu.State.A != 0x50 {
		t.Errorf("A (quotient) = %#x, want 0x50", cpu.State.A)
	}
	if cpu.State.Y != 0x00 {
		t.Errorf("Y (remainder) = %#x, want 0x00", cpu.State.Y)
	}
	if cpu.flag(FlagOverflow) {
		t.Error("Overflow should be clear, quotient fits in 8 bits")
	}
	// HalfCarry is (X&0xf) <= (Y&0xf): (0x10&0xf)=0 <= (0x05&0xf)=5 -> true.
	if !cpu.flag(FlagHalfCarry) {
		t.Error("HalfCarry should be set: (X&0xf)=0 <= (Y&0xf)=5")
	}
}

func TestDivYAXHalfCarryOperandOrder(t *testing.T) {
	cpu, _ := newTestCPU(nil, 0)
	cpu.State.Y = 0x01
	cpu.State.A = 0x00
	cpu.State.X = 0x09 // (X&0xf)=9 <= (Y&0xf)=1 is false

	cpu.divYAX()

	if cpu.flag(FlagHalfCarry) {
		t.Error("HalfCarry should be clear: (X&0xf)=9 is not <= (Y&0xf)=1")
	}
}

func TestDivYAXByZeroSetsOverflowAndHalfCarry(t *testing.T) {
	cpu, _ := newTestCPU(nil, 0)
	cpu.State.Y = 0x12
	cpu.State.A = 0x34
	cpu.State.X = 0

	cpu.divYAX()

	if !cpu.flag(FlagOverflow) {
		t.Error("dividing by zero should set Overflow")
	}
	if !cpu.flag(FlagHalfCarry) {
		t.Error("dividing by zero should set HalfCarry")
	}
	if cpu.State.A != 0xff {
		t.Errorf("A after divide by zero = %#x, want 0xff", cpu.State.A)
	}
	if cpu.State.Y != 0x34 {
		t.Errorf("Y after divide by zero = %#x, want low byte of YA (0x34)", cpu.State.Y)
	}
}

func TestDivYAXByZeroProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		y := uint8(rapid.IntRange(0, 255).Draw(t, "y"))
		a := uint8(rapid.IntRange(0, 255).Draw(t, "a"))

		cpu, _ := newTestCPU(nil, 0)
		cpu.State.Y = y
		cpu.State.A = a
		cpu.State.X = 0

		cpu.divYAX()

		if !cpu.flag(FlagOverflow) || !cpu.flag(FlagHalfCarry) {
			t.Fatalf("DIV YA,0 with YA=%#02x%02x must always set Overflow and HalfCarry", y, a)
		}
		if cpu.State.A != 0xff || cpu.State.Y != a {
			t.Fatalf("DIV YA,0 with YA=%#02x%02x left A=%#x Y=%#x, want A=0xff Y=%#x", y, a, cpu.State.A, cpu.State.Y, a)
		}
	})
}

func TestAddwZeroOperandNeverCarries(t *testing.T) {
	cpu, _ := newTestCPU(nil, 0)
	got := cpu.add16(0x1234, 0)
	if got != 0x1234 {
		t.Errorf("add16(0x1234,0) = %#x, want 0x1234", got)
	}
	if cpu.flag(FlagCarry) {
		t.Error("add16(0x1234,0) should not set Carry")
	}
}

func TestSubwZeroOperandAlwaysSetsCarryAndHalfCarry(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := uint16(rapid.IntRange(0, 0xffff).Draw(t, "a"))

		cpu, _ := newTestCPU(nil, 0)
		got := cpu.adc16(a, 0)

		if got != a {
			t.Fatalf("adc16(%#x,0) = %#x, want %#x (subtracting zero must be a no-op)", a, got, a)
		}
		if !cpu.flag(FlagCarry) {
			t.Fatalf("adc16(%#x,0) should set Carry: subtracting zero never borrows", a)
		}
		if !cpu.flag(FlagHalfCarry) {
			t.Fatalf("adc16(%#x,0) should set HalfCarry: subtracting zero never borrows", a)
		}
	})
}

func TestAddwHalfCarryThresholdAtNibbleBoundary(t *testing.T) {
	cpu, _ := newTestCPU(nil, 0)
	// (a&0xfff)+(b&0xfff) == 0xfff exactly: no carry out of bit 11, so HalfCarry stays clear.
	cpu.add16(0x0fff, 0x0000)
	if cpu.flag(FlagHalfCarry) {
		t.Error("add16 nibble sum of exactly 0xfff should not set HalfCarry")
	}

	cpu2, _ := newTestCPU(nil, 0)
	cpu2.add16(0x0fff, 0x0001)
	if !cpu2.flag(FlagHalfCarry) {
		t.Error("add16 nibble sum of 0x1000 should set HalfCarry (carry out of bit 11)")
	}
}
