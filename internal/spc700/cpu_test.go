package spc700

import "testing"

type flatBus struct {
	mem [0x10000]uint8
}

func (b *flatBus) Read8(addr uint16) (uint8, error)       { return b.mem[addr], nil }
func (b *flatBus) Write8(addr uint16, val uint8) error     { b.mem[addr] = val; return nil }

func newTestCPU(prog []uint8, at uint16) (*CPU, *flatBus) {
	bus := &flatBus{}
	copy(bus.mem[at:], prog)
	cpu := NewCPU(bus, nil)
	cpu.State.PC = at
	return cpu, bus
}

func TestResetLoadsBootVector(t *testing.T) {
	cpu, _ := newTestCPU(nil, 0)
	if cpu.State.PC != 0xffc0 {
		t.Errorf("PC after NewCPU = $%04x, want $FFC0", cpu.State.PC)
	}
	if cpu.State.SP != 0xef {
		t.Errorf("SP after NewCPU = $%02x, want $EF", cpu.State.SP)
	}
}

func TestMovImmediateThenDirectPage(t *testing.T) {
	// MOV A,#$42 ; MOV $10,A
	cpu, bus := newTestCPU([]uint8{0xe8, 0x42, 0xc4, 0x10}, 0x0200)

	cpu.Step()
	if cpu.State.A != 0x42 {
		t.Fatalf("A after MOV A,#$42 = %#x, want 0x42", cpu.State.A)
	}
	if cpu.flag(FlagZero) {
		t.Error("Zero flag set after loading a nonzero value")
	}

	cpu.Step()
	if bus.mem[0x0010] != 0x42 {
		t.Errorf("RAM[$10] after MOV $10,A = %#x, want 0x42", bus.mem[0x0010])
	}
}

func TestZeroPageFlagSelectsPage1(t *testing.T) {
	cpu, bus := newTestCPU([]uint8{0x40, 0xe8, 0x99, 0xc4, 0x05}, 0x0200) // SETP ; MOV A,#$99 ; MOV $05,A
	cpu.Step()                                                           // SETP
	cpu.Step()                                                           // MOV A,#$99
	cpu.Step()                                                           // MOV $05,A
	if bus.mem[0x0105] != 0x99 {
		t.Errorf("RAM[$0105] = %#x, want 0x99 (direct page should follow P flag to page 1)", bus.mem[0x0105])
	}
	if bus.mem[0x0005] != 0 {
		t.Errorf("RAM[$0005] = %#x, want untouched", bus.mem[0x0005])
	}
}

func TestUnimplementedOpcodeHalts(t *testing.T) {
	// 0x01 has no case in the dispatch switch or the bit-op fast path.
	cpu, _ := newTestCPU([]uint8{0x01}, 0x0200)
	cpu.Step()
	if cpu.Halted() == nil {
		t.Fatal("expected a latched fault after an unimplemented opcode")
	}
	spent := cpu.Step()
	if spent != 0 {
		t.Errorf("Step after halting returned %d cycles, want 0", spent)
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	cpu, _ := newTestCPU([]uint8{0xe8, 0x7f}, 0x0300)
	cpu.Step()
	cpu.State.X = 0x11
	cpu.State.Y = 0x22

	snap := cpu.Snapshot()

	cpu2, _ := newTestCPU(nil, 0)
	if err := cpu2.Restore(snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if cpu2.State != cpu.State {
		t.Errorf("restored state = %+v, want %+v", cpu2.State, cpu.State)
	}
	if cpu2.Halted() != nil {
		t.Errorf("restored CPU unexpectedly halted: %v", cpu2.Halted())
	}
}

func TestSnapshotRoundTripsHaltedFault(t *testing.T) {
	cpu, _ := newTestCPU([]uint8{0x01}, 0x0200)
	cpu.Step()
	if cpu.Halted() == nil {
		t.Fatal("setup: expected a fault")
	}

	snap := cpu.Snapshot()
	cpu2, _ := newTestCPU(nil, 0)
	if err := cpu2.Restore(snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if cpu2.Halted() == nil {
		t.Fatal("restored CPU should still be halted")
	}
	if cpu2.Halted().Error() != cpu.Halted().Error() {
		t.Errorf("restored fault = %q, want %q", cpu2.Halted().Error(), cpu.Halted().Error())
	}
}
