package memory

import "testing"

type stubDSP struct {
	lastID  uint8
	lastVal uint8
	reg     [128]uint8
}

func (d *stubDSP) ReadRegister(id uint8) uint8 { return d.reg[id] }
func (d *stubDSP) WriteRegister(id uint8, val uint8) {
	d.lastID, d.lastVal = id, val
	d.reg[id] = val
}

func TestF2F3RegisterIndexLatch(t *testing.T) {
	m := New(nil)
	dsp := &stubDSP{}
	m.AttachDSP(dsp)

	if err := m.Write8(0xf2, 0x1c); err != nil {
		t.Fatalf("write $F2: %v", err)
	}
	got, err := m.Read8(0xf2)
	if err != nil || got != 0x1c {
		t.Fatalf("read back $F2 = %#x, %v; want 0x1c, nil", got, err)
	}

	if err := m.Write8(0xf3, 0x42); err != nil {
		t.Fatalf("write $F3: %v", err)
	}
	if dsp.lastID != 0x1c || dsp.lastVal != 0x42 {
		t.Fatalf("WriteRegister(%#x, %#x), want (0x1c, 0x42)", dsp.lastID, dsp.lastVal)
	}

	dsp.reg[0x1c] = 0x99
	if got, _ := m.Read8(0xf3); got != 0x99 {
		t.Errorf("read $F3 = %#x, want 0x99", got)
	}
}

func TestMailboxOrientation(t *testing.T) {
	m := New(nil)
	m.SetInput(0, 0x77)
	got, err := m.Read8(0xf4)
	if err != nil || got != 0x77 {
		t.Fatalf("CPU read of input mailbox 0 = %#x, %v; want 0x77, nil", got, err)
	}

	if err := m.Write8(0xf5, 0x55); err != nil {
		t.Fatalf("write $F5: %v", err)
	}
	if got := m.Output(1); got != 0x55 {
		t.Errorf("host-visible output mailbox 1 = %#x, want 0x55", got)
	}
}

func TestTimerCounterReadClears(t *testing.T) {
	m := New(nil)
	if err := m.Write8(0xf1, 0x01); err != nil { // enable timer 0
		t.Fatalf("enable timer: %v", err)
	}
	if err := m.Write8(0xfa, 4); err != nil { // timer 0 period
		t.Fatalf("set period: %v", err)
	}
	for i := 0; i < 4; i++ {
		m.TickTimer(0)
	}
	got, err := m.Read8(0xfd)
	if err != nil || got != 1 {
		t.Fatalf("counter after 4 ticks of period 4 = %d, %v; want 1, nil", got, err)
	}
	got, _ = m.Read8(0xfd)
	if got != 0 {
		t.Errorf("counter after read-and-clear = %d, want 0", got)
	}
}

func TestBootROMOverlayAndUnderlyingRAM(t *testing.T) {
	m := New(nil)
	got, err := m.Read8(0xffc0)
	if err != nil || got != bootROM[0] {
		t.Fatalf("overlay read at $FFC0 = %#x, %v; want %#x, nil", got, err, bootROM[0])
	}

	m.SetROMEnabled(false)
	if err := m.Write8(0xffc0, 0x42); err != nil {
		t.Fatalf("write underlying RAM: %v", err)
	}
	got, err = m.Read8(0xffc0)
	if err != nil || got != 0x42 {
		t.Fatalf("RAM read at $FFC0 with overlay off = %#x, %v; want 0x42, nil", got, err)
	}

	m.SetROMEnabled(true)
	got, err = m.Read8(0xffc0)
	if err != nil || got != bootROM[0] {
		t.Fatalf("overlay read after re-enable = %#x, %v; want %#x, nil", got, err, bootROM[0])
	}
}

func TestUnsupportedMmioFaults(t *testing.T) {
	m := New(nil)
	if _, err := m.Read8(0xf8); err == nil {
		t.Fatal("expected a fault reading unsupported $F8, got nil")
	}
	if err := m.Write8(0xff, 0); err == nil {
		t.Fatal("expected a fault writing unsupported $FF, got nil")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	m := New(nil)
	m.ram[0x1234] = 0xab
	m.SetInput(2, 0x33)
	if err := m.Write8(0xf1, 0x05); err != nil {
		t.Fatalf("write $F1: %v", err)
	}

	snap := m.Snapshot()

	m2 := New(nil)
	m2.Restore(snap)

	if got, _ := m2.Read8(0x1234); got != 0xab {
		t.Errorf("restored RAM[0x1234] = %#x, want 0xab", got)
	}
	if got, _ := m2.Read8(0xf6); got != 0x33 {
		t.Errorf("restored input mailbox 2 = %#x, want 0x33", got)
	}
}
