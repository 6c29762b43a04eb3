package system

// Mailbox is the host-facing view of the four bidirectional ports at
// $F4-$F7: named accessors plus the readiness poll the stock IPL boot ROM
// signals with, for a CLI harness that wants to drive a System the way a
// real SNES main CPU would rather than reaching past the boundary with
// LoadIPLOverride.
type Mailbox struct {
	sys *System
}

// NewMailbox returns a Mailbox view over sys's four mailbox ports.
func NewMailbox(sys *System) *Mailbox {
	return &Mailbox{sys: sys}
}

// bootReadySignal0/1 are the fixed bytes the stock IPL ROM writes to ports
// 0 and 1 once it has cleared the direct page and is waiting for a host
// transfer to begin (see internal/memory's embedded bootROM).
const (
	bootReadySignal0 = 0xaa
	bootReadySignal1 = 0xbb
)

// Ready reports whether the running program has signaled it is waiting at
// the IPL handshake (ports 0 and 1 read back $AA/$BB). A harness can poll
// this after each RunCycles batch before attempting a transfer.
func (m *Mailbox) Ready() bool {
	return m.sys.HostRead(0) == bootReadySignal0 && m.sys.HostRead(1) == bootReadySignal1
}

// Write sets one of the four host-to-program mailbox bytes (port 0-3,
// i.e. $F4-$F7 as read by the running program).
func (m *Mailbox) Write(port int, v uint8) {
	m.sys.HostWrite(port, v)
}

// Read returns one of the four program-to-host mailbox bytes.
func (m *Mailbox) Read(port int) uint8 {
	return m.sys.HostRead(port)
}

// PollUntil runs the system in steps-sized bursts, calling cond after each
// burst, until cond reports true or the cycle budget is exhausted. It
// returns false if the budget ran out first, letting a caller distinguish
// a timed-out handshake from a satisfied one without panicking or
// blocking forever on a program that never reaches the expected state.
func (m *Mailbox) PollUntil(budget uint64, step uint16, cond func() bool) bool {
	for spent := uint64(0); spent < budget; spent += uint64(step) {
		if cond() {
			return true
		}
		if err := m.sys.Halted(); err != nil {
			return false
		}
		m.sys.RunCycles(step)
	}
	return cond()
}
