package spc700

// The accumulator-destination logic/arithmetic ops share one body across
// every addressing mode; dispatch.go only has to fetch the operand byte.

func (c *CPU) aluOr(v uint8) {
	c.State.A = c.updateNZ8(c.State.A | v)
}

func (c *CPU) aluAnd(v uint8) {
	c.State.A = c.updateNZ8(c.State.A & v)
}

func (c *CPU) aluEor(v uint8) {
	c.State.A = c.updateNZ8(c.State.A ^ v)
}

func (c *CPU) aluAdc(v uint8) {
	c.State.A = c.adc(c.State.A, v)
}

func (c *CPU) aluSbc(v uint8) {
	c.State.A = c.sbc(c.State.A, v)
}

func (c *CPU) aluCmp(v uint8) {
	c.compare(c.State.A, v)
}
