package spc700

import "github.com/retrocoderamen/spcdsp/internal/corefault"

// Step executes one instruction and returns the cycle count it consumed.
// Once a fault has latched the CPU, Step is a no-op that returns 0 so the
// scheduler can keep calling it without special-casing the halted state.
func (c *CPU) Step() uint8 {
	if c.halted != nil {
		return 0
	}
	pc := c.State.PC
	op := c.load()

	if c.dispatchBitOp(op) {
		return cycles[op]
	}

	switch op {
	case 0x00: // NOP

	// Flag instructions
	case 0x20:
		c.setFlag(FlagZeroPage, false) // CLRP
	case 0x40:
		c.setFlag(FlagZeroPage, true) // SETP
	case 0x60:
		c.setFlag(FlagCarry, false) // CLRC
	case 0x80:
		c.setFlag(FlagCarry, true) // SETC
	case 0xe0:
		c.setFlag(FlagOverflow, false)
		c.setFlag(FlagHalfCarry, false) // CLRV
	case 0xed:
		c.setFlag(FlagCarry, !c.flag(FlagCarry)) // NOTC
	case 0xa0:
		c.setFlag(FlagInterrupt, true) // EI
	case 0xc0:
		c.setFlag(FlagInterrupt, false) // DI

	// Relative branches
	case 0x2f:
		c.branchRel(c.load()) // BRA
	case 0x10:
		c.branchIf(!c.flag(FlagSign)) // BPL
	case 0x30:
		c.branchIf(c.flag(FlagSign)) // BMI
	case 0x50:
		c.branchIf(!c.flag(FlagOverflow)) // BVC
	case 0x70:
		c.branchIf(c.flag(FlagOverflow)) // BVS
	case 0x90:
		c.branchIf(!c.flag(FlagCarry)) // BCC
	case 0xb0:
		c.branchIf(c.flag(FlagCarry)) // BCS
	case 0xd0:
		c.branchIf(!c.flag(FlagZero)) // BNE
	case 0xf0:
		c.branchIf(c.flag(FlagZero)) // BEQ

	// OR A, <mode>
	case 0x04:
		c.aluOr(c.readSmall(c.load()))
	case 0x14:
		d := c.load()
		c.aluOr(c.readSmall(d + c.State.X))
	case 0x05:
		c.aluOr(c.read8(c.load16()))
	case 0x15:
		a := c.load16()
		c.aluOr(c.read8(a + uint16(c.State.X)))
	case 0x16:
		a := c.load16()
		c.aluOr(c.read8(a + uint16(c.State.Y)))
	case 0x06:
		c.aluOr(c.read8(c.getSmall(c.State.X)))
	case 0x07:
		c.aluOr(c.read8(c.read16Small(c.load() + c.State.X)))
	case 0x17:
		d := c.load()
		c.aluOr(c.read8(c.read16Small(d) + uint16(c.State.Y)))
	case 0x08:
		c.aluOr(c.load())

	// AND A, <mode>
	case 0x24:
		c.aluAnd(c.readSmall(c.load()))
	case 0x34:
		d := c.load()
		c.aluAnd(c.readSmall(d + c.State.X))
	case 0x25:
		c.aluAnd(c.read8(c.load16()))
	case 0x35:
		a := c.load16()
		c.aluAnd(c.read8(a + uint16(c.State.X)))
	case 0x36:
		a := c.load16()
		c.aluAnd(c.read8(a + uint16(c.State.Y)))
	case 0x26:
		c.aluAnd(c.read8(c.getSmall(c.State.X)))
	case 0x27:
		c.aluAnd(c.read8(c.read16Small(c.load() + c.State.X)))
	case 0x37:
		d := c.load()
		c.aluAnd(c.read8(c.read16Small(d) + uint16(c.State.Y)))
	case 0x28:
		c.aluAnd(c.load())

	// EOR A, <mode>
	case 0x44:
		c.aluEor(c.readSmall(c.load()))
	case 0x54:
		d := c.load()
		c.aluEor(c.readSmall(d + c.State.X))
	case 0x45:
		c.aluEor(c.read8(c.load16()))
	case 0x55:
		a := c.load16()
		c.aluEor(c.read8(a + uint16(c.State.X)))
	case 0x56:
		a := c.load16()
		c.aluEor(c.read8(a + uint16(c.State.Y)))
	case 0x46:
		c.aluEor(c.read8(c.getSmall(c.State.X)))
	case 0x47:
		c.aluEor(c.read8(c.read16Small(c.load() + c.State.X)))
	case 0x57:
		d := c.load()
		c.aluEor(c.read8(c.read16Small(d) + uint16(c.State.Y)))
	case 0x48:
		c.aluEor(c.load())

	// CMP A, <mode>
	case 0x64:
		c.aluCmp(c.readSmall(c.load()))
	case 0x74:
		d := c.load()
		c.aluCmp(c.readSmall(d + c.State.X))
	case 0x65:
		c.aluCmp(c.read8(c.load16()))
	case 0x75:
		a := c.load16()
		c.aluCmp(c.read8(a + uint16(c.State.X)))
	case 0x76:
		a := c.load16()
		c.aluCmp(c.read8(a + uint16(c.State.Y)))
	case 0x66:
		c.aluCmp(c.read8(c.getSmall(c.State.X)))
	case 0x67:
		c.aluCmp(c.read8(c.read16Small(c.load() + c.State.X)))
	case 0x77:
		d := c.load()
		c.aluCmp(c.read8(c.read16Small(d) + uint16(c.State.Y)))
	case 0x68:
		c.aluCmp(c.load())
	case 0x3e:
		c.compare(c.State.X, c.readSmall(c.load())) // CMP X,d
	case 0x1e:
		c.compare(c.State.X, c.read8(c.load16())) // CMP X,!a
	case 0xc8:
		c.compare(c.State.X, c.load()) // CMP X,#i
	case 0x7e:
		c.compare(c.State.Y, c.readSmall(c.load())) // CMP Y,d
	case 0x5e:
		c.compare(c.State.Y, c.read8(c.load16())) // CMP Y,!a
	case 0xad:
		c.compare(c.State.Y, c.load()) // CMP Y,#i

	// ADC A, <mode>
	case 0x84:
		c.aluAdc(c.readSmall(c.load()))
	case 0x94:
		d := c.load()
		c.aluAdc(c.readSmall(d + c.State.X))
	case 0x85:
		c.aluAdc(c.read8(c.load16()))
	case 0x95:
		a := c.load16()
		c.aluAdc(c.read8(a + uint16(c.State.X)))
	case 0x96:
		a := c.load16()
		c.aluAdc(c.read8(a + uint16(c.State.Y)))
	case 0x86:
		c.aluAdc(c.read8(c.getSmall(c.State.X)))
	case 0x87:
		c.aluAdc(c.read8(c.read16Small(c.load() + c.State.X)))
	case 0x97:
		d := c.load()
		c.aluAdc(c.read8(c.read16Small(d) + uint16(c.State.Y)))
	case 0x88:
		c.aluAdc(c.load())

	// SBC A, <mode>
	case 0xa4:
		c.aluSbc(c.readSmall(c.load()))
	case 0xb4:
		d := c.load()
		c.aluSbc(c.readSmall(d + c.State.X))
	case 0xa5:
		c.aluSbc(c.read8(c.load16()))
	case 0xb5:
		a := c.load16()
		c.aluSbc(c.read8(a + uint16(c.State.X)))
	case 0xb6:
		a := c.load16()
		c.aluSbc(c.read8(a + uint16(c.State.Y)))
	case 0xa6:
		c.aluSbc(c.read8(c.getSmall(c.State.X)))
	case 0xa7:
		c.aluSbc(c.read8(c.read16Small(c.load() + c.State.X)))
	case 0xb7:
		d := c.load()
		c.aluSbc(c.read8(c.read16Small(d) + uint16(c.State.Y)))
	case 0xa8:
		c.aluSbc(c.load())

	// 16-bit word ops on YA
	case 0x7a:
		c.setYA(c.add16(c.ya(), c.read16Small(c.load()))) // ADDW YA,d
	case 0x9a:
		c.setYA(c.adc16(c.ya(), c.read16Small(c.load()))) // SUBW YA,d
	case 0x5a:
		c.compareW(c.ya(), c.read16Small(c.load())) // CMPW YA,d
	case 0xba:
		c.setYA(c.updateNZ16(c.read16Small(c.load()))) // MOVW YA,d
	case 0xda:
		c.write16Small(c.load(), c.ya()) // MOVW d,YA
	case 0x3a:
		d := c.load()
		c.write16Small(d, c.updateNZ16(c.read16Small(d)+1)) // INCW d
	case 0x1a:
		d := c.load()
		c.write16Small(d, c.updateNZ16(c.read16Small(d)-1)) // DECW d

	// MOV into A
	case 0xe8:
		c.State.A = c.updateNZ8(c.load()) // MOV A,#i
	case 0xe4:
		c.State.A = c.updateNZ8(c.readSmall(c.load())) // MOV A,d
	case 0xf4:
		d := c.load()
		c.State.A = c.updateNZ8(c.readSmall(d + c.State.X)) // MOV A,d+X
	case 0xe5:
		c.State.A = c.updateNZ8(c.read8(c.load16())) // MOV A,!a
	case 0xf5:
		a := c.load16()
		c.State.A = c.updateNZ8(c.read8(a + uint16(c.State.X))) // MOV A,!a+X
	case 0xf6:
		a := c.load16()
		c.State.A = c.updateNZ8(c.read8(a + uint16(c.State.Y))) // MOV A,!a+Y
	case 0xe6:
		c.State.A = c.updateNZ8(c.read8(c.getSmall(c.State.X))) // MOV A,(X)
	case 0xbf:
		addr := c.getSmall(c.State.X)
		c.State.A = c.updateNZ8(c.read8(addr))
		c.State.X++ // MOV A,(X)+
	case 0xe7:
		c.State.A = c.updateNZ8(c.read8(c.read16Small(c.load() + c.State.X))) // MOV A,[d+X]
	case 0xf7:
		d := c.load()
		c.State.A = c.updateNZ8(c.read8(c.read16Small(d) + uint16(c.State.Y))) // MOV A,[d]+Y

	// MOV into X/Y
	case 0xcd:
		c.State.X = c.updateNZ8(c.load()) // MOV X,#i
	case 0xf8:
		c.State.X = c.updateNZ8(c.readSmall(c.load())) // MOV X,d
	case 0xf9:
		d := c.load()
		c.State.X = c.updateNZ8(c.readSmall(d + c.State.Y)) // MOV X,d+Y
	case 0xe9:
		c.State.X = c.updateNZ8(c.read8(c.load16())) // MOV X,!a
	case 0x8d:
		c.State.Y = c.updateNZ8(c.load()) // MOV Y,#i
	case 0xeb:
		c.State.Y = c.updateNZ8(c.readSmall(c.load())) // MOV Y,d
	case 0xfb:
		d := c.load()
		c.State.Y = c.updateNZ8(c.readSmall(d + c.State.X)) // MOV Y,d+X
	case 0xec:
		c.State.Y = c.updateNZ8(c.read8(c.load16())) // MOV Y,!a

	// Register-to-register moves
	case 0x5d:
		c.State.X = c.updateNZ8(c.State.A) // MOV X,A
	case 0x7d:
		c.State.A = c.updateNZ8(c.State.X) // MOV A,X
	case 0xfd:
		c.State.Y = c.updateNZ8(c.State.A) // MOV Y,A
	case 0xdd:
		c.State.A = c.updateNZ8(c.State.Y) // MOV A,Y
	case 0x9d:
		c.State.X = c.updateNZ8(c.State.SP) // MOV X,SP
	case 0xbd:
		c.State.SP = c.State.X // MOV SP,X (flags unaffected)

	// MOV from A/X/Y into memory
	case 0xc4:
		c.writeSmall(c.load(), c.State.A) // MOV d,A
	case 0xd4:
		d := c.load()
		c.writeSmall(d+c.State.X, c.State.A) // MOV d+X,A
	case 0xc5:
		c.write8(c.load16(), c.State.A) // MOV !a,A
	case 0xd5:
		a := c.load16()
		c.write8(a+uint16(c.State.X), c.State.A) // MOV !a+X,A
	case 0xd6:
		a := c.load16()
		c.write8(a+uint16(c.State.Y), c.State.A) // MOV !a+Y,A
	case 0xc6:
		c.write8(c.getSmall(c.State.X), c.State.A) // MOV (X),A
	case 0xaf:
		addr := c.getSmall(c.State.X)
		c.write8(addr, c.State.A)
		c.State.X++ // MOV (X)+,A
	case 0xc7:
		c.write8(c.read16Small(c.load()+c.State.X), c.State.A) // MOV [d+X],A
	case 0xd7:
		d := c.load()
		c.write8(c.read16Small(d)+uint16(c.State.Y), c.State.A) // MOV [d]+Y,A
	case 0xd8:
		c.writeSmall(c.load(), c.State.X) // MOV d,X
	case 0xd9:
		d := c.load()
		c.writeSmall(d+c.State.Y, c.State.X) // MOV d+Y,X
	case 0xc9:
		c.write8(c.load16(), c.State.X) // MOV !a,X
	case 0xcb:
		c.writeSmall(c.load(), c.State.Y) // MOV d,Y
	case 0xcc:
		c.write8(c.load16(), c.State.Y) // MOV !a,Y
	case 0x8f:
		// MOV d,#i: operand order is immediate, then destination direct page.
		v := c.load()
		d := c.load()
		c.writeSmall(d, v)
	case 0xfa:
		// MOV dd,ds: operand order is source direct page, then destination.
		src := c.load()
		dst := c.load()
		c.writeSmall(dst, c.readSmall(src))

	// Stack
	case 0x2d:
		c.push(c.State.A) // PUSH A
	case 0x4d:
		c.push(c.State.X) // PUSH X
	case 0x6d:
		c.push(c.State.Y) // PUSH Y
	case 0x0d:
		c.push(c.State.Status) // PUSH PSW
	case 0xae:
		c.State.A = c.pull() // POP A
	case 0xce:
		c.State.X = c.pull() // POP X
	case 0xee:
		c.State.Y = c.pull() // POP Y
	case 0x8e:
		c.State.Status = c.pull() // POP PSW

	// INC/DEC
	case 0xbc:
		c.State.A = c.updateNZ8(c.State.A + 1) // INC A
	case 0x9c:
		c.State.A = c.updateNZ8(c.State.A - 1) // DEC A
	case 0x3d:
		c.State.X = c.updateNZ8(c.State.X + 1) // INC X
	case 0x1d:
		c.State.X = c.updateNZ8(c.State.X - 1) // DEC X
	case 0xfc:
		c.State.Y = c.updateNZ8(c.State.Y + 1) // INC Y
	case 0xdc:
		c.State.Y = c.updateNZ8(c.State.Y - 1) // DEC Y
	case 0xab:
		d := c.load()
		c.writeSmall(d, c.updateNZ8(c.readSmall(d)+1)) // INC d
	case 0x8b:
		d := c.load()
		c.writeSmall(d, c.updateNZ8(c.readSmall(d)-1)) // DEC d
	case 0xbb:
		d := c.load()
		c.writeSmall(d+c.State.X, c.updateNZ8(c.readSmall(d+c.State.X)+1)) // INC d+X
	case 0x9b:
		d := c.load()
		c.writeSmall(d+c.State.X, c.updateNZ8(c.readSmall(d+c.State.X)-1)) // DEC d+X
	case 0xac:
		a := c.load16()
		c.write8(a, c.updateNZ8(c.read8(a)+1)) // INC !a
	case 0x8c:
		a := c.load16()
		c.write8(a, c.updateNZ8(c.read8(a)-1)) // DEC !a

	// Shifts and rotates
	case 0x1c:
		c.setFlag(FlagCarry, c.State.A&0x80 != 0)
		c.State.A = c.updateNZ8(c.State.A << 1) // ASL A
	case 0x5c:
		c.setFlag(FlagCarry, c.State.A&1 != 0)
		c.State.A = c.updateNZ8(c.State.A >> 1) // LSR A
	case 0x3c:
		old := c.flag(FlagCarry)
		c.setFlag(FlagCarry, c.State.A&0x80 != 0)
		v := c.State.A << 1
		if old {
			v |= 1
		}
		c.State.A = c.updateNZ8(v) // ROL A
	case 0x7c:
		old := c.flag(FlagCarry)
		c.setFlag(FlagCarry, c.State.A&1 != 0)
		v := c.State.A >> 1
		if old {
			v |= 0x80
		}
		c.State.A = c.updateNZ8(v) // ROR A
	case 0x0b:
		c.shiftDirect(c.load(), shiftASL)
	case 0x0c:
		c.shiftAbs(c.load16(), shiftASL)
	case 0x4b:
		c.shiftDirect(c.load(), shiftLSR)
	case 0x4c:
		c.shiftAbs(c.load16(), shiftLSR)
	case 0x2b:
		c.shiftDirect(c.load(), shiftROL)
	case 0x2c:
		c.shiftAbs(c.load16(), shiftROL)
	case 0x6b:
		c.shiftDirect(c.load(), shiftROR)
	case 0x6c:
		c.shiftAbs(c.load16(), shiftROR)

	case 0x9f:
		c.State.A = c.updateNZ8((c.State.A << 4) | (c.State.A >> 4)) // XCN A

	// Multiply/divide
	case 0xcf: // MUL YA
		c.setYA(uint16(c.State.Y) * uint16(c.State.A))
		c.updateNZ8(c.State.Y)
	case 0x9e: // DIV YA,X
		c.divYAX()

	// Control flow
	case 0x5f:
		c.State.PC = c.load16() // JMP !a
	case 0x1f:
		a := c.load16()
		c.State.PC = c.read16(a + uint16(c.State.X)) // JMP [!a+X]
	case 0x3f:
		a := c.load16()
		c.push16(c.State.PC)
		c.State.PC = a // CALL !a
	case 0x6f:
		c.State.PC = c.pull16() // RET
	case 0x2e: // CBNE d,r
		d := c.load()
		v := c.readSmall(d)
		r := c.load()
		if c.State.A != v {
			c.branchRel(r)
		}
	case 0xde: // CBNE d+X,r
		d := c.load()
		v := c.readSmall(d + c.State.X)
		r := c.load()
		if c.State.A != v {
			c.branchRel(r)
		}
	case 0x6e: // DBNZ d,r
		d := c.load()
		v := c.readSmall(d) - 1
		c.writeSmall(d, v)
		r := c.load()
		if v != 0 {
			c.branchRel(r)
		}
	case 0xfe: // DBNZ Y,r
		c.State.Y--
		r := c.load()
		if c.State.Y != 0 {
			c.branchRel(r)
		}

	// Bit-addressed C-flag ops
	case 0xaa: // MOV1 C,m.b
		addr, bit := c.readMembit()
		c.setFlag(FlagCarry, c.read8(addr)&(1<<bit) != 0)
	case 0xca: // MOV1 m.b,C
		addr, bit := c.readMembit()
		v := c.read8(addr)
		if c.flag(FlagCarry) {
			v |= 1 << bit
		} else {
			v &^= 1 << bit
		}
		c.write8(addr, v)
	case 0x0a: // OR1 C,m.b
		addr, bit := c.readMembit()
		if c.read8(addr)&(1<<bit) != 0 {
			c.setFlag(FlagCarry, true)
		}
	case 0x2a: // OR1 C,/m.b
		addr, bit := c.readMembit()
		if c.read8(addr)&(1<<bit) == 0 {
			c.setFlag(FlagCarry, true)
		}
	case 0x4a: // AND1 C,m.b
		addr, bit := c.readMembit()
		if c.read8(addr)&(1<<bit) == 0 {
			c.setFlag(FlagCarry, false)
		}
	case 0x6a: // AND1 C,/m.b
		addr, bit := c.readMembit()
		if c.read8(addr)&(1<<bit) != 0 {
			c.setFlag(FlagCarry, false)
		}
	case 0x8a: // EOR1 C,m.b
		addr, bit := c.readMembit()
		if c.read8(addr)&(1<<bit) != 0 {
			c.setFlag(FlagCarry, !c.flag(FlagCarry))
		}
	case 0xea: // NOT1 m.b
		addr, bit := c.readMembit()
		c.write8(addr, c.read8(addr)^(1<<bit))
	case 0x0e: // TSET1 !a
		a := c.load16()
		v := c.read8(a)
		c.updateNZ8(c.State.A & v)
		c.write8(a, v|c.State.A)
	case 0x4e: // TCLR1 !a
		a := c.load16()
		v := c.read8(a)
		c.updateNZ8(c.State.A & v)
		c.write8(a, v&^c.State.A)

	default:
		c.halted = corefault.Instruction(pc, op)
		c.log.Errorf("halted: %v", c.halted)
	}

	return cycles[op]
}

func (c *CPU) branchIf(cond bool) {
	r := c.load()
	if cond {
		c.branchRel(r)
	}
}

// compareW is CMPW YA,d: like compare but over the 16-bit YA pair, without
// storing a result.
func (c *CPU) compareW(a, b uint16) {
	r := int32(a) - int32(b)
	c.setFlag(FlagCarry, a >= b)
	c.updateNZ16(uint16(r))
}

type shiftKind int

const (
	shiftASL shiftKind = iota
	shiftLSR
	shiftROL
	shiftROR
)

func (c *CPU) shiftValue(kind shiftKind, v uint8) uint8 {
	switch kind {
	case shiftASL:
		c.setFlag(FlagCarry, v&0x80 != 0)
		return c.updateNZ8(v << 1)
	case shiftLSR:
		c.setFlag(FlagCarry, v&1 != 0)
		return c.updateNZ8(v >> 1)
	case shiftROL:
		old := c.flag(FlagCarry)
		c.setFlag(FlagCarry, v&0x80 != 0)
		nv := v << 1
		if old {
			nv |= 1
		}
		return c.updateNZ8(nv)
	default: // shiftROR
		old := c.flag(FlagCarry)
		c.setFlag(FlagCarry, v&1 != 0)
		nv := v >> 1
		if old {
			nv |= 0x80
		}
		return c.updateNZ8(nv)
	}
}

func (c *CPU) shiftDirect(d uint8, kind shiftKind) {
	c.writeSmall(d, c.shiftValue(kind, c.readSmall(d)))
}

func (c *CPU) shiftAbs(addr uint16, kind shiftKind) {
	c.write8(addr, c.shiftValue(kind, c.read8(addr)))
}

// divYAX is DIV YA,X: 16-bit YA divided by 8-bit X, quotient into A,
// remainder into Y. Half-carry and overflow follow the reference decoder's
// own documented approximation (see DESIGN.md).
func (c *CPU) divYAX() {
	ya := c.ya()
	if c.State.X == 0 {
		c.setFlag(FlagOverflow, true)
		c.setFlag(FlagHalfCarry, true)
		c.State.A = 0xff
		c.State.Y = uint8(ya & 0xff)
		c.updateNZ8(c.State.A)
		return
	}
	q := ya / uint16(c.State.X)
	r := ya % uint16(c.State.X)
	c.setFlag(FlagOverflow, q > 0xff)
	c.setFlag(FlagHalfCarry, (c.State.X&0xf) <= (c.State.Y&0xf))
	c.State.A = uint8(q)
	c.State.Y = uint8(r)
	c.updateNZ8(c.State.A)
}

// dispatchBitOp handles the 32 SET1/CLR1/BBS/BBC opcodes, which share one
// addressing pattern: a direct-page byte whose bit number is encoded in the
// opcode's top three bits, with bit 4 selecting set-vs-clear and the low
// nibble selecting the plain bit-write form (0x_2) from the conditional
// branch form (0x_3).
func (c *CPU) dispatchBitOp(op uint8) bool {
	low := op & 0x0f
	if low != 0x02 && low != 0x03 {
		return false
	}
	bit := (op >> 5) & 7
	clear := op&0x10 != 0
	branch := low == 0x03

	d := c.load()
	if branch {
		v := c.readSmall(d)
		set := v&(1<<bit) != 0
		r := c.load()
		if set != clear {
			c.branchRel(r)
		}
		return true
	}
	v := c.readSmall(d)
	if clear {
		v &^= 1 << bit
	} else {
		v |= 1 << bit
	}
	c.writeSmall(d, v)
	return true
}

// readMembit decodes the absolute-with-bit addressing mode MOV1/OR1/AND1/
// EOR1/NOT1 use: a little-endian 16-bit word whose top 3 bits are a bit
// number and whose low 13 bits are the address.
func (c *CPU) readMembit() (addr uint16, bit uint8) {
	word := c.load16()
	return word & 0x1fff, uint8(word >> 13)
}
