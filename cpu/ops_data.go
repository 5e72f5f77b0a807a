package cpu

// Data movement: MOV/MVI/LXI, direct and indirect load/store, and the
// stack-adjacent exchange instructions. Each handler returns the
// instruction's length in bytes, opcode included (its "PC delta");
// handlers that set PC directly (PCHL here, and the control transfer
// instructions in ops_control.go when they branch) return 0.

func nop(c *Cpu) uint16 { return 1 }

// mov builds the MOV dst,src handler for one of the 64 opcodes at
// 0x40-0x7F (minus 0x76, which is HLT). Built once per opcode in
// dispatch's init rather than hand-written per register pair.
func mov(dst, src int) opFunc {
	return func(c *Cpu) uint16 {
		c.setOperand(dst, c.operand(src))
		return 1
	}
}

func mvi(reg int) opFunc {
	return func(c *Cpu) uint16 {
		c.setOperand(reg, c.imm8())
		return 2
	}
}

func lxi(rp int) opFunc {
	return func(c *Cpu) uint16 {
		v := c.imm16()
		switch rp {
		case rpBC:
			c.Regs.SetBC(v)
		case rpDE:
			c.Regs.SetDE(v)
		case rpHL:
			c.Regs.SetHL(v)
		case rpSP:
			c.SP = v
		}
		return 3
	}
}

func lda(c *Cpu) uint16 {
	c.Regs.SetA(c.mem.Read8(c.imm16()))
	return 3
}

func sta(c *Cpu) uint16 {
	c.mem.Write8(c.imm16(), c.Regs.A())
	return 3
}

func lhld(c *Cpu) uint16 {
	c.Regs.SetHL(c.mem.Read16(c.imm16()))
	return 3
}

func shld(c *Cpu) uint16 {
	c.mem.Write16(c.imm16(), c.Regs.HL())
	return 3
}

func ldaxB(c *Cpu) uint16 {
	c.Regs.SetA(c.mem.Read8(c.Regs.BC()))
	return 1
}

func ldaxD(c *Cpu) uint16 {
	c.Regs.SetA(c.mem.Read8(c.Regs.DE()))
	return 1
}

func staxB(c *Cpu) uint16 {
	c.mem.Write8(c.Regs.BC(), c.Regs.A())
	return 1
}

func staxD(c *Cpu) uint16 {
	c.mem.Write8(c.Regs.DE(), c.Regs.A())
	return 1
}

func xchg(c *Cpu) uint16 {
	de, hl := c.Regs.DE(), c.Regs.HL()
	c.Regs.SetDE(hl)
	c.Regs.SetHL(de)
	return 1
}

func xthl(c *Cpu) uint16 {
	v := c.mem.Read16(c.SP)
	c.mem.Write16(c.SP, c.Regs.HL())
	c.Regs.SetHL(v)
	return 1
}

func sphl(c *Cpu) uint16 {
	c.SP = c.Regs.HL()
	return 1
}

func pchl(c *Cpu) uint16 {
	c.PC = c.Regs.HL()
	return 0
}

func push(rp int) opFunc {
	return func(c *Cpu) uint16 {
		switch rp {
		case rpBC:
			c.push(c.Regs.BC())
		case rpDE:
			c.push(c.Regs.DE())
		case rpHL:
			c.push(c.Regs.HL())
		}
		return 1
	}
}

func pop(rp int) opFunc {
	return func(c *Cpu) uint16 {
		v := c.pop()
		switch rp {
		case rpBC:
			c.Regs.SetBC(v)
		case rpDE:
			c.Regs.SetDE(v)
		case rpHL:
			c.Regs.SetHL(v)
		}
		return 1
	}
}

// pushPSW packs A and F into the standard PSW layout: high byte A,
// low byte F with the fixed bits (bit1=1, bit3=0, bit5=0) applied by
// Flags.Pack.
func pushPSW(c *Cpu) uint16 {
	c.push(uint16(c.Regs.A())<<8 | uint16(c.Flags.Pack()))
	return 1
}

// popPSW restores A and F from the stack per the Intel manual: the
// byte at SP is F, the byte at SP+1 is A.
func popPSW(c *Cpu) uint16 {
	v := c.pop()
	c.Flags.Unpack(uint8(v))
	c.Regs.SetA(uint8(v >> 8))
	return 1
}
