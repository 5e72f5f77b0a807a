package cpu

// Control transfer, stack-based call/return, RST, I/O and the
// interrupt-enable instructions.

func jmp(c *Cpu) uint16 {
	c.PC = c.imm16()
	return 0
}

// jmpIf builds a conditional jump. Unlike CALL/RET, conditional JMP
// costs the same whether or not it branches, so no bonus cycle is
// added on the taken path.
func jmpIf(cond func(*Cpu) bool) opFunc {
	return func(c *Cpu) uint16 {
		if cond(c) {
			return jmp(c)
		}
		return 3
	}
}

func call(c *Cpu) uint16 {
	next := c.PC + 3
	target := c.imm16()
	c.push(next)
	c.PC = target
	return 0
}

func callIf(cond func(*Cpu) bool) opFunc {
	return func(c *Cpu) uint16 {
		if cond(c) {
			c.bonusCycles = 6
			return call(c)
		}
		return 3
	}
}

func ret(c *Cpu) uint16 {
	c.PC = c.pop()
	return 0
}

func retIf(cond func(*Cpu) bool) opFunc {
	return func(c *Cpu) uint16 {
		if cond(c) {
			c.bonusCycles = 6
			return ret(c)
		}
		return 1
	}
}

// rst builds the RST n handler: pushes the return address and jumps
// to n*8. Used both for in-stream RST opcodes and for cabinet
// interrupt acceptance, which dispatches straight to this handler
// without a preceding fetch/PC-advance.
func rst(n uint8) opFunc {
	target := uint16(n) * 8
	return func(c *Cpu) uint16 {
		c.push(c.PC + 1)
		c.PC = target
		return 0
	}
}

func in(c *Cpu) uint16 {
	c.Regs.SetA(c.io.Input(c.imm8()))
	return 2
}

func out(c *Cpu) uint16 {
	c.io.Output(c.imm8(), c.Regs.A())
	return 2
}

func ei(c *Cpu) uint16 {
	c.eiCountdown = 2
	return 1
}

func di(c *Cpu) uint16 {
	c.inte = false
	c.eiCountdown = 0
	return 1
}

func hlt(c *Cpu) uint16 {
	c.halted = true
	return 1
}
