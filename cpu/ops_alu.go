package cpu

// Arithmetic, logical and rotate instructions. Flag rules follow the
// Intel manual as specified: AC/CY definitions are computed explicitly
// per operation rather than derived from a single shared identity, so
// each is auditable against the datasheet independently.

func (c *Cpu) addWithCarry(v uint8, carryIn uint8) {
	a := c.Regs.A()
	sum := uint16(a) + uint16(v) + uint16(carryIn)
	result := uint8(sum)
	c.Flags.setZSP(result)
	c.Flags.CY = sum > 0xFF
	c.Flags.AC = (a&0xF)+(v&0xF)+carryIn > 0xF
	c.Regs.SetA(result)
}

func (c *Cpu) subWithBorrow(v uint8, borrowIn uint8) {
	a := c.Regs.A()
	diff := int16(a) - int16(v) - int16(borrowIn)
	result := uint8(diff)
	c.Flags.setZSP(result)
	c.Flags.CY = diff < 0
	c.Flags.AC = int16(a&0xF)-int16(v&0xF)-int16(borrowIn) < 0
	c.Regs.SetA(result)
}

// cmpFlags evaluates SUB's flags without storing the result.
func (c *Cpu) cmpFlags(v uint8) {
	a := c.Regs.A()
	diff := int16(a) - int16(v)
	c.Flags.setZSP(uint8(diff))
	c.Flags.CY = diff < 0
	c.Flags.AC = int16(a&0xF)-int16(v&0xF) < 0
}

func add(reg int) opFunc {
	return func(c *Cpu) uint16 { c.addWithCarry(c.operand(reg), 0); return 1 }
}

func adc(reg int) opFunc {
	return func(c *Cpu) uint16 {
		cy := uint8(0)
		if c.Flags.CY {
			cy = 1
		}
		c.addWithCarry(c.operand(reg), cy)
		return 1
	}
}

func sub(reg int) opFunc {
	return func(c *Cpu) uint16 { c.subWithBorrow(c.operand(reg), 0); return 1 }
}

func sbb(reg int) opFunc {
	return func(c *Cpu) uint16 {
		cy := uint8(0)
		if c.Flags.CY {
			cy = 1
		}
		c.subWithBorrow(c.operand(reg), cy)
		return 1
	}
}

// ana matches documented 8080 behavior: AC is always set to 1, not
// derived from operand bits, and CY is always cleared. Do not "fix"
// this to look like the other logical ops — it is correct as written.
func ana(reg int) opFunc {
	return func(c *Cpu) uint16 {
		c.Regs.SetA(c.Regs.A() & c.operand(reg))
		c.Flags.setZSP(c.Regs.A())
		c.Flags.CY = false
		c.Flags.AC = true
		return 1
	}
}

func xra(reg int) opFunc {
	return func(c *Cpu) uint16 {
		c.Regs.SetA(c.Regs.A() ^ c.operand(reg))
		c.Flags.setZSP(c.Regs.A())
		c.Flags.CY = false
		c.Flags.AC = false
		return 1
	}
}

func ora(reg int) opFunc {
	return func(c *Cpu) uint16 {
		c.Regs.SetA(c.Regs.A() | c.operand(reg))
		c.Flags.setZSP(c.Regs.A())
		c.Flags.CY = false
		c.Flags.AC = false
		return 1
	}
}

func cmp(reg int) opFunc {
	return func(c *Cpu) uint16 { c.cmpFlags(c.operand(reg)); return 1 }
}

func adi(c *Cpu) uint16 { c.addWithCarry(c.imm8(), 0); return 2 }
func aci(c *Cpu) uint16 {
	cy := uint8(0)
	if c.Flags.CY {
		cy = 1
	}
	c.addWithCarry(c.imm8(), cy)
	return 2
}
func sui(c *Cpu) uint16 { c.subWithBorrow(c.imm8(), 0); return 2 }
func sbi(c *Cpu) uint16 {
	cy := uint8(0)
	if c.Flags.CY {
		cy = 1
	}
	c.subWithBorrow(c.imm8(), cy)
	return 2
}
func ani(c *Cpu) uint16 {
	c.Regs.SetA(c.Regs.A() & c.imm8())
	c.Flags.setZSP(c.Regs.A())
	c.Flags.CY = false
	c.Flags.AC = true
	return 2
}
func xri(c *Cpu) uint16 {
	c.Regs.SetA(c.Regs.A() ^ c.imm8())
	c.Flags.setZSP(c.Regs.A())
	c.Flags.CY = false
	c.Flags.AC = false
	return 2
}
func ori(c *Cpu) uint16 {
	c.Regs.SetA(c.Regs.A() | c.imm8())
	c.Flags.setZSP(c.Regs.A())
	c.Flags.CY = false
	c.Flags.AC = false
	return 2
}
func cpi(c *Cpu) uint16 { c.cmpFlags(c.imm8()); return 2 }

func inr(reg int) opFunc {
	return func(c *Cpu) uint16 {
		v := c.operand(reg) + 1
		c.Flags.setZSP(v)
		c.Flags.AC = v&0x0F == 0
		c.setOperand(reg, v)
		return 1
	}
}

// dcr sets AC unless the pre-decrement low nibble was already zero —
// the 8080's DCR borrow-out-of-bit-4 convention, verified against
// DCR 0x00 -> AC=0 (a borrow from an all-zero low nibble).
func dcr(reg int) opFunc {
	return func(c *Cpu) uint16 {
		before := c.operand(reg)
		v := before - 1
		c.Flags.setZSP(v)
		c.Flags.AC = before&0x0F != 0
		c.setOperand(reg, v)
		return 1
	}
}

func inx(rp int) opFunc {
	return func(c *Cpu) uint16 {
		switch rp {
		case rpBC:
			c.Regs.SetBC(c.Regs.BC() + 1)
		case rpDE:
			c.Regs.SetDE(c.Regs.DE() + 1)
		case rpHL:
			c.Regs.SetHL(c.Regs.HL() + 1)
		case rpSP:
			c.SP++
		}
		return 1
	}
}

func dcx(rp int) opFunc {
	return func(c *Cpu) uint16 {
		switch rp {
		case rpBC:
			c.Regs.SetBC(c.Regs.BC() - 1)
		case rpDE:
			c.Regs.SetDE(c.Regs.DE() - 1)
		case rpHL:
			c.Regs.SetHL(c.Regs.HL() - 1)
		case rpSP:
			c.SP--
		}
		return 1
	}
}

// dad adds a register pair into HL. Only CY is affected, from the
// 17-bit sum.
func dad(rp int) opFunc {
	return func(c *Cpu) uint16 {
		var v uint16
		switch rp {
		case rpBC:
			v = c.Regs.BC()
		case rpDE:
			v = c.Regs.DE()
		case rpHL:
			v = c.Regs.HL()
		case rpSP:
			v = c.SP
		}
		sum := uint32(c.Regs.HL()) + uint32(v)
		c.Regs.SetHL(uint16(sum))
		c.Flags.CY = sum > 0xFFFF
		return 1
	}
}

func rlc(c *Cpu) uint16 {
	a := c.Regs.A()
	c.Flags.CY = a&0x80 != 0
	bit := uint8(0)
	if c.Flags.CY {
		bit = 1
	}
	c.Regs.SetA(a<<1 | bit)
	return 1
}

func rrc(c *Cpu) uint16 {
	a := c.Regs.A()
	c.Flags.CY = a&0x01 != 0
	bit := uint8(0)
	if c.Flags.CY {
		bit = 0x80
	}
	c.Regs.SetA(a>>1 | bit)
	return 1
}

func ral(c *Cpu) uint16 {
	a := c.Regs.A()
	carryIn := uint8(0)
	if c.Flags.CY {
		carryIn = 1
	}
	c.Flags.CY = a&0x80 != 0
	c.Regs.SetA(a<<1 | carryIn)
	return 1
}

func rar(c *Cpu) uint16 {
	a := c.Regs.A()
	carryIn := uint8(0)
	if c.Flags.CY {
		carryIn = 0x80
	}
	c.Flags.CY = a&0x01 != 0
	c.Regs.SetA(a>>1 | carryIn)
	return 1
}

// daa applies the BCD adjustment in the two stages the Intel manual
// specifies: a low-nibble correction, then a high-nibble correction
// that can additionally set CY.
func daa(c *Cpu) uint16 {
	a := c.Regs.A()
	cy := c.Flags.CY

	if a&0x0F > 9 || c.Flags.AC {
		aux := uint8(0x06)
		c.Flags.AC = (a&0x0F)+aux > 0x0F
		a += aux
	} else {
		c.Flags.AC = false
	}

	if a>>4 > 9 || cy {
		a += 0x60
		cy = true
	}

	c.Flags.CY = cy
	c.Flags.setZSP(a)
	c.Regs.SetA(a)
	return 1
}

func cma(c *Cpu) uint16 {
	c.Regs.SetA(^c.Regs.A())
	return 1
}

func stc(c *Cpu) uint16 {
	c.Flags.CY = true
	return 1
}

func cmc(c *Cpu) uint16 {
	c.Flags.CY = !c.Flags.CY
	return 1
}
