package cpu

// cycleCounts is the per-opcode machine-cycle cost from the Intel 8080
// datasheet, indexed by raw opcode byte. Conditional CALL/RET list the
// not-taken cost here; the taken bonus is added by the handler via
// bonusCycles.
var cycleCounts = [256]uint8{
	4, 10, 7, 5, 5, 5, 7, 4, 4, 10, 7, 5, 5, 5, 7, 4,
	4, 10, 7, 5, 5, 5, 7, 4, 4, 10, 7, 5, 5, 5, 7, 4,
	4, 10, 16, 5, 5, 5, 7, 4, 4, 10, 16, 5, 5, 5, 7, 4,
	4, 10, 13, 5, 10, 10, 10, 4, 4, 10, 13, 5, 5, 5, 7, 4,
	5, 5, 5, 5, 5, 5, 7, 5, 5, 5, 5, 5, 5, 5, 7, 5,
	5, 5, 5, 5, 5, 5, 7, 5, 5, 5, 5, 5, 5, 5, 7, 5,
	5, 5, 5, 5, 5, 5, 7, 5, 5, 5, 5, 5, 5, 5, 7, 5,
	7, 7, 7, 7, 7, 7, 7, 7, 5, 5, 5, 5, 5, 5, 7, 5,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	5, 10, 10, 10, 11, 11, 7, 11, 5, 10, 10, 10, 11, 17, 7, 11,
	5, 10, 10, 10, 11, 11, 7, 11, 5, 10, 10, 10, 11, 17, 7, 11,
	5, 10, 10, 18, 11, 11, 7, 11, 5, 5, 10, 4, 11, 17, 7, 11,
	5, 10, 10, 4, 11, 11, 7, 11, 5, 5, 10, 4, 11, 17, 7, 11,
}

var dispatch [256]opFunc

// Register-pair encodings shared by LXI/INX/DCX/DAD (bits 5:4 of the
// opcode) and by PUSH/POP (same bits, with PSW standing in for SP).
const (
	rpBC = 0
	rpDE = 1
	rpHL = 2
	rpSP = 3
)

func init() {
	dispatch[0x00] = nop
	dispatch[0x08] = nop // undocumented duplicate, real silicon behavior
	dispatch[0x10] = nop
	dispatch[0x18] = nop
	dispatch[0x20] = nop
	dispatch[0x28] = nop
	dispatch[0x30] = nop
	dispatch[0x38] = nop

	dispatch[0x07] = rlc
	dispatch[0x0F] = rrc
	dispatch[0x17] = ral
	dispatch[0x1F] = rar
	dispatch[0x27] = daa
	dispatch[0x2F] = cma
	dispatch[0x37] = stc
	dispatch[0x3F] = cmc

	dispatch[0x22] = shld
	dispatch[0x2A] = lhld
	dispatch[0x32] = sta
	dispatch[0x3A] = lda

	dispatch[0xC3] = jmp
	dispatch[0xCB] = jmp // undocumented duplicate
	dispatch[0xC9] = ret
	dispatch[0xD9] = ret // undocumented duplicate
	dispatch[0xCD] = call
	dispatch[0xDD] = call // undocumented duplicate
	dispatch[0xED] = call // undocumented duplicate
	dispatch[0xFD] = call // undocumented duplicate

	dispatch[0xC6] = adi
	dispatch[0xCE] = aci
	dispatch[0xD6] = sui
	dispatch[0xDE] = sbi
	dispatch[0xE6] = ani
	dispatch[0xEE] = xri
	dispatch[0xF6] = ori
	dispatch[0xFE] = cpi

	dispatch[0xDB] = in
	dispatch[0xD3] = out
	dispatch[0xF3] = di
	dispatch[0xFB] = ei
	dispatch[0x76] = hlt

	dispatch[0xE3] = xthl
	dispatch[0xEB] = xchg
	dispatch[0xE9] = pchl
	dispatch[0xF9] = sphl

	dispatch[0x02] = staxB
	dispatch[0x12] = staxD
	dispatch[0x0A] = ldaxB
	dispatch[0x1A] = ldaxD

	for rp := 0; rp < 4; rp++ {
		base := uint8(rp << 4)
		dispatch[0x01+base] = lxi(rp)
		dispatch[0x03+base] = inx(rp)
		dispatch[0x09+base] = dad(rp)
		dispatch[0x0B+base] = dcx(rp)
	}
	// PUSH/POP use the same bit-4:5 slot but PSW stands in for SP.
	dispatch[0xC1] = pop(rpBC)
	dispatch[0xC5] = push(rpBC)
	dispatch[0xD1] = pop(rpDE)
	dispatch[0xD5] = push(rpDE)
	dispatch[0xE1] = pop(rpHL)
	dispatch[0xE5] = push(rpHL)
	dispatch[0xF1] = popPSW
	dispatch[0xF5] = pushPSW

	for r := 0; r < 8; r++ {
		dispatch[0x04+uint8(r<<3)] = inr(r)
		dispatch[0x05+uint8(r<<3)] = dcr(r)
		dispatch[0x06+uint8(r<<3)] = mvi(r)
	}

	for dst := 0; dst < 8; dst++ {
		for src := 0; src < 8; src++ {
			op := uint8(0x40) | uint8(dst<<3) | uint8(src)
			if op == 0x76 {
				continue // HLT occupies MOV M,M's slot
			}
			dispatch[op] = mov(dst, src)
		}
	}

	for r := 0; r < 8; r++ {
		dispatch[0x80+uint8(r)] = add(r)
		dispatch[0x88+uint8(r)] = adc(r)
		dispatch[0x90+uint8(r)] = sub(r)
		dispatch[0x98+uint8(r)] = sbb(r)
		dispatch[0xA0+uint8(r)] = ana(r)
		dispatch[0xA8+uint8(r)] = xra(r)
		dispatch[0xB0+uint8(r)] = ora(r)
		dispatch[0xB8+uint8(r)] = cmp(r)
	}

	dispatch[0xC2] = jmpIf(func(c *Cpu) bool { return !c.Flags.Z })
	dispatch[0xCA] = jmpIf(func(c *Cpu) bool { return c.Flags.Z })
	dispatch[0xD2] = jmpIf(func(c *Cpu) bool { return !c.Flags.CY })
	dispatch[0xDA] = jmpIf(func(c *Cpu) bool { return c.Flags.CY })
	dispatch[0xE2] = jmpIf(func(c *Cpu) bool { return !c.Flags.P })
	dispatch[0xEA] = jmpIf(func(c *Cpu) bool { return c.Flags.P })
	dispatch[0xF2] = jmpIf(func(c *Cpu) bool { return !c.Flags.S })
	dispatch[0xFA] = jmpIf(func(c *Cpu) bool { return c.Flags.S })

	dispatch[0xC0] = retIf(func(c *Cpu) bool { return !c.Flags.Z })
	dispatch[0xC8] = retIf(func(c *Cpu) bool { return c.Flags.Z })
	dispatch[0xD0] = retIf(func(c *Cpu) bool { return !c.Flags.CY })
	dispatch[0xD8] = retIf(func(c *Cpu) bool { return c.Flags.CY })
	dispatch[0xE0] = retIf(func(c *Cpu) bool { return !c.Flags.P })
	dispatch[0xE8] = retIf(func(c *Cpu) bool { return c.Flags.P })
	dispatch[0xF0] = retIf(func(c *Cpu) bool { return !c.Flags.S })
	dispatch[0xF8] = retIf(func(c *Cpu) bool { return c.Flags.S })

	dispatch[0xC4] = callIf(func(c *Cpu) bool { return !c.Flags.Z })
	dispatch[0xCC] = callIf(func(c *Cpu) bool { return c.Flags.Z })
	dispatch[0xD4] = callIf(func(c *Cpu) bool { return !c.Flags.CY })
	dispatch[0xDC] = callIf(func(c *Cpu) bool { return c.Flags.CY })
	dispatch[0xE4] = callIf(func(c *Cpu) bool { return !c.Flags.P })
	dispatch[0xEC] = callIf(func(c *Cpu) bool { return c.Flags.P })
	dispatch[0xF4] = callIf(func(c *Cpu) bool { return !c.Flags.S })
	dispatch[0xFC] = callIf(func(c *Cpu) bool { return c.Flags.S })

	for n := uint8(0); n < 8; n++ {
		dispatch[0xC7+n*8] = rst(n)
	}
}
