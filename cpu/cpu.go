// Package cpu implements the Intel 8080 instruction set: registers,
// flags, the fetch/decode/execute loop, and interrupt acceptance. It
// knows nothing about the Space Invaders cabinet beyond the RST-based
// interrupt contract — memory layout, I/O ports and framebuffer timing
// live in the memory, iobus and machine packages.
package cpu

import (
	"fmt"

	"github.com/is386/i8080invaders/trace"
)

// Memory is the contract the Cpu needs from its address space. The
// memory package's Memory type satisfies it; tests may supply a flat
// array-backed fake.
type Memory interface {
	Read8(addr uint16) uint8
	Read16(addr uint16) uint16
	Write8(addr uint16, v uint8)
	Write16(addr uint16, v uint16)
}

// IO is the contract the Cpu needs for IN/OUT. The iobus package's
// IOBus type satisfies it.
type IO interface {
	Input(port uint8) uint8
	Output(port uint8, v uint8)
}

// haltCycles is returned by Step while halted and no interrupt is
// accepted — there is no fetch to cost against, so the HLT opcode's
// own datasheet cycle count is reused for every idle tick.
const haltCycles = 7

type opFunc func(c *Cpu) uint16

// Cpu is the 8080 core: seven general registers, flags, SP/PC, and the
// interrupt-enable/pending latch. Running and Halted are represented
// by the halted bool rather than a separate exported state type, since
// nothing outside Step ever needs to branch on it.
type Cpu struct {
	Regs  Registers
	Flags Flags
	PC    uint16
	SP    uint16

	mem Memory
	io  IO

	inte        bool
	eiCountdown uint8
	intPending  bool
	intOpcode   uint8

	halted bool
	fatal  bool

	bonusCycles int

	Tracer trace.Tracer
}

// NewCpu constructs a Cpu wired to the given memory and I/O bus. PC,
// SP and all registers start zeroed; call Reset for the same effect
// later (e.g. on a cabinet "coin reset").
func NewCpu(mem Memory, io IO) *Cpu {
	return &Cpu{mem: mem, io: io}
}

// Reset zeros all registers and flags, sets PC to 0x0000, and disables
// interrupts — the cabinet's power-on state.
func (c *Cpu) Reset() {
	c.Regs.reset()
	c.Flags.reset()
	c.PC = 0
	c.SP = 0
	c.inte = false
	c.eiCountdown = 0
	c.intPending = false
	c.intOpcode = 0
	c.halted = false
	c.fatal = false
}

// RequestInterrupt latches a single pending RST opcode. A second call
// before the first is accepted overwrites it — only the most recent
// request survives, matching the cabinet where at most two interrupts
// are ever outstanding per frame.
func (c *Cpu) RequestInterrupt(rstOpcode uint8) {
	c.intPending = true
	c.intOpcode = rstOpcode
}

// Halted reports whether the Cpu is parked in the HLT state.
func (c *Cpu) Halted() bool {
	return c.halted
}

// Faulted reports whether Step has latched a fatal unimplemented-opcode
// error. Once true, Step is a permanent no-op.
func (c *Cpu) Faulted() bool {
	return c.fatal
}

// Step executes one instruction, or accepts one pending interrupt, and
// returns the number of machine cycles consumed.
func (c *Cpu) Step() int {
	if c.fatal {
		return 0
	}

	if c.eiCountdown > 0 {
		c.eiCountdown--
		if c.eiCountdown == 0 {
			c.inte = true
		}
	}

	if c.intPending && c.inte {
		opcode := c.intOpcode
		c.intPending = false
		c.inte = false
		c.halted = false
		return c.accept(opcode)
	}

	if c.halted {
		return haltCycles
	}

	return c.execute(c.mem.Read8(c.PC))
}

// accept dispatches a latched interrupt's RST opcode through the same
// rst(n) handler an in-stream RST uses. That handler always pushes
// PC+1, since a real RST byte occupies one instruction slot the
// return address must skip past — but an accepted interrupt never
// actually consumed a byte from the interrupted program, so PC is
// walked back by one first. rst(n) then overwrites PC with the RST
// target regardless, so the decrement never leaks.
func (c *Cpu) accept(opcode uint8) int {
	c.bonusCycles = 0
	c.PC--
	handler := dispatch[opcode]
	handler(c)
	return int(cycleCounts[opcode]) + c.bonusCycles
}

func (c *Cpu) execute(opcode uint8) int {
	if c.Tracer != nil {
		c.Tracer.OnStep(c.snapshot(opcode))
	}

	handler := dispatch[opcode]
	if handler == nil {
		c.fatal = true
		fmt.Printf("i8080: unimplemented opcode 0x%02X at PC=0x%04X\n", opcode, c.PC)
		return 0
	}

	c.bonusCycles = 0
	delta := handler(c)
	c.PC += delta
	return int(cycleCounts[opcode]) + c.bonusCycles
}

func (c *Cpu) snapshot(opcode uint8) trace.Snapshot {
	var regs [8]uint8
	for i := 0; i < 8; i++ {
		if i == RegM {
			continue
		}
		regs[i] = c.Regs.Get(i)
	}
	return trace.Snapshot{
		PC:     c.PC,
		SP:     c.SP,
		Opcode: opcode,
		Op1:    c.mem.Read8(c.PC + 1),
		Op2:    c.mem.Read8(c.PC + 2),
		Regs:   regs,
		Flags:  c.Flags.Pack(),
	}
}

// Immediate-byte helpers. PC points at the opcode; handlers read these
// before PC is advanced by their returned delta.
func (c *Cpu) imm8() uint8   { return c.mem.Read8(c.PC + 1) }
func (c *Cpu) imm16() uint16 { return c.mem.Read16(c.PC + 1) }

// operand fetches the value named by a register-field encoding,
// redirecting register 6 (M) to memory at HL.
func (c *Cpu) operand(reg int) uint8 {
	if reg == RegM {
		return c.mem.Read8(c.Regs.HL())
	}
	return c.Regs.Get(reg)
}

func (c *Cpu) setOperand(reg int, v uint8) {
	if reg == RegM {
		c.mem.Write8(c.Regs.HL(), v)
		return
	}
	c.Regs.Set(reg, v)
}

func (c *Cpu) push(v uint16) {
	c.SP -= 2
	c.mem.Write16(c.SP, v)
}

func (c *Cpu) pop() uint16 {
	v := c.mem.Read16(c.SP)
	c.SP += 2
	return v
}
