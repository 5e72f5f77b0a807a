// Package trace defines the optional instruction-tracing/disassembly
// sink the Cpu calls once per step. It has no dependency on the cpu
// package — Snapshot is a plain value type — so cpu can depend on
// trace without any import cycle.
package trace

import "fmt"

// Snapshot is the state of the machine immediately before one
// instruction executes.
type Snapshot struct {
	PC     uint16
	SP     uint16
	Opcode uint8
	Op1    uint8 // byte at PC+1, valid regardless of the opcode's real length
	Op2    uint8 // byte at PC+2
	Regs   [8]uint8
	Flags  uint8 // packed PSW form
}

// BC, DE, HL read the register-pair views out of a snapshot's flat
// register array, using the same field encoding as the cpu package.
func (s Snapshot) BC() uint16 { return uint16(s.Regs[0])<<8 | uint16(s.Regs[1]) }
func (s Snapshot) DE() uint16 { return uint16(s.Regs[2])<<8 | uint16(s.Regs[3]) }
func (s Snapshot) HL() uint16 { return uint16(s.Regs[4])<<8 | uint16(s.Regs[5]) }
func (s Snapshot) A() uint8   { return s.Regs[7] }

// Tracer receives one Snapshot per instruction Cpu.Step fetches from
// memory. Steps spent halted and steps that accept an interrupt do
// not produce a Snapshot.
type Tracer interface {
	OnStep(s Snapshot)
}

// Null discards every snapshot. The zero value is ready to use; it is
// never actually wired in because Cpu treats a nil Tracer the same
// way, but it is useful wherever an interface value (not a nil
// interface) is required, e.g. in tests exercising tracer plumbing.
type Null struct{}

func (Null) OnStep(Snapshot) {}

// Stdout reproduces the teacher's debugOutput/printState dump: one
// line of PC/AF/BC/DE/HL/SP plus the opcode and its next two bytes.
// Disasm additionally prints the mnemonic for the current instruction
// when true.
type Stdout struct {
	Disasm bool
}

func NewStdout(disasm bool) *Stdout {
	return &Stdout{Disasm: disasm}
}

func (s *Stdout) OnStep(snap Snapshot) {
	af := uint16(snap.A())<<8 | uint16(snap.Flags)
	fmt.Printf("PC:%04X AF:%04X BC:%04X DE:%04X HL:%04X SP:%04X  (%02X %02X %02X)",
		snap.PC, af, snap.BC(), snap.DE(), snap.HL(), snap.SP,
		snap.Opcode, snap.Op1, snap.Op2)
	if s.Disasm {
		fmt.Printf("  %s", Disassemble(snap))
	}
	fmt.Println()
}
