package cpu

import (
	"math/bits"
	"testing"
)

// flatMemory is a minimal, unmirrored Memory fake for unit tests that
// want to address the whole 64KB space directly — e.g. placing a
// stack at 0x2400 — without pulling in the memory package's ROM
// write-protection and 14-bit mirroring.
type flatMemory struct {
	data [65536]uint8
}

func (m *flatMemory) Read8(addr uint16) uint8  { return m.data[addr] }
func (m *flatMemory) Write8(addr uint16, v uint8) { m.data[addr] = v }
func (m *flatMemory) Read16(addr uint16) uint16 {
	return uint16(m.Read8(addr)) | uint16(m.Read8(addr+1))<<8
}
func (m *flatMemory) Write16(addr uint16, v uint16) {
	m.Write8(addr, uint8(v))
	m.Write8(addr+1, uint8(v>>8))
}

type nullIO struct{}

func (nullIO) Input(uint8) uint8   { return 0xFF }
func (nullIO) Output(uint8, uint8) {}

func newTestCpu(program ...uint8) (*Cpu, *flatMemory) {
	mem := &flatMemory{}
	copy(mem.data[:], program)
	c := NewCpu(mem, nullIO{})
	c.Reset()
	return c, mem
}

func step(t *testing.T, c *Cpu, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		c.Step()
		if c.Faulted() {
			t.Fatalf("cpu faulted at PC=%#04x on step %d", c.PC, i)
		}
	}
}

func TestMVIImmediate(t *testing.T) {
	c, _ := newTestCpu(0x3E, 0x42) // MVI A,0x42
	cyc := c.Step()
	if c.Regs.A() != 0x42 || c.PC != 2 || cyc != 7 {
		t.Fatalf("A=%#02x PC=%#04x cyc=%d, want A=0x42 PC=2 cyc=7", c.Regs.A(), c.PC, cyc)
	}
}

func TestADIFlagsForAllSecondBytes(t *testing.T) {
	for d := 0; d < 256; d++ {
		for aBefore := 0; aBefore < 256; aBefore += 17 { // sampled, not exhaustive over both dims
			c, mem := newTestCpu(0xC6, uint8(d)) // ADI d
			c.Regs.SetA(uint8(aBefore))
			_ = mem
			c.Step()

			a := uint8(aBefore)
			wantCY := int(a)+d > 0xFF
			wantAC := (a&0xF)+(uint8(d)&0xF) > 0xF
			result := c.Regs.A()

			if c.Flags.CY != wantCY {
				t.Fatalf("a=%#02x d=%#02x: CY=%v want %v", a, d, c.Flags.CY, wantCY)
			}
			if c.Flags.AC != wantAC {
				t.Fatalf("a=%#02x d=%#02x: AC=%v want %v", a, d, c.Flags.AC, wantAC)
			}
			if c.Flags.Z != (result == 0) {
				t.Fatalf("a=%#02x d=%#02x: Z=%v want %v", a, d, c.Flags.Z, result == 0)
			}
			if c.Flags.S != (result&0x80 != 0) {
				t.Fatalf("a=%#02x d=%#02x: S mismatch", a, d)
			}
			if c.Flags.P != (bits.OnesCount8(result)%2 == 0) {
				t.Fatalf("a=%#02x d=%#02x: P mismatch", a, d)
			}
		}
	}
}

func TestPushPopPSWRoundTrip(t *testing.T) {
	c, _ := newTestCpu(0xF5, 0xF1) // PUSH PSW; POP PSW
	c.SP = 0x2400
	c.Regs.SetA(0x77)
	c.Flags = Flags{S: true, Z: false, AC: true, P: true, CY: true}

	wantSP := c.SP
	step(t, c, 2)

	if c.SP != wantSP {
		t.Fatalf("SP=%#04x, want %#04x (unchanged)", c.SP, wantSP)
	}
	if c.Regs.A() != 0x77 {
		t.Fatalf("A=%#02x, want 0x77", c.Regs.A())
	}
	if !c.Flags.S || c.Flags.Z || !c.Flags.AC || !c.Flags.P || !c.Flags.CY {
		t.Fatalf("flags not restored: %+v", c.Flags)
	}
}

func TestCallRetIsNoOpOnState(t *testing.T) {
	// CALL 0x000A; RET at 0x0A immediately, rest NOP.
	c, _ := newTestCpu(0xCD, 0x0A, 0x00, 0, 0, 0, 0, 0, 0, 0, 0xC9)
	c.SP = 0x2400
	step(t, c, 2) // CALL, then RET
	if c.PC != 3 {
		t.Fatalf("PC=%#04x, want 3 (return address after 3-byte CALL)", c.PC)
	}
	if c.SP != 0x2400 {
		t.Fatalf("SP=%#04x, want 0x2400 (stack unwound)", c.SP)
	}
}

func TestANAParityExample(t *testing.T) {
	// Parity flag property, exercised via ANA which always clears CY/derives parity from result.
	c, _ := newTestCpu(0xA7) // ANA A (A & A = A, parity from A)
	c.Regs.SetA(0x03)        // popcount 2, even
	c.Step()
	if !c.Flags.P {
		t.Fatalf("P=false, want true for result 0x03 (even popcount)")
	}
}

func TestXchgTwiceIsIdentity(t *testing.T) {
	c, _ := newTestCpu(0xEB, 0xEB) // XCHG; XCHG
	c.Regs.SetDE(0x1234)
	c.Regs.SetHL(0x5678)
	step(t, c, 2)
	if c.Regs.DE() != 0x1234 || c.Regs.HL() != 0x5678 {
		t.Fatalf("DE=%#04x HL=%#04x, want unchanged", c.Regs.DE(), c.Regs.HL())
	}
}

func TestCmaTwiceIsIdentity(t *testing.T) {
	c, _ := newTestCpu(0x2F, 0x2F) // CMA; CMA
	c.Regs.SetA(0x5A)
	step(t, c, 2)
	if c.Regs.A() != 0x5A {
		t.Fatalf("A=%#02x, want 0x5A", c.Regs.A())
	}
}

func TestStcCmc(t *testing.T) {
	c, _ := newTestCpu(0x37, 0x3F) // STC; CMC
	step(t, c, 2)
	if c.Flags.CY {
		t.Fatalf("CY=true after STC;CMC, want false")
	}

	c2, _ := newTestCpu(0x37, 0x37) // STC; STC
	step(t, c2, 2)
	if !c2.Flags.CY {
		t.Fatalf("CY=false after STC;STC, want true")
	}
}

func TestDAABoundaryCase(t *testing.T) {
	c, _ := newTestCpu(0x27) // DAA
	c.Regs.SetA(0x9B)
	c.Flags.CY = false
	c.Flags.AC = false
	c.Step()
	if c.Regs.A() != 0x01 || !c.Flags.CY || !c.Flags.AC {
		t.Fatalf("A=%#02x CY=%v AC=%v, want A=0x01 CY=true AC=true", c.Regs.A(), c.Flags.CY, c.Flags.AC)
	}
}

func TestINRBoundaryWrap(t *testing.T) {
	c, _ := newTestCpu(0x3C) // INR A
	c.Regs.SetA(0xFF)
	c.Flags.CY = true // INR must not touch CY
	c.Step()
	if c.Regs.A() != 0x00 || !c.Flags.Z || !c.Flags.AC || !c.Flags.CY {
		t.Fatalf("A=%#02x Z=%v AC=%v CY=%v, want A=0 Z=T AC=T CY=T(unchanged)",
			c.Regs.A(), c.Flags.Z, c.Flags.AC, c.Flags.CY)
	}
}

func TestDCRBoundaryWrap(t *testing.T) {
	c, _ := newTestCpu(0x3D) // DCR A
	c.Regs.SetA(0x00)
	c.Flags.CY = true
	c.Step()
	if c.Regs.A() != 0xFF || c.Flags.Z || !c.Flags.S || c.Flags.AC || !c.Flags.CY {
		t.Fatalf("A=%#02x Z=%v S=%v AC=%v CY=%v, want A=0xFF Z=F S=T AC=F CY=T(unchanged)",
			c.Regs.A(), c.Flags.Z, c.Flags.S, c.Flags.AC, c.Flags.CY)
	}
}

func TestDADOverflow(t *testing.T) {
	c, _ := newTestCpu(0x29) // DAD H
	c.Regs.SetHL(0x8000)
	c.Step()
	if c.Regs.HL() != 0x0000 || !c.Flags.CY {
		t.Fatalf("HL=%#04x CY=%v, want HL=0 CY=true", c.Regs.HL(), c.Flags.CY)
	}
}

func TestRST7(t *testing.T) {
	c, _ := newTestCpu(0xFF) // RST 7
	c.SP = 0x2400
	c.Step()
	if c.PC != 0x0038 {
		t.Fatalf("PC=%#04x, want 0x0038", c.PC)
	}
	if c.SP != 0x23FE {
		t.Fatalf("SP=%#04x, want 0x23FE", c.SP)
	}
}

func TestInterruptAcceptancePushesUninterruptedPC(t *testing.T) {
	// A single NOP stream; after it runs once, request an interrupt and
	// confirm acceptance pushes the return address as though the
	// interrupted program had never advanced past the NOP.
	c, mem := newTestCpu(0x00, 0x00, 0x00)
	c.SP = 0x2400
	c.inte = true
	c.Step() // executes NOP at PC=0, PC becomes 1

	c.RequestInterrupt(0xCF) // RST 1
	c.Step()                 // accepts the interrupt

	if c.PC != 0x0008 {
		t.Fatalf("PC=%#04x, want 0x0008 (RST 1 target)", c.PC)
	}
	if c.SP != 0x23FE {
		t.Fatalf("SP=%#04x, want 0x23FE", c.SP)
	}
	// The pushed return address must be 1 (where execution actually
	// left off), not 2, since no byte was fetched on the
	// interrupt-accepting step itself.
	if got := mem.Read16(0x23FE); got != 1 {
		t.Fatalf("pushed return address=%#04x, want 1", got)
	}
}

func TestEIDelayedEnable(t *testing.T) {
	// EI; NOP; then an interrupt requested before EI must not be
	// accepted until after the instruction following EI.
	c, _ := newTestCpu(0xFB, 0x00, 0x00) // EI; NOP; NOP
	c.RequestInterrupt(0xCF)

	c.Step() // EI: eiCountdown=2, inte still false
	if c.inte {
		t.Fatalf("inte became true immediately after EI")
	}
	c.Step() // NOP: eiCountdown decremented to 1, inte still false, so
	// the NOP runs and the pending interrupt stays latched.
	if c.PC != 2 {
		t.Fatalf("PC=%#04x, want 2: interrupt accepted before the instruction following EI ran", c.PC)
	}
	c.Step() // countdown reaches 0 at the start of this Step, inte becomes
	// true, and the acceptance check right after it takes the interrupt.
	if c.PC != 0x0008 {
		t.Fatalf("PC=%#04x, want 0x0008: interrupt not accepted after the instruction following EI", c.PC)
	}
}

func TestDIIsImmediate(t *testing.T) {
	c, _ := newTestCpu(0xF3) // DI
	c.inte = true
	c.Step()
	if c.inte {
		t.Fatalf("inte still true after DI")
	}
}

func TestHaltParksUntilInterrupt(t *testing.T) {
	c, _ := newTestCpu(0x76) // HLT
	c.Step()
	if !c.Halted() {
		t.Fatalf("cpu not halted after HLT")
	}
	pcBefore := c.PC
	cyc := c.Step()
	if c.PC != pcBefore || cyc != haltCycles {
		t.Fatalf("PC advanced or wrong cycle count while halted: PC=%#04x cyc=%d", c.PC, cyc)
	}

	c.inte = true
	c.RequestInterrupt(0xD7)
	c.Step()
	if c.Halted() {
		t.Fatalf("cpu still halted after accepted interrupt")
	}
	if c.PC != 0x0010 {
		t.Fatalf("PC=%#04x, want 0x0010 (RST 2 target)", c.PC)
	}
}

func TestUnimplementedOpcodeIsFatal(t *testing.T) {
	// Every opcode byte is wired in dispatch.go, so there is no real
	// unimplemented slot to probe in a complete build; simulate one by
	// temporarily clearing an entry and restoring it afterward.
	const victim = 0x01
	saved := dispatch[victim]
	dispatch[victim] = nil
	defer func() { dispatch[victim] = saved }()

	c, _ := newTestCpu(victim)
	cyc := c.Step()
	if !c.Faulted() {
		t.Fatalf("cpu not faulted after nil dispatch entry")
	}
	if cyc != 0 {
		t.Fatalf("cyc=%d, want 0 on fault", cyc)
	}
	pcBefore := c.PC
	c.Step()
	if c.PC != pcBefore {
		t.Fatalf("PC advanced after fault: cpu should be a permanent no-op once faulted")
	}
}

func TestScenario2AddBAfterMviSequence(t *testing.T) {
	// MVI B,5; MVI C,3; ADD B -- starting A=0
	c, _ := newTestCpu(0x06, 0x05, 0x0E, 0x03, 0x80)
	step(t, c, 3)
	if c.Regs.A() != 0x05 {
		t.Fatalf("A=%#02x, want 0x05", c.Regs.A())
	}
	if c.Flags.Z {
		t.Fatalf("Z=true, want false")
	}
	if c.Flags.CY {
		t.Fatalf("CY=true, want false")
	}
	if !c.Flags.P {
		t.Fatalf("P=false, want true (0x05 has two set bits)")
	}
}

func TestScenario3AdiOverflow(t *testing.T) {
	c, _ := newTestCpu(0x3E, 0xFF, 0xC6, 0x01) // MVI A,0xFF; ADI 1
	step(t, c, 2)
	if c.Regs.A() != 0x00 || !c.Flags.Z || !c.Flags.CY || !c.Flags.AC || !c.Flags.P {
		t.Fatalf("A=%#02x Z=%v CY=%v AC=%v P=%v, want all true/0", c.Regs.A(), c.Flags.Z, c.Flags.CY, c.Flags.AC, c.Flags.P)
	}
}

func TestScenario5RlcCarry(t *testing.T) {
	c, _ := newTestCpu(0x3E, 0x80, 0x07) // MVI A,0x80; RLC
	step(t, c, 2)
	if c.Regs.A() != 0x01 || !c.Flags.CY {
		t.Fatalf("A=%#02x CY=%v, want A=0x01 CY=true", c.Regs.A(), c.Flags.CY)
	}
}

func TestScenario6InReadsPort3(t *testing.T) {
	// This end-to-end scenario belongs at the IOBus/shiftreg level, not
	// the bare Cpu; see the shiftreg package's tests for the
	// feed/offset/read property. Here only the Cpu-level IN handler is
	// checked, against a fake IO that returns the scenario's 0xFD.
	c, _ := newTestCpu(0xDB, 0x03) // IN 3
	io := &recordingIO{in: 0xFD}
	c.io = io
	c.Step()
	if c.Regs.A() != 0xFD {
		t.Fatalf("A=%#02x, want 0xFD", c.Regs.A())
	}
}

type recordingIO struct {
	in      uint8
	outPort uint8
	outVal  uint8
}

func (r *recordingIO) Input(uint8) uint8 { return r.in }
func (r *recordingIO) Output(port, v uint8) {
	r.outPort = port
	r.outVal = v
}
