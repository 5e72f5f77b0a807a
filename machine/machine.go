// Package machine drives the cabinet in real time: cycle-budgeted
// stepping, the twice-per-frame RST 1/RST 2 interrupt schedule, and
// 60Hz frame presentation. The teacher's InvadersMachine.Run
// (i8080Invaders/invadersmachine.go) measured wall-clock delta since
// the last tick and converted it to a cycle budget on the fly; this
// version instead runs a fixed per-frame cycle budget and sleeps the
// remainder, the simpler of the two schemes spec.md §4.5 allows
// ("the target may lag by up to one frame; no frame-skipping is
// required").
package machine

import (
	"context"
	"errors"
	"time"

	"github.com/is386/i8080invaders/cpu"
	"github.com/is386/i8080invaders/iobus"
	"github.com/is386/i8080invaders/platform"
)

const (
	clockHz        = 2_000_000
	frameHz        = 60
	cyclesPerFrame = clockHz / frameHz
	cyclesPerHalf  = cyclesPerFrame / 2
	rstMidScreen   = 0xCF // RST 1
	rstEndOfFrame  = 0xD7 // RST 2
	frameDuration  = time.Second / frameHz
)

// ErrUnimplementedOpcode is returned by Run when the Cpu has entered
// its fatal sink state.
var ErrUnimplementedOpcode = errors.New("machine: cpu hit an unimplemented opcode")

// Memory is the slice of memory.Memory the Machine needs for
// framebuffer readout.
type Memory interface {
	VideoRAM() []uint8
}

// Machine owns the cabinet's main loop: Cpu, video memory, the I/O
// bus (so keyboard state can be pushed in once per frame), and the
// host Sink.
type Machine struct {
	cpu  *cpu.Cpu
	mem  Memory
	bus  *iobus.IOBus
	sink platform.Sink
}

// New constructs a Machine from its already-wired components.
func New(c *cpu.Cpu, mem Memory, bus *iobus.IOBus, sink platform.Sink) *Machine {
	return &Machine{cpu: c, mem: mem, bus: bus, sink: sink}
}

// Run drives frames until ctx is cancelled or the platform reports a
// quit request. It returns nil on a clean quit, or
// ErrUnimplementedOpcode if the Cpu faults.
func (m *Machine) Run(ctx context.Context) error {
	lastPresent := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		keys, quit := m.sink.PollInput()
		if quit {
			return nil
		}
		m.bus.SetKeys(keys)

		if err := m.runFrame(); err != nil {
			return err
		}

		m.sink.PresentFrame(renderFrame(m.mem.VideoRAM()))

		elapsed := time.Since(lastPresent)
		if elapsed < frameDuration {
			time.Sleep(frameDuration - elapsed)
		}
		lastPresent = time.Now()
	}
}

// runFrame steps the Cpu for one frame's worth of cycles, injecting
// RST 1 at the half-frame boundary and RST 2 at the end, per spec.md
// §4.5's abstract per-frame loop.
func (m *Machine) runFrame() error {
	budget := 0

	for budget < cyclesPerHalf {
		budget += m.cpu.Step()
		if m.cpu.Faulted() {
			return ErrUnimplementedOpcode
		}
	}
	m.cpu.RequestInterrupt(rstMidScreen)

	for budget < cyclesPerFrame {
		budget += m.cpu.Step()
		if m.cpu.Faulted() {
			return ErrUnimplementedOpcode
		}
	}
	m.cpu.RequestInterrupt(rstEndOfFrame)
	// Step once more so a pending RST 2 is accepted (when interrupts
	// are enabled) before the framebuffer is read. The cycles of this
	// step are not counted against this frame's budget or the next's.
	m.cpu.Step()

	return nil
}

// renderFrame applies the cabinet's 90-degree rotation from the
// portrait framebuffer at 0x2400 to the landscape platform.Frame: byte
// b at 0x2400+offset, bit i, maps to display column (x = offset/32)
// and row (y = 255 - (offset%32*8+i)), the same axis assignment as the
// teacher's Screen.Draw (i8080Invaders/screen.go).
func renderFrame(vram []uint8) *platform.Frame {
	var f platform.Frame
	for offset, b := range vram {
		for bit := 0; bit < 8; bit++ {
			if b&(1<<uint(bit)) == 0 {
				continue
			}
			x := offset / 32
			y := 255 - ((offset%32)*8 + bit)
			f[y][x] = true
		}
	}
	return &f
}
