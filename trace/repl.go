package trace

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// REPLTracer is an interactive front end over the same snapshot data
// Stdout prints, modeled on lassandro-golc3's pkg/debugger
// (Breakpoint list, a HandleBreak-style pause) merged with
// IntuitionEngine's TerminalHost raw-mode lifecycle. Unlike
// TerminalHost, reads happen synchronously from OnStep itself rather
// than on a background goroutine, since the Cpu's Step loop is
// already single-threaded and has nowhere else to block.
type REPLTracer struct {
	fd       int
	oldState *term.State

	breakpoints map[uint16]bool
	running     bool // true once 'c' has been issued and no breakpoint has fired since
	quit        bool // true once 'q' has been issued — tracing goes fully silent
}

// NewREPLTracer puts stdin into raw mode. Call Close to restore it.
func NewREPLTracer() (*REPLTracer, error) {
	fd := int(os.Stdin.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("trace: failed to set raw mode: %w", err)
	}
	return &REPLTracer{fd: fd, oldState: old, breakpoints: make(map[uint16]bool)}, nil
}

// Close restores the terminal to its original mode.
func (r *REPLTracer) Close() {
	if r.oldState != nil {
		_ = term.Restore(r.fd, r.oldState)
		r.oldState = nil
	}
}

func (r *REPLTracer) OnStep(s Snapshot) {
	if r.quit {
		return
	}
	if r.running && !r.breakpoints[s.PC] {
		return
	}
	r.running = false

	r.printSnapshot(s)

	for {
		cmd := r.readKey()
		switch cmd {
		case 's':
			return
		case 'c':
			r.running = true
			return
		case 'q':
			r.quit = true
			return
		case 'b':
			addr := r.readHexLine()
			r.breakpoints[addr] = true
			fmt.Printf("\r\nbreakpoint set at %#04x\r\n", addr)
		default:
			fmt.Print("\r\ns=step c=continue b=breakpoint q=quit-trace\r\n")
		}
	}
}

func (r *REPLTracer) printSnapshot(s Snapshot) {
	fmt.Printf("\r\nPC:%04X AF:%04X BC:%04X DE:%04X HL:%04X SP:%04X  %s\r\n",
		s.PC, uint16(s.A())<<8|uint16(s.Flags), s.BC(), s.DE(), s.HL(), s.SP, Disassemble(s))
	if len(r.breakpoints) > 0 {
		fmt.Print("breakpoints:")
		for addr := range r.breakpoints {
			fmt.Printf(" %#04x", addr)
		}
		fmt.Print("\r\n")
	}
}

// readKey blocks for exactly one raw byte from stdin, reading
// directly through golang.org/x/sys/unix the way lassandro-golc3's
// term.go manipulates the terminal at the syscall layer rather than
// through the blocking os.File API.
func (r *REPLTracer) readKey() byte {
	buf := make([]byte, 1)
	for {
		n, err := unix.Read(r.fd, buf)
		if n > 0 {
			return buf[0]
		}
		if err != nil && err != unix.EAGAIN && err != unix.EWOULDBLOCK {
			return 'q'
		}
	}
}

// readHexLine echoes and reads a hex address until Enter, since raw
// mode disables the terminal's own echo/line-editing.
func (r *REPLTracer) readHexLine() uint16 {
	fmt.Print("\r\naddr> ")
	var line []byte
	for {
		b := r.readKey()
		if b == '\r' || b == '\n' {
			break
		}
		if b == 0x7F || b == 0x08 {
			if len(line) > 0 {
				line = line[:len(line)-1]
				fmt.Print("\b \b")
			}
			continue
		}
		line = append(line, b)
		fmt.Printf("%c", b)
	}
	v, _ := strconv.ParseUint(string(line), 16, 16)
	return uint16(v)
}
