// Command i8080invaders emulates an Intel 8080-based Space Invaders
// cabinet: four fixed ROM banks, a 64KB mirrored address space, the
// Midway shifter, and a 60Hz interrupt-driven display. Replaces the
// teacher's trivial FILENAME-constant main.go with flag-driven
// startup, since this build has a real ROM directory, a headless
// mode, and an optional tracer to wire.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/pkg/errors"

	"github.com/is386/i8080invaders/cpu"
	"github.com/is386/i8080invaders/iobus"
	"github.com/is386/i8080invaders/machine"
	"github.com/is386/i8080invaders/memory"
	"github.com/is386/i8080invaders/platform"
	"github.com/is386/i8080invaders/rom"
	"github.com/is386/i8080invaders/shiftreg"
	"github.com/is386/i8080invaders/trace"
)

func main() {
	romDir := flag.String("rom-dir", ".", "directory containing invaders.h/g/f/e")
	scale := flag.Int("scale", 2, "integer display scale factor")
	headless := flag.Bool("headless", false, "run without a window (no SDL, no audio)")
	traceMode := flag.String("trace", "", `instruction tracing: "" (off), "stdout", "disasm", or "repl"`)
	lives := flag.Uint("lives", 3, "starting lives, 3-6 (dip switch bits 0-1 encode 3-6 with a fixed table)")
	bonusAt1000 := flag.Bool("bonus-1000", true, "award the bonus life at 1000 points instead of 1500")
	flag.Parse()

	if err := run(*romDir, int32(*scale), *headless, *traceMode, uint8(*lives), *bonusAt1000); err != nil {
		fmt.Fprintf(os.Stderr, "i8080invaders: %+v\n", err)
		os.Exit(1)
	}
}

func run(romDir string, scale int32, headless bool, traceMode string, lives uint8, bonusAt1000 bool) error {
	set, err := rom.LoadSet(romDir)
	if err != nil {
		return errors.Wrap(err, "load rom set")
	}

	mem := memory.New()
	set.LoadInto(mem)

	sr := shiftreg.New()

	var sink platform.Sink
	if headless {
		sink = platform.Null{}
	} else {
		sdlPlatform, err := platform.NewSDLPlatform(scale)
		if err != nil {
			return errors.Wrap(err, "init platform")
		}
		defer sdlPlatform.Close()
		sink = sdlPlatform
	}

	bus := iobus.New(sr, sink)
	bus.SetDipSwitches(iobus.DipSwitches{Lives: dipLives(lives), BonusLifeAt1000: bonusAt1000})

	c := cpu.NewCpu(mem, bus)
	c.Reset()

	switch traceMode {
	case "":
	case "stdout":
		c.Tracer = trace.NewStdout(false)
	case "disasm":
		c.Tracer = trace.NewStdout(true)
	case "repl":
		r, err := trace.NewREPLTracer()
		if err != nil {
			return errors.Wrap(err, "init trace repl")
		}
		defer r.Close()
		c.Tracer = r
	default:
		return errors.Errorf("unknown -trace mode %q", traceMode)
	}

	mc := machine.New(c, mem, bus, sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := mc.Run(ctx); err != nil {
		return errors.Wrap(err, "machine run")
	}
	return nil
}

// dipLives maps the -lives flag (3-6) onto the two-bit dip switch
// encoding IOBus.Input(2) reads directly.
func dipLives(n uint8) uint8 {
	if n < 3 {
		n = 3
	}
	if n > 6 {
		n = 6
	}
	return n - 3
}
