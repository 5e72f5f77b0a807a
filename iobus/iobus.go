// Package iobus implements the cabinet's I/O port space: fixed input
// bits, the keyboard/dip-switch snapshot, the external shift register
// on ports 2-4, and edge-triggered sound on ports 3/5. The teacher's
// InvadersMachine.PortIn/PortOut switched directly on port number with
// the shift register and keyboard state inlined as machine fields
// (i8080Invaders/invadersmachine.go); here those concerns are split
// into their own package so they can be exercised without a Cpu or an
// SDL window.
package iobus

// Sink receives edge-triggered sound notifications, identified by the
// port the triggering write went to plus the changed bit — the §6
// external-interface contract is tone_on(bit, port)/tone_off(bit,
// port), since ports 3 and 5 both carry independent sound banks and a
// bit number alone cannot disambiguate them. platform.SDLPlatform and
// platform.Null both satisfy it.
type Sink interface {
	ToneOn(port uint8, bit int)
	ToneOff(port uint8, bit int)
}

// KeyState is the cabinet's button snapshot, delivered once per input
// poll by the platform package.
type KeyState struct {
	Coin    bool
	P1Start bool
	P2Start bool
	P1Shoot bool
	P1Left  bool
	P1Right bool
	P2Shoot bool
	P2Left  bool
	P2Right bool
	Tilt    bool
}

// DipSwitches holds the cabinet's fixed configuration bits, read on
// port 2.
type DipSwitches struct {
	Lives             uint8 // 0..3, encoded directly into bits 0-1
	BonusLifeAt1000   bool  // bit3: true=1000, false=1500
	CoinInfoDisplayed bool  // bit7
}

// ShiftRegister is the contract IOBus needs from the external
// shifter. shiftreg.ShiftRegister satisfies it.
type ShiftRegister interface {
	SetOffset(uint8)
	Feed(uint8)
	Read() uint8
}

// IOBus is the cabinet's port table.
type IOBus struct {
	shift ShiftRegister
	sink  Sink

	keys KeyState
	dip  DipSwitches

	port3Last uint8
	port5Last uint8
}

// New wires an IOBus to its shift register and sound sink. sink must
// not be nil; pass a platform.Null in headless/test contexts.
func New(shift ShiftRegister, sink Sink) *IOBus {
	return &IOBus{shift: shift, sink: sink}
}

// SetKeys replaces the live button/joystick snapshot, called once per
// frame by Machine after Platform.PollInput.
func (b *IOBus) SetKeys(k KeyState) {
	b.keys = k
}

// SetDipSwitches sets the fixed cabinet configuration bits.
func (b *IOBus) SetDipSwitches(d DipSwitches) {
	b.dip = d
}

// Input implements cpu.IO.
func (b *IOBus) Input(port uint8) uint8 {
	switch port {
	case 0:
		return 0b0000_1110 // bit1=1, bit2=1, bit3=1; rest unused on this cabinet
	case 1:
		var v uint8 = 0x80 // bit7 fixed high
		if b.keys.Coin {
			v |= 1 << 0
		}
		if b.keys.P2Start {
			v |= 1 << 1
		}
		if b.keys.P1Start {
			v |= 1 << 2
		}
		if b.keys.P1Shoot {
			v |= 1 << 4
		}
		if b.keys.P1Left {
			v |= 1 << 5
		}
		if b.keys.P1Right {
			v |= 1 << 6
		}
		return v
	case 2:
		v := b.dip.Lives & 0x3
		if b.keys.Tilt {
			v |= 1 << 2
		}
		if b.dip.BonusLifeAt1000 {
			v |= 1 << 3
		}
		if b.keys.P2Shoot {
			v |= 1 << 4
		}
		if b.keys.P2Left {
			v |= 1 << 5
		}
		if b.keys.P2Right {
			v |= 1 << 6
		}
		if b.dip.CoinInfoDisplayed {
			v |= 1 << 7
		}
		return v
	case 3:
		return b.shift.Read()
	}
	return 0xFF
}

// Output implements cpu.IO.
func (b *IOBus) Output(port uint8, v uint8) {
	switch port {
	case 2:
		b.shift.SetOffset(v & 0x07)
	case 3:
		b.latchSound(port, v, &b.port3Last)
	case 4:
		b.shift.Feed(v)
	case 5:
		b.latchSound(port, v, &b.port5Last)
	case 6:
		// watchdog: recognized, intentionally a no-op
	}
}

// latchSound compares v against the previous value written to the
// same port and fires ToneOn/ToneOff for every bit that changed
// state, matching the hardware's edge-triggered sound-board wiring.
func (b *IOBus) latchSound(port uint8, v uint8, last *uint8) {
	changed := v ^ *last
	for bit := 0; bit < 8; bit++ {
		mask := uint8(1) << bit
		if changed&mask == 0 {
			continue
		}
		if v&mask != 0 {
			b.sink.ToneOn(port, bit)
		} else {
			b.sink.ToneOff(port, bit)
		}
	}
	*last = v
}
