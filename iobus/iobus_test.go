package iobus

import "testing"

type fakeShift struct {
	offset uint8
	fed    uint8
	readV  uint8
}

func (f *fakeShift) SetOffset(v uint8) { f.offset = v }
func (f *fakeShift) Feed(v uint8)      { f.fed = v }
func (f *fakeShift) Read() uint8       { return f.readV }

type fakeSink struct {
	on, off []int
}

func (s *fakeSink) ToneOn(port uint8, bit int)  { s.on = append(s.on, bit) }
func (s *fakeSink) ToneOff(port uint8, bit int) { s.off = append(s.off, bit) }

func TestPort1Bits(t *testing.T) {
	sink := &fakeSink{}
	b := New(&fakeShift{}, sink)
	b.SetKeys(KeyState{Coin: true, P1Start: true, P1Shoot: true})
	got := b.Input(1)
	want := uint8(0x80 | 1<<0 | 1<<2 | 1<<4)
	if got != want {
		t.Fatalf("got %#08b, want %#08b", got, want)
	}
}

func TestPort2DipAndTilt(t *testing.T) {
	sink := &fakeSink{}
	b := New(&fakeShift{}, sink)
	b.SetDipSwitches(DipSwitches{Lives: 2, BonusLifeAt1000: true})
	b.SetKeys(KeyState{Tilt: true})
	got := b.Input(2)
	want := uint8(2 | 1<<2 | 1<<3)
	if got != want {
		t.Fatalf("got %#08b, want %#08b", got, want)
	}
}

func TestPort3ReadsShiftRegister(t *testing.T) {
	shift := &fakeShift{readV: 0xAB}
	b := New(shift, &fakeSink{})
	if got := b.Input(3); got != 0xAB {
		t.Fatalf("got %#02x, want 0xAB", got)
	}
}

func TestOutputRoutesToShiftRegister(t *testing.T) {
	shift := &fakeShift{}
	b := New(shift, &fakeSink{})
	b.Output(2, 0xFF)
	if shift.offset != 7 {
		t.Fatalf("offset got %d, want 7", shift.offset)
	}
	b.Output(4, 0x42)
	if shift.fed != 0x42 {
		t.Fatalf("fed got %#02x, want 0x42", shift.fed)
	}
}

func TestSoundEdgeTriggering(t *testing.T) {
	sink := &fakeSink{}
	b := New(&fakeShift{}, sink)
	b.Output(3, 0b0000_0001)
	b.Output(3, 0b0000_0011)
	b.Output(3, 0b0000_0010)

	if len(sink.on) != 2 || sink.on[0] != 0 || sink.on[1] != 1 {
		t.Fatalf("on events = %v, want [0 1]", sink.on)
	}
	if len(sink.off) != 1 || sink.off[0] != 0 {
		t.Fatalf("off events = %v, want [0]", sink.off)
	}
}

func TestWatchdogPortAccepted(t *testing.T) {
	b := New(&fakeShift{}, &fakeSink{})
	b.Output(6, 0xFF) // must not panic or affect sound state
}

func TestUnmappedInputReturnsFF(t *testing.T) {
	b := New(&fakeShift{}, &fakeSink{})
	if got := b.Input(7); got != 0xFF {
		t.Fatalf("got %#02x, want 0xFF", got)
	}
}
