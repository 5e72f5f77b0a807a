// Package platform is the cabinet's only view of the outside world:
// a window, a keyboard, and a speaker. The teacher's Screen type
// (i8080Invaders/screen.go) bundled SDL window/renderer/texture setup
// directly into the machine package with no interface boundary; here
// that surface is named explicitly so machine.Machine can run against
// either a real SDL window or a headless no-op during tests.
package platform

import "github.com/is386/i8080invaders/iobus"

// Width and Height are the cabinet's native display resolution in the
// landscape (post-rotation) orientation.
const (
	Width  = 224
	Height = 256
)

// Frame is the rotated, 1-bit-per-pixel framebuffer Machine hands to
// Sink.PresentFrame once per 60Hz frame. true is lit, false is dark.
type Frame [Height][Width]bool

// Sink is everything Machine needs from the host: a display, a
// keyboard/joystick source, and an audio gate. platform.SDLPlatform
// and platform.Null both satisfy it.
type Sink interface {
	PresentFrame(f *Frame)
	PollInput() (keys iobus.KeyState, quit bool)
	ToneOn(port uint8, bit int)
	ToneOff(port uint8, bit int)
}
