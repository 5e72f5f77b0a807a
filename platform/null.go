package platform

import "github.com/is386/i8080invaders/iobus"

// Null is a Sink that does nothing: no window, no audio, no input.
// Used for headless runs (-headless) and every machine package test.
type Null struct{}

func (Null) PresentFrame(*Frame)               {}
func (Null) PollInput() (iobus.KeyState, bool) { return iobus.KeyState{}, false }
func (Null) ToneOn(port uint8, bit int)        {}
func (Null) ToneOff(port uint8, bit int)       {}
