package platform

import (
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/is386/i8080invaders/iobus"
)

// keyBit indexes a single bit of the atomic key bitfield SDLPlatform
// maintains. The spec's keyboard table (§6) maps one host key to one
// cabinet button; this enum just gives each button a stable bit
// position instead of reusing the cabinet's own port.bit numbering,
// since Tilt and the two start buttons don't share a single port.
type keyBit uint32

const (
	bitCoin keyBit = 1 << iota
	bitP1Start
	bitP2Start
	bitP1Shoot
	bitP1Left
	bitP1Right
	bitTilt
	bitQuit
)

// keymap is the spec's §6 keyboard table, generalized from the
// teacher's BUTTONS map (which packed a port-1 bit value directly)
// into the keyBit enum above so a single PollInput can also report
// Tilt and quit without borrowing port.bit numbers that don't exist
// for those two.
var keymap = map[sdl.Keycode]keyBit{
	sdl.K_c:     bitCoin,
	sdl.K_2:     bitP2Start,
	sdl.K_1:     bitP1Start,
	sdl.K_SPACE: bitP1Shoot,
	sdl.K_LEFT:  bitP1Left,
	sdl.K_RIGHT: bitP1Right,
	sdl.K_t:     bitTilt,
}

// SDLPlatform is the real window/keyboard/audio Sink, grounded in the
// teacher's Screen (window/renderer/texture setup and rotation-on-
// present) and InvadersMachine's keyDown/keyUp/BUTTONS handling,
// generalized from a fixed palette-driven getColor() (explicitly out
// of scope — no color overlay) to the spec's plain on/off pixel rule,
// and from a single combined port-1 byte to the full KeyState struct.
type SDLPlatform struct {
	win *sdl.Window
	ren *sdl.Renderer
	tex *sdl.Texture
	sur *sdl.Surface

	keys  atomic.Uint32
	audio *sdlAudio
	scale int32
}

// NewSDLPlatform opens a window scaled by the given integer factor
// (1 = native 224x256) and initializes the audio device. Any SDL
// failure is a startup failure per spec.md §7.
func NewSDLPlatform(scale int32) (*SDLPlatform, error) {
	if scale < 1 {
		scale = 1
	}
	if err := sdl.Init(sdl.INIT_EVERYTHING); err != nil {
		return nil, errors.Wrap(err, "sdl init")
	}

	win, err := sdl.CreateWindow("Space Invaders",
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		Width*scale, Height*scale, sdl.WINDOW_ALLOW_HIGHDPI)
	if err != nil {
		return nil, errors.Wrap(err, "create window")
	}

	ren, err := sdl.CreateRenderer(win, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		return nil, errors.Wrap(err, "create renderer")
	}
	ren.SetLogicalSize(Width, Height)

	tex, err := ren.CreateTexture(uint32(sdl.PIXELFORMAT_RGBA32), sdl.TEXTUREACCESS_STREAMING, Width, Height)
	if err != nil {
		return nil, errors.Wrap(err, "create texture")
	}

	sur, err := sdl.CreateRGBSurface(0, Width, Height, 32, 0, 0, 0, 0)
	if err != nil {
		return nil, errors.Wrap(err, "create surface")
	}
	sur.SetRLE(true)

	audio, err := newSDLAudio()
	if err != nil {
		return nil, errors.Wrap(err, "open audio device")
	}

	return &SDLPlatform{win: win, ren: ren, tex: tex, sur: sur, audio: audio, scale: scale}, nil
}

// Close tears down the window and audio device, in the teacher's
// Screen.Destroy order (texture, renderer, window, then sdl.Quit).
func (p *SDLPlatform) Close() {
	p.audio.close()
	p.tex.Destroy()
	p.ren.Destroy()
	p.win.Destroy()
	sdl.Quit()
}

// PresentFrame rasterizes the already-rotated boolean frame into the
// surface and flips it to the texture, replacing the teacher's
// per-pixel getColor() lookup (color-overlay emulation is explicitly
// out of scope) with a flat white/black fill.
func (p *SDLPlatform) PresentFrame(f *Frame) {
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			color := uint32(0x000000FF)
			if f[y][x] {
				color = 0xFFFFFFFF
			}
			p.sur.FillRect(&sdl.Rect{X: int32(x), Y: int32(y), W: 1, H: 1}, color)
		}
	}
	pixels, _, err := p.tex.Lock(nil)
	if err != nil {
		return
	}
	copy(pixels, p.sur.Pixels())
	p.tex.Unlock()

	p.ren.Copy(p.tex, nil, nil)
	p.ren.Present()
}

// PollInput drains the SDL event queue, updates the atomic key
// bitfield from KEYDOWN/KEYUP events, and returns the current
// snapshot. Machine calls this once per frame from its single loop;
// the bitfield itself may additionally be written from SDL's own
// event-polling thread semantics, hence the atomic store/load pair
// rather than a plain field.
func (p *SDLPlatform) PollInput() (iobus.KeyState, bool) {
	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			quit = true
		case *sdl.KeyboardEvent:
			bit, ok := keymap[e.Keysym.Sym]
			if !ok {
				continue
			}
			switch e.Type {
			case sdl.KEYDOWN:
				p.setBit(bit, true)
			case sdl.KEYUP:
				p.setBit(bit, false)
			}
		}
	}

	bits := p.keys.Load()
	ks := iobus.KeyState{
		Coin:    bits&uint32(bitCoin) != 0,
		P1Start: bits&uint32(bitP1Start) != 0,
		P2Start: bits&uint32(bitP2Start) != 0,
		P1Shoot: bits&uint32(bitP1Shoot) != 0,
		P1Left:  bits&uint32(bitP1Left) != 0,
		P1Right: bits&uint32(bitP1Right) != 0,
		Tilt:    bits&uint32(bitTilt) != 0,
	}
	return ks, quit
}

func (p *SDLPlatform) setBit(b keyBit, on bool) {
	for {
		old := p.keys.Load()
		var next uint32
		if on {
			next = old | uint32(b)
		} else {
			next = old &^ uint32(b)
		}
		if p.keys.CompareAndSwap(old, next) {
			return
		}
	}
}

// ToneOn/ToneOff forward to the audio gate, keyed by (port, bit) so
// ports 3 and 5's independent sound banks never collide.
func (p *SDLPlatform) ToneOn(port uint8, bit int)  { p.audio.gate(port, bit, true) }
func (p *SDLPlatform) ToneOff(port uint8, bit int) { p.audio.gate(port, bit, false) }
