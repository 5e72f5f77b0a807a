package platform

import (
	"sync"

	"github.com/veandco/go-sdl2/sdl"
)

// sdlAudio is a fixed-frequency square-wave gate: while any (port,
// bit) pair is asserted it streams a 440Hz square wave to the audio
// device, and silence otherwise. The reference implementation
// (original_source/src/main.cpp's AudioFn) gated its tone through a
// blocking SDL_AudioSpec callback; go-sdl2 favors queueing samples
// with QueueAudio from the main loop instead of registering a native
// callback, so that shape is used here, with the tone generated in a
// small feeder goroutine instead.
type sdlAudio struct {
	dev sdl.AudioDeviceID

	mu     sync.Mutex
	active map[[2]int]bool

	stop chan struct{}
	wg   sync.WaitGroup
}

const (
	audioFreq    = 44100
	audioToneHz  = 440
	audioSamples = 512
)

func newSDLAudio() (*sdlAudio, error) {
	spec := sdl.AudioSpec{
		Freq:     audioFreq,
		Format:   sdl.AUDIO_S16SYS,
		Channels: 1,
		Samples:  audioSamples,
	}
	dev, err := sdl.OpenAudioDevice("", false, &spec, nil, 0)
	if err != nil {
		return nil, err
	}
	sdl.PauseAudioDevice(dev, false)

	a := &sdlAudio{dev: dev, active: make(map[[2]int]bool), stop: make(chan struct{})}
	a.wg.Add(1)
	go a.feed()
	return a, nil
}

func (a *sdlAudio) gate(port uint8, bit int, on bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := [2]int{int(port), bit}
	if on {
		a.active[key] = true
	} else {
		delete(a.active, key)
	}
}

func (a *sdlAudio) anyActive() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.active) > 0
}

// feed streams a square wave (or silence) in audioSamples-sized
// chunks for as long as the audio device is open. It is the only
// writer to the SDL audio queue, so it never races QueueAudio calls
// from elsewhere.
func (a *sdlAudio) feed() {
	defer a.wg.Done()
	buf := make([]int16, audioSamples)
	phase := 0
	period := audioFreq / audioToneHz

	for {
		select {
		case <-a.stop:
			return
		default:
		}

		if a.anyActive() {
			for i := range buf {
				if (phase/(period/2))%2 == 0 {
					buf[i] = 12000
				} else {
					buf[i] = -12000
				}
				phase = (phase + 1) % period
			}
		} else {
			for i := range buf {
				buf[i] = 0
			}
			phase = 0
		}

		sdl.QueueAudio(a.dev, int16SliceToBytes(buf))
		sdl.Delay(uint32(audioSamples * 1000 / audioFreq))
	}
}

func (a *sdlAudio) close() {
	close(a.stop)
	a.wg.Wait()
	sdl.CloseAudioDevice(a.dev)
}

func int16SliceToBytes(s []int16) []byte {
	b := make([]byte, len(s)*2)
	for i, v := range s {
		b[2*i] = byte(v)
		b[2*i+1] = byte(v >> 8)
	}
	return b
}
