// Package audio plays the click tone of the terminal demo.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)

	clickFreq   = 880.0
	clickLength = 60 * time.Millisecond
)

// Clicker mixes short tones into the speaker. Calls before Initialize and
// after Close are no-ops.
type Clicker struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewClicker creates an uninitialized Clicker.
func NewClicker() *Clicker {
	return &Clicker{mixer: &beep.Mixer{}}
}

// Initialize opens the speaker.
func (c *Clicker) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Click plays one click tone.
func (c *Clicker) Click() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	tone, err := Tone(sampleRate, clickFreq, clickLength)
	if err != nil {
		return
	}
	speaker.Lock()
	c.mixer.Add(tone)
	speaker.Unlock()
}

// Close silences every pending tone.
func (c *Clicker) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	c.initialized = false
}

// Tone returns a sine tone of length d at a quarter of full volume.
func Tone(rate beep.SampleRate, freq float64, d time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, err
	}
	return &effects.Volume{
		Streamer: beep.Take(rate.N(d), sine),
		Base:     2,
		Volume:   -2,
	}, nil
}
