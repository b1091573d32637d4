// Package chime plays a short bell when a countdown completes.
package chime

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

// SampleRate is the speaker and synthesis rate.
const SampleRate = beep.SampleRate(44100)

// Bell envelope timings.
const (
	Duration           = 600 * time.Millisecond
	attack             = 5 * time.Millisecond
	fundamentalRelease = 550 * time.Millisecond
	overtoneRelease    = 250 * time.Millisecond
)

// Bell partials: A5 and the octave above.
const (
	fundamentalHz = 880.0
	overtoneHz    = 1760.0
)

// Chime synthesises and plays the completion bell.
type Chime struct {
	volume float64
	rate   beep.SampleRate
	play   func(beep.Streamer) error
}

// New creates a chime at the given volume (0..1; values outside are
// clamped). It plays through the system speaker.
func New(volume float64) *Chime {
	return &Chime{
		volume: min(max(volume, 0), 1),
		rate:   SampleRate,
		play:   speakerPlay,
	}
}

// Volume returns the clamped playback volume.
func (c *Chime) Volume() float64 {
	return c.volume
}

// Streamer returns a fresh bell stream. Each call starts from silence.
func (c *Chime) Streamer() beep.Streamer {
	fund := newTone(fundamentalHz, Duration, attack, fundamentalRelease, c.rate)
	over := newTone(overtoneHz, Duration, attack, overtoneRelease, c.rate)
	mixed := beep.Mix(
		withVolume(fund, 0.7),
		withVolume(over, 0.3),
	)
	return withVolume(mixed, c.volume)
}

// Play starts the bell and returns without waiting for it to finish.
func (c *Chime) Play() error {
	return c.play(c.Streamer())
}

var (
	speakerOnce sync.Once
	speakerErr  error
)

// speakerPlay initialises the speaker on first use and queues s.
func speakerPlay(s beep.Streamer) error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond))
	})
	if speakerErr != nil {
		return fmt.Errorf("chime: init speaker: %w", speakerErr)
	}
	speaker.Play(s)
	return nil
}

// withVolume scales s linearly. Zero is silence; log2(0) has no gain.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
