package chime

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// tone is a sine partial with a linear attack and a linear release that
// ends at the close of the stream.
type tone struct {
	step    float64 // phase advance per sample
	phase   float64
	pos     int
	total   int
	attack  int
	release int
}

func newTone(freq float64, d, attack, release time.Duration, rate beep.SampleRate) *tone {
	total := rate.N(d)
	return &tone{
		step:    freq / float64(rate),
		total:   total,
		attack:  min(rate.N(attack), total),
		release: min(rate.N(release), total),
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.pos >= t.total {
			return i, i > 0
		}
		v := math.Sin(2*math.Pi*t.phase) * t.gain()
		samples[i][0], samples[i][1] = v, v

		t.phase += t.step
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// gain is the envelope at the current position, in [0, 1].
func (t *tone) gain() float64 {
	g := 1.0
	if t.attack > 0 && t.pos < t.attack {
		g = float64(t.pos) / float64(t.attack)
	}
	if left := t.total - t.pos; t.release > 0 && left <= t.release {
		g = min(g, float64(left)/float64(t.release))
	}
	return g
}
