package sim

import (
	"context"
	"math/rand"
	"sync"
)

// Sensor replays a scripted sample sequence and keeps returning the last
// sample once the script is exhausted.
type Sensor struct {
	// mu protects the cursor.
	mu sync.Mutex
	// samples is the scripted sequence to replay.
	samples []float64
	// next is the index of the next sample to return.
	next int
}

// NewSensor creates a scripted sensor. At least one sample must be provided.
func NewSensor(samples ...float64) *Sensor {
	return &Sensor{samples: samples}
}

// Read returns the next scripted sample.
func (s *Sensor) Read(_ context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sample := s.samples[s.next]
	if s.next < len(s.samples)-1 {
		s.next++
	}

	return sample, nil
}

// Wanderer produces a bounded random walk, useful for running the daemon
// without physical hardware attached.
type Wanderer struct {
	// mu protects the current value and generator.
	mu sync.Mutex
	// value is the current walk position.
	value float64
	// low and high clamp the walk.
	low, high float64
	// step is the maximum per-read movement.
	step float64
	// rng drives the walk.
	rng *rand.Rand
}

// NewWanderer creates a random walk starting at start, clamped to [low, high],
// moving at most step per read.
func NewWanderer(start, low, high, step float64) *Wanderer {
	return &Wanderer{
		value: start,
		low:   low,
		high:  high,
		step:  step,
		rng:   rand.New(rand.NewSource(rand.Int63())),
	}
}

// Read advances the walk one step and returns the new value.
func (w *Wanderer) Read(_ context.Context) (float64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.value += (w.rng.Float64()*2 - 1) * w.step

	switch {
	case w.value < w.low:
		w.value = w.low
	case w.value > w.high:
		w.value = w.high
	}

	return w.value, nil
}
