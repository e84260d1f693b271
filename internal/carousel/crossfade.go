package carousel

import (
	"context"
	"sync"
	"time"
)

// Phase is the cross-fade cycle position for the active image.
type Phase int

const (
	// PhaseHold shows the image fully opaque.
	PhaseHold Phase = iota
	// PhaseFade blends the current image into the next one.
	PhaseFade
)

// Crossfade cycles the full-bleed background images: hold the current
// image, fade into the next, advance with wrap-around, repeat. One full
// cycle takes hold+fade since the outgoing and incoming fades overlap.
type Crossfade struct {
	mu    sync.Mutex
	count int
	index int
	phase Phase

	hold time.Duration
	fade time.Duration

	// OnAdvance, when set, fires after each advance with the new index.
	OnAdvance func(index int)
}

// NewCrossfade creates a cycler over count images.
func NewCrossfade(count int, hold, fade time.Duration) *Crossfade {
	return &Crossfade{count: count, hold: hold, fade: fade}
}

// Index returns the active image.
func (c *Crossfade) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Phase returns the current cycle phase.
func (c *Crossfade) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Run blocks and drives the cycle until ctx is cancelled. With fewer than
// two images there is nothing to cycle: Run returns immediately and no
// timer is ever created — a single image just stays fully opaque.
func (c *Crossfade) Run(ctx context.Context) {
	c.mu.Lock()
	count := c.count
	c.mu.Unlock()
	if count < 2 {
		return
	}

	timer := time.NewTimer(c.hold)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		c.mu.Lock()
		switch c.phase {
		case PhaseHold:
			c.phase = PhaseFade
			timer.Reset(c.fade)
		case PhaseFade:
			c.index = (c.index + 1) % c.count
			c.phase = PhaseHold
			cb, idx := c.OnAdvance, c.index
			timer.Reset(c.hold)
			c.mu.Unlock()
			if cb != nil {
				cb(idx)
			}
			continue
		}
		c.mu.Unlock()
	}
}
