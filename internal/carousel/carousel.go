// Package carousel implements the slide-state machines behind the site's
// carousels: the landing hero, the blog/portfolio previews, and the
// background cross-fade. The engines are pure state + timers so the
// rendering layer (and the showroom ticker stream) can share one
// implementation and the interaction rules stay testable.
package carousel

import (
	"context"
	"sync"
	"time"
)

// DragThresholdPx is the minimum absolute horizontal delta, in pixels,
// for a drag gesture to move a slide. Anything smaller is a tap.
const DragThresholdPx = 50

// Mode controls edge behavior for pointer drags.
type Mode int

const (
	// Wrap cycles past the edges (hero and background carousels).
	Wrap Mode = iota
	// Clamp stops pointer drags at index 0 and count-1 (blog preview).
	// Auto-advance wraps regardless of mode.
	Clamp
)

// Strip is one carousel's slide index with drag tracking.
type Strip struct {
	mu       sync.Mutex
	count    int
	index    int
	mode     Mode
	dragging bool
}

// NewStrip creates a strip over count slides.
func NewStrip(count int, mode Mode) *Strip {
	return &Strip{count: count, mode: mode}
}

// Index returns the active slide.
func (s *Strip) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Count returns the number of slides.
func (s *Strip) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// SetCount replaces the slide count, clamping the active index into range.
func (s *Strip) SetCount(count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count = count
	if s.index >= count {
		s.index = 0
	}
}

// GoTo is dot-indicator navigation: jump straight to a slide.
func (s *Strip) GoTo(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i >= 0 && i < s.count {
		s.index = i
	}
}

// Advance moves one slide forward with wrap-around. This is the
// auto-advance step: it wraps even for Clamp strips.
func (s *Strip) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.count < 2 {
		return
	}
	s.index = (s.index + 1) % s.count
}

// BeginDrag marks a pointer press. Auto-advance pauses while dragging.
func (s *Strip) BeginDrag() {
	s.mu.Lock()
	s.dragging = true
	s.mu.Unlock()
}

// EndDrag resolves a gesture from its horizontal delta (release X minus
// press X, in pixels). Below the threshold nothing moves — the gesture was
// a tap. At or past it, exactly one slide in the gesture's direction:
// dragging left (negative delta) advances, dragging right retreats.
// Returns whether the index changed.
func (s *Strip) EndDrag(deltaPx float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dragging = false

	if s.count < 2 {
		return false
	}
	if deltaPx > -DragThresholdPx && deltaPx < DragThresholdPx {
		return false
	}

	step := 1
	if deltaPx > 0 {
		step = -1
	}

	next := s.index + step
	switch s.mode {
	case Wrap:
		next = (next + s.count) % s.count
	case Clamp:
		if next < 0 || next >= s.count {
			return false
		}
	}
	if next == s.index {
		return false
	}
	s.index = next
	return true
}

// Dragging reports whether a pointer drag is in flight.
func (s *Strip) Dragging() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dragging
}

// AutoAdvancer steps a strip forward on a fixed interval, skipping ticks
// that land mid-drag.
type AutoAdvancer struct {
	strip    *Strip
	interval time.Duration

	// OnAdvance, when set, fires after every automatic step with the new
	// index.
	OnAdvance func(index int)
}

// NewAutoAdvancer wires an advancer to a strip.
func NewAutoAdvancer(strip *Strip, interval time.Duration) *AutoAdvancer {
	return &AutoAdvancer{strip: strip, interval: interval}
}

// Run blocks, advancing until ctx is cancelled. The ticker is always
// stopped on return; there is no way to leak it.
func (a *AutoAdvancer) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if a.strip.Dragging() {
				continue
			}
			a.strip.Advance()
			if a.OnAdvance != nil {
				a.OnAdvance(a.strip.Index())
			}
		}
	}
}
