// Package animate drives the per-character reveal and dismiss transitions.
//
// Each character gets its own uniformly random delay; nothing orders the
// characters of a cell. Reveal and Dismiss return immediately with a Batch
// that settles after the last character's transition.
package animate

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	// RevealSpread bounds the random per-character reveal delay.
	RevealSpread = 300 * time.Millisecond
	// DismissSpread bounds the random per-character dismiss delay.
	DismissSpread = 500 * time.Millisecond
	// Transition is the fade time after a character's toggle fires.
	Transition = 100 * time.Millisecond
	// DismissPause is the longest a dismiss batch can take to settle.
	DismissPause = DismissSpread + Transition
)

// Scheduler runs f after d. Scheduled work is never cancelled.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// TimerScheduler schedules on real timers.
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// ImmediateScheduler runs f synchronously, ignoring the delay.
type ImmediateScheduler struct{}

func (ImmediateScheduler) AfterFunc(_ time.Duration, f func()) {
	f()
}

// Animator schedules glyph toggles.
type Animator struct {
	sched Scheduler
	delay func(spread time.Duration) time.Duration
}

// New returns an animator. A nil scheduler uses real timers.
func New(sched Scheduler) *Animator {
	if sched == nil {
		sched = TimerScheduler{}
	}
	return &Animator{
		sched: sched,
		delay: func(spread time.Duration) time.Duration { return rand.N(spread) },
	}
}

// WithDelay replaces the random delay source.
func (a *Animator) WithDelay(delay func(spread time.Duration) time.Duration) *Animator {
	a.delay = delay
	return a
}

// Reveal replaces the cell's content with text, every character starting
// hidden and appearing after its own delay in [0, RevealSpread).
func (a *Animator) Reveal(c *Cell, text any) *Batch {
	s := fmt.Sprint(text)
	gen := c.reset(s, GlyphHidden)
	return a.schedule(c, gen, len([]rune(s)), RevealSpread, GlyphShown)
}

// Dismiss fades out the cell's current characters, each after its own delay
// in [0, DismissSpread).
func (a *Animator) Dismiss(c *Cell) *Batch {
	gen, n := c.restyle(GlyphShown)
	return a.schedule(c, gen, n, DismissSpread, GlyphFaded)
}

func (a *Animator) schedule(c *Cell, gen uint64, n int, spread time.Duration, to GlyphState) *Batch {
	b := newBatch(n)
	for i := 0; i < n; i++ {
		a.sched.AfterFunc(a.delay(spread), func() {
			c.toggle(gen, i, to)
			a.sched.AfterFunc(Transition, b.settle)
		})
	}
	return b
}
