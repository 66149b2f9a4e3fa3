package timeline

import (
	"context"
	"sync"
	"time"
)

// Clock is a playback element as seen by the resolver: a readable position
// plus time-update notifications at whatever rate the host chooses.
type Clock interface {
	CurrentTime() float64
	Subscribe(fn func(t float64)) (cancel func())
}

// Follow resolves the clock position on every update and calls onChange
// whenever the resolved value differs from the previous one. The current
// position is resolved immediately. A nil clock yields a no-op.
func Follow[R comparable](clock Clock, resolve func(t float64) R, onChange func(R)) (stop func()) {
	if clock == nil || resolve == nil || onChange == nil {
		return func() {}
	}

	var (
		mu     sync.Mutex
		last   R
		primed bool
	)
	update := func(t float64) {
		current := resolve(t)
		mu.Lock()
		if primed && current == last {
			mu.Unlock()
			return
		}
		last, primed = current, true
		mu.Unlock()
		onChange(current)
	}

	cancel := clock.Subscribe(update)
	update(clock.CurrentTime())
	return cancel
}

type subscribers struct {
	mu  sync.Mutex
	seq int
	fns map[int]func(float64)
}

func (s *subscribers) add(fn func(float64)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fns == nil {
		s.fns = make(map[int]func(float64))
	}
	s.seq++
	id := s.seq
	s.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.fns, id)
			s.mu.Unlock()
		})
	}
}

func (s *subscribers) notify(t float64) {
	s.mu.Lock()
	fns := make([]func(float64), 0, len(s.fns))
	for _, fn := range s.fns {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(t)
	}
}

// ManualClock only moves when told to. Seeking and tests use it.
type ManualClock struct {
	mu   sync.Mutex
	now  float64
	subs subscribers
}

func NewManualClock(start float64) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Subscribe(fn func(t float64)) func() {
	return c.subs.add(fn)
}

// Set moves the clock to t and notifies subscribers.
func (c *ManualClock) Set(t float64) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
	c.subs.notify(t)
}

// Advance moves the clock forward by d seconds.
func (c *ManualClock) Advance(d float64) {
	c.mu.Lock()
	c.now += d
	t := c.now
	c.mu.Unlock()
	c.subs.notify(t)
}

// DefaultTickInterval approximates the timeupdate cadence of browser media elements.
const DefaultTickInterval = 250 * time.Millisecond

// TickerClock plays from an offset in wall-clock time, notifying subscribers
// every interval while Run is active.
type TickerClock struct {
	mu       sync.Mutex
	offset   float64
	started  time.Time
	running  bool
	interval time.Duration
	now      func() time.Time
	subs     subscribers
}

func NewTickerClock(offset float64, interval time.Duration) *TickerClock {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &TickerClock{offset: offset, interval: interval, now: time.Now}
}

func (c *TickerClock) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.positionLocked()
}

func (c *TickerClock) positionLocked() float64 {
	if !c.running {
		return c.offset
	}
	return c.offset + c.now().Sub(c.started).Seconds()
}

func (c *TickerClock) Subscribe(fn func(t float64)) func() {
	return c.subs.add(fn)
}

// Run starts playback and blocks until ctx is done, at which point the clock
// pauses at its last position.
func (c *TickerClock) Run(ctx context.Context) {
	c.mu.Lock()
	c.started = c.now()
	c.running = true
	c.mu.Unlock()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	defer func() {
		c.mu.Lock()
		c.offset = c.positionLocked()
		c.running = false
		c.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.subs.notify(c.CurrentTime())
		}
	}
}
