package timeline

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestFollowEmitsOnlyOnChange(t *testing.T) {
	spans := []Interval{{0, 2}, {2, 4}}
	clock := NewManualClock(0.5)

	var got []int
	stop := Follow(clock, func(at float64) int { return Search(spans, at) }, func(idx int) {
		got = append(got, idx)
	})
	defer stop()

	for _, at := range []float64{0.75, 1.0, 1.99, 2.0, 3.5, 4.0, 4.5} {
		clock.Set(at)
	}

	want := []int{0, 1, -1}
	if len(got) != len(want) {
		t.Fatalf("expected emissions %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected emissions %v, got %v", want, got)
		}
	}
}

func TestFollowStop(t *testing.T) {
	clock := NewManualClock(0)
	calls := 0
	stop := Follow(clock, func(at float64) float64 { return at }, func(float64) { calls++ })
	clock.Advance(1)
	stop()
	stop()
	clock.Advance(1)
	if calls != 2 {
		t.Fatalf("expected 2 calls (initial + one update), got %d", calls)
	}
}

func TestFollowNilClock(t *testing.T) {
	called := false
	stop := Follow[int](nil, func(float64) int { return 1 }, func(int) { called = true })
	stop()
	if called {
		t.Fatal("nil clock must not invoke onChange")
	}
}

func TestTickerClockAdvancesAndPauses(t *testing.T) {
	clock := NewTickerClock(10, 5*time.Millisecond)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	current := base
	clock.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	}

	if got := clock.CurrentTime(); got != 10 {
		t.Fatalf("expected paused clock at offset 10, got %v", got)
	}

	ticks := make(chan float64, 64)
	cancelSub := clock.Subscribe(func(at float64) {
		select {
		case ticks <- at:
		default:
		}
	})
	defer cancelSub()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		clock.Run(ctx)
		close(done)
	}()

	waitTick := func() float64 {
		select {
		case at := <-ticks:
			return at
		case <-time.After(2 * time.Second):
			t.Fatal("expected a tick")
		}
		return 0
	}

	if at := waitTick(); at != 10 {
		t.Fatalf("expected first tick at 10, got %v", at)
	}

	mu.Lock()
	current = base.Add(1500 * time.Millisecond)
	mu.Unlock()

	for at := waitTick(); at != 11.5; at = waitTick() {
	}
	cancel()
	<-done

	if got := clock.CurrentTime(); got != 11.5 {
		t.Fatalf("expected clock paused at 11.5, got %v", got)
	}
}
