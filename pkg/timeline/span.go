// Package timeline locates playback positions inside time-ordered spans.
//
// Every span is a half-open interval [start, end): a position equal to a
// span's end belongs to the next span, never to this one. Adjacent spans must
// share the boundary instant for seamless coverage; anything else is a gap in
// which nothing is active.
package timeline

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrEmptySpan = errors.New("timeline: span end must be after its start")
	ErrUnordered = errors.New("timeline: spans are not time-ordered")
	ErrOverlap   = errors.New("timeline: spans overlap")
	ErrNotNested = errors.New("timeline: span escapes its parent")
)

// Span is anything occupying an interval of the media timeline, in seconds.
type Span interface {
	Bounds() (start, end float64)
}

// Interval is a plain Span value.
type Interval struct {
	Start float64
	End   float64
}

func (i Interval) Bounds() (float64, float64) { return i.Start, i.End }

// Contains reports whether t lies in [start, end).
func Contains(start, end, t float64) bool {
	return t >= start && t < end
}

// Search returns the index of the span covering t, or -1 when t falls before,
// after, or between spans. spans must satisfy Validate.
func Search[S Span](spans []S, t float64) int {
	next := sort.Search(len(spans), func(i int) bool {
		start, _ := spans[i].Bounds()
		return start > t
	})
	if next == 0 {
		return -1
	}
	start, end := spans[next-1].Bounds()
	if !Contains(start, end, t) {
		return -1
	}
	return next - 1
}

// Validate checks that spans are non-empty, time-ordered and non-overlapping.
func Validate[S Span](spans []S) error {
	var prevStart, prevEnd float64
	for i, span := range spans {
		start, end := span.Bounds()
		if !(start < end) {
			return fmt.Errorf("span %d [%g, %g): %w", i, start, end, ErrEmptySpan)
		}
		if i > 0 {
			if start < prevStart {
				return fmt.Errorf("span %d starts at %g before span %d at %g: %w", i, start, i-1, prevStart, ErrUnordered)
			}
			if start < prevEnd {
				return fmt.Errorf("span %d starts at %g before span %d ends at %g: %w", i, start, i-1, prevEnd, ErrOverlap)
			}
		}
		prevStart, prevEnd = start, end
	}
	return nil
}

// Nested checks that every child lies within parent.
func Nested[S Span](parent Span, children []S) error {
	pStart, pEnd := parent.Bounds()
	for i, child := range children {
		start, end := child.Bounds()
		if start < pStart || end > pEnd {
			return fmt.Errorf("span %d [%g, %g) outside [%g, %g): %w", i, start, end, pStart, pEnd, ErrNotNested)
		}
	}
	return nil
}

// Gaps lists the uncovered intervals between consecutive spans.
func Gaps[S Span](spans []S) []Interval {
	var gaps []Interval
	for i := 1; i < len(spans); i++ {
		_, prevEnd := spans[i-1].Bounds()
		start, _ := spans[i].Bounds()
		if start > prevEnd {
			gaps = append(gaps, Interval{Start: prevEnd, End: start})
		}
	}
	return gaps
}
