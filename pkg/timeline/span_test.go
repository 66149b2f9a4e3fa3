package timeline

import (
	"errors"
	"testing"
)

func TestSearchHalfOpen(t *testing.T) {
	spans := []Interval{{0, 2}, {2, 5}, {6, 8}}

	tests := []struct {
		name string
		at   float64
		want int
	}{
		{"before first", -0.5, -1},
		{"first start", 0, 0},
		{"inside first", 1.999, 0},
		{"shared boundary goes to next", 2, 1},
		{"inside second", 4.9, 1},
		{"end of second is a gap", 5, -1},
		{"inside gap", 5.5, -1},
		{"third start", 6, 2},
		{"end of last", 8, -1},
		{"after last", 100, -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Search(spans, tc.at); got != tc.want {
				t.Fatalf("Search(%v) = %d, want %d", tc.at, got, tc.want)
			}
		})
	}
}

func TestSearchEmpty(t *testing.T) {
	if got := Search([]Interval(nil), 1); got != -1 {
		t.Fatalf("expected -1 for empty spans, got %d", got)
	}
}

func TestSearchMatchesLinearScan(t *testing.T) {
	spans := []Interval{{0.5, 1}, {1, 1.5}, {2, 3.25}, {3.25, 4}, {7, 9}}
	for step := -10; step <= 100; step++ {
		at := float64(step) / 10
		want := -1
		for i, s := range spans {
			if at >= s.Start && at < s.End {
				want = i
				break
			}
		}
		if got := Search(spans, at); got != want {
			t.Fatalf("Search(%v) = %d, linear scan = %d", at, got, want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		spans []Interval
		want  error
	}{
		{"ok contiguous", []Interval{{0, 1}, {1, 2}}, nil},
		{"ok with gap", []Interval{{0, 1}, {3, 4}}, nil},
		{"empty span", []Interval{{1, 1}}, ErrEmptySpan},
		{"reversed span", []Interval{{2, 1}}, ErrEmptySpan},
		{"unordered", []Interval{{3, 4}, {0, 1}}, ErrUnordered},
		{"overlap", []Interval{{0, 2}, {1, 3}}, ErrOverlap},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.spans)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestNested(t *testing.T) {
	parent := Interval{2, 5}
	if err := Nested(parent, []Interval{{2, 3}, {3, 5}}); err != nil {
		t.Fatalf("expected nested words to pass, got %v", err)
	}
	if err := Nested(parent, []Interval{{1.5, 3}}); !errors.Is(err, ErrNotNested) {
		t.Fatalf("expected ErrNotNested for early start, got %v", err)
	}
	if err := Nested(parent, []Interval{{4, 5.1}}); !errors.Is(err, ErrNotNested) {
		t.Fatalf("expected ErrNotNested for late end, got %v", err)
	}
}

func TestGaps(t *testing.T) {
	gaps := Gaps([]Interval{{0, 1}, {1, 2}, {2.5, 3}, {4, 5}})
	if len(gaps) != 2 {
		t.Fatalf("expected 2 gaps, got %v", gaps)
	}
	if gaps[0] != (Interval{2, 2.5}) || gaps[1] != (Interval{3, 4}) {
		t.Fatalf("unexpected gaps %v", gaps)
	}
}
