// Package carousel keeps the selection and horizontal-scroll bookkeeping of a
// categorized media chooser.
package carousel

// edgeTolerance absorbs sub-pixel rounding in scroll metrics.
const edgeTolerance = 1

// Metrics are the scroll container measurements, in pixels.
type Metrics struct {
	ScrollLeft  float64
	ScrollWidth float64
	ClientWidth float64
}

// State tracks the items shown in one carousel row.
type State[T any] struct {
	key      func(T) string
	items    []T
	selected string
	metrics  Metrics

	canLeft  bool
	canRight bool

	dragging        bool
	dragStartX      float64
	dragStartScroll float64
}

// New builds a carousel whose items are identified by key.
func New[T any](key func(T) string, items []T) *State[T] {
	s := &State[T]{key: key}
	s.SetItems(items)
	return s
}

func (s *State[T]) Items() []T { return s.items }

// Selected returns the selected item, if any.
func (s *State[T]) Selected() (T, bool) {
	for _, item := range s.items {
		if s.key(item) == s.selected {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Select marks the item with the given key; unknown keys are ignored.
func (s *State[T]) Select(key string) bool {
	for _, item := range s.items {
		if s.key(item) == key {
			s.selected = key
			return true
		}
	}
	return false
}

// SetItems replaces the list. The selection survives when its key is still
// present, otherwise it falls back to the first item.
func (s *State[T]) SetItems(items []T) {
	s.items = items
	if _, ok := s.Selected(); !ok {
		s.selected = ""
		if len(items) > 0 {
			s.selected = s.key(items[0])
		}
	}
	s.recompute()
}

// Mount records the initial measurements.
func (s *State[T]) Mount(m Metrics) {
	s.metrics = m
	s.recompute()
}

// Resize updates the container widths, keeping the scroll offset in range.
func (s *State[T]) Resize(scrollWidth, clientWidth float64) {
	s.metrics.ScrollWidth = scrollWidth
	s.metrics.ClientWidth = clientWidth
	s.metrics.ScrollLeft = s.clamp(s.metrics.ScrollLeft)
	s.recompute()
}

// Scroll records a new scroll offset.
func (s *State[T]) Scroll(left float64) {
	s.metrics.ScrollLeft = s.clamp(left)
	s.recompute()
}

func (s *State[T]) Metrics() Metrics { return s.metrics }

func (s *State[T]) CanScrollLeft() bool  { return s.canLeft }
func (s *State[T]) CanScrollRight() bool { return s.canRight }

// PointerDown starts a drag at x.
func (s *State[T]) PointerDown(x float64) {
	s.dragging = true
	s.dragStartX = x
	s.dragStartScroll = s.metrics.ScrollLeft
}

// PointerMove scrolls by the distance dragged since PointerDown.
func (s *State[T]) PointerMove(x float64) {
	if !s.dragging {
		return
	}
	s.Scroll(s.dragStartScroll - (x - s.dragStartX))
}

// PointerUp ends the drag.
func (s *State[T]) PointerUp() { s.dragging = false }

func (s *State[T]) Dragging() bool { return s.dragging }

func (s *State[T]) clamp(left float64) float64 {
	limit := s.metrics.ScrollWidth - s.metrics.ClientWidth
	if left > limit {
		left = limit
	}
	if left < 0 {
		left = 0
	}
	return left
}

func (s *State[T]) recompute() {
	m := s.metrics
	s.canLeft = m.ScrollLeft > 0
	s.canRight = m.ScrollLeft+m.ClientWidth < m.ScrollWidth-edgeTolerance
}
