package bridge

import "sync"

// Slot is a mutex-guarded latest-value cell shared between one producer and
// one consumer. The lock is held only for the instant of the copy, never
// across device I/O, so neither side can stall the other. Load distinguishes
// "never stored / cleared" from a stored zero value, which is how an absent
// gamepad snapshot stays distinct from an all-released one.
type Slot[T any] struct {
	mu  sync.Mutex
	val T
	ok  bool
}

// Store publishes v as the latest value, superseding any previous one.
func (s *Slot[T]) Store(v T) {
	s.mu.Lock()
	s.val = v
	s.ok = true
	s.mu.Unlock()
}

// Load returns the latest value and whether one is present.
func (s *Slot[T]) Load() (T, bool) {
	s.mu.Lock()
	v, ok := s.val, s.ok
	s.mu.Unlock()
	return v, ok
}

// Clear marks the slot absent.
func (s *Slot[T]) Clear() {
	s.mu.Lock()
	var zero T
	s.val = zero
	s.ok = false
	s.mu.Unlock()
}
