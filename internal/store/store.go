package store

// Store is a session-scoped state cell. The generation workflow spans several
// stages (configure a PDF range, hop to the editor, come back), and each stage
// re-reads its in-progress state from here instead of keeping it locally. The
// cell lives as long as the owning session object, is read and written by a
// single consumer at a time, and is never persisted.
type Store[T any] struct {
	defaults func() T
	state    T
}

// New creates a store seeded from defaults. Reset returns to the same
// defaults, so the function must produce a fresh value each call.
func New[T any](defaults func() T) *Store[T] {
	return &Store[T]{
		defaults: defaults,
		state:    defaults(),
	}
}

func (s *Store[T]) Get() T {
	return s.state
}

// Set applies a partial update: the mutator sees the current state and
// changes only the fields it cares about.
func (s *Store[T]) Set(mutate func(*T)) {
	mutate(&s.state)
}

func (s *Store[T]) Reset() {
	s.state = s.defaults()
}
