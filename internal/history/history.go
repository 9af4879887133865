// Package history keeps a linear undo/redo timeline of states.
package history

// History is a sequence of states with a cursor. Index 0 is the initial
// state; it can be returned to but not undone past.
type History[T any] struct {
	entries []T
	index   int
	limit   int
}

type Option func(*config)

type config struct {
	limit int
}

// WithLimit caps the number of retained entries. Once exceeded the oldest
// entries are dropped. Zero means unlimited.
func WithLimit(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.limit = n
		}
	}
}

func New[T any](initial T, opts ...Option) *History[T] {
	var c config
	for _, o := range opts {
		o(&c)
	}
	return &History[T]{
		entries: []T{initial},
		limit:   c.limit,
	}
}

// Commit discards any redo branch, appends state and makes it current.
func (h *History[T]) Commit(state T) {
	h.entries = append(h.entries[:h.index+1], state)
	h.index = len(h.entries) - 1

	if h.limit > 0 && len(h.entries) > h.limit {
		drop := len(h.entries) - h.limit
		var zero T
		for i := 0; i < drop; i++ {
			h.entries[i] = zero
		}
		h.entries = h.entries[drop:]
		h.index -= drop
	}
}

func (h *History[T]) Undo() (T, bool) {
	if !h.CanUndo() {
		return h.Current(), false
	}
	h.index--
	return h.entries[h.index], true
}

func (h *History[T]) Redo() (T, bool) {
	if !h.CanRedo() {
		return h.Current(), false
	}
	h.index++
	return h.entries[h.index], true
}

func (h *History[T]) Current() T {
	return h.entries[h.index]
}

func (h *History[T]) CanUndo() bool {
	return h.index > 0
}

func (h *History[T]) CanRedo() bool {
	return h.index < len(h.entries)-1
}

func (h *History[T]) Len() int {
	return len(h.entries)
}

func (h *History[T]) Index() int {
	return h.index
}

// Reset forgets the whole timeline and starts again from initial.
func (h *History[T]) Reset(initial T) {
	clear(h.entries)
	h.entries = append(h.entries[:0], initial)
	h.index = 0
}
