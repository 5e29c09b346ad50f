package display

import "sync/atomic"

// slot is one entry in the active-toast stack.
type slot struct {
	id     string
	height int
}

// Stack is the ordered record of currently visible toasts, used to
// compute non-overlapping bottom offsets. Order is creation order.
// Push and Remove must run on the GTK main loop; Len mirrors the slot
// count into an atomic so status queries can read it from any goroutine.
type Stack struct {
	margin int
	gap    int
	slots  []slot
	count  atomic.Int64
}

// NewStack creates a Stack with the given screen-edge margin and
// inter-toast gap.
func NewStack(margin, gap int) *Stack {
	return &Stack{margin: margin, gap: gap}
}

// Push appends a toast of the given height and returns its offset from
// the bottom screen edge: margin + sum(height+gap) over the toasts that
// were already active. The entry is appended before any animation
// starts so concurrent toasts stack above it.
func (s *Stack) Push(id string, height int) int {
	offset := s.NextOffset()
	s.slots = append(s.slots, slot{id: id, height: height})
	s.count.Store(int64(len(s.slots)))
	return offset
}

// NextOffset returns the bottom offset the next pushed toast would get.
func (s *Stack) NextOffset() int {
	offset := s.margin
	for _, sl := range s.slots {
		offset += sl.height + s.gap
	}
	return offset
}

// Remove removes the toast with the given id. Only called when a fade-out
// completes; a toast destroyed externally keeps its slot, so later toasts
// stack as if it were still visible.
func (s *Stack) Remove(id string) bool {
	for i, sl := range s.slots {
		if sl.id == id {
			s.slots = append(s.slots[:i], s.slots[i+1:]...)
			s.count.Store(int64(len(s.slots)))
			return true
		}
	}
	return false
}

// Len returns the number of recorded toasts. Safe to call from any
// goroutine.
func (s *Stack) Len() int {
	return int(s.count.Load())
}
