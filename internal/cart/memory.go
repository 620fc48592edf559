package cart

import (
	"context"
	"sync"
)

// MemoryHub is an in-process slot backend. Every MemorySlot attached to the
// same hub shares one value and observes the others' writes, which makes a
// hub with two slots behave exactly like two tabs sharing local storage.
// Used in tests and when the storefront runs without Redis.
type MemoryHub struct {
	mu    sync.Mutex
	data  []byte
	slots map[*MemorySlot]struct{}
}

// NewMemoryHub creates an empty hub.
func NewMemoryHub() *MemoryHub {
	return &MemoryHub{slots: make(map[*MemorySlot]struct{})}
}

// Slot attaches a new slot to the hub.
func (h *MemoryHub) Slot() *MemorySlot {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := &MemorySlot{hub: h}
	h.slots[s] = struct{}{}
	return s
}

func (h *MemoryHub) store(from *MemorySlot, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.data = append([]byte(nil), data...)
	for s := range h.slots {
		if s == from || s.watch == nil {
			continue
		}
		// Non-blocking: a watcher that stops draining loses updates
		// instead of wedging every slot on the hub. Last write observed
		// wins, so a dropped intermediate value is already stale.
		select {
		case s.watch <- append([]byte(nil), data...):
		default:
		}
	}
}

func (h *MemoryHub) load() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.data == nil {
		return nil
	}
	return append([]byte(nil), h.data...)
}

func (h *MemoryHub) detach(s *MemorySlot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.slots, s)
	if s.watch != nil {
		close(s.watch)
		s.watch = nil
	}
}

// MemorySlot is one owner's handle on a MemoryHub value.
type MemorySlot struct {
	hub   *MemoryHub
	watch chan []byte
}

func (s *MemorySlot) Load(_ context.Context) ([]byte, error) {
	return s.hub.load(), nil
}

func (s *MemorySlot) Store(_ context.Context, data []byte) error {
	s.hub.store(s, data)
	return nil
}

func (s *MemorySlot) Watch(ctx context.Context) (<-chan []byte, error) {
	s.hub.mu.Lock()
	if s.watch == nil {
		// Buffered so a peer's write never blocks on a slow watcher.
		s.watch = make(chan []byte, 16)
	}
	ch := s.watch
	s.hub.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.hub.detach(s)
	}()

	return ch, nil
}

func (s *MemorySlot) Close() error {
	s.hub.detach(s)
	return nil
}
