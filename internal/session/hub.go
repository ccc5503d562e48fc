package session

import "sync"

const subscriberBuffer = 16

// hub fans session events out to subscribers of that session.
// Slow subscribers miss events rather than block the publisher.
type hub struct {
	mu   sync.Mutex
	subs map[string]map[chan Event]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[string]map[chan Event]struct{})}
}

func (h *hub) subscribe(id string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	if h.subs[id] == nil {
		h.subs[id] = make(map[chan Event]struct{})
	}
	h.subs[id][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[id], ch)
			if len(h.subs[id]) == 0 {
				delete(h.subs, id)
			}
			close(ch)
		})
	}
	return ch, cancel
}

func (h *hub) publish(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[event.SessionID] {
		select {
		case ch <- event:
		default:
		}
	}
}
