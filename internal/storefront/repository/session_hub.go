package repository

import (
	"sync"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
)

// sessionHub fans session transitions out to subscribers.
// Each subscriber has its own goroutine so a slow listener never blocks the backend,
// and delivery per subscriber stays in transition order.
type sessionHub struct {
	mu      sync.Mutex
	current *domain.User
	next    uint64
	subs    map[uint64]*subscription
}

type subscription struct {
	ch   chan *domain.User
	done chan struct{}
	once sync.Once
}

func newSessionHub() *sessionHub {
	return &sessionHub{subs: make(map[uint64]*subscription)}
}

// offer enqueues u, dropping the oldest pending value when the buffer is full.
// Only the latest identity matters to a listener.
func (s *subscription) offer(u *domain.User) {
	for {
		select {
		case s.ch <- u:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

func (h *sessionHub) subscribe(listener domain.SessionListener) func() {
	sub := &subscription{
		ch:   make(chan *domain.User, 8),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = sub
	sub.offer(copyUser(h.current))
	h.mu.Unlock()

	go func() {
		for {
			select {
			case <-sub.done:
				return
			case u := <-sub.ch:
				select {
				case <-sub.done:
					return
				default:
				}
				listener(u)
			}
		}
	}()

	return func() {
		sub.once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(sub.done)
		})
	}
}

// set records the identity and notifies every subscriber
func (h *sessionHub) set(u *domain.User) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.current = copyUser(u)
	for _, sub := range h.subs {
		sub.offer(copyUser(u))
	}
}

func (h *sessionHub) user() *domain.User {
	h.mu.Lock()
	defer h.mu.Unlock()
	return copyUser(h.current)
}

func copyUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
