package state

import "sync"

type listener struct {
	id int
	fn func()
}

// notifier keeps change listeners. Listeners run on the goroutine that made
// the change, after the store released its lock.
type notifier struct {
	mu        sync.Mutex
	next      int
	listeners []listener
}

// Subscribe registers fn to run after every change. The returned func removes it.
func (n *notifier) Subscribe(fn func()) func() {
	n.mu.Lock()
	id := n.next
	n.next++
	n.listeners = append(n.listeners, listener{id: id, fn: fn})
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			for i, l := range n.listeners {
				if l.id == id {
					n.listeners = append(n.listeners[:i:i], n.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (n *notifier) notify() {
	n.mu.Lock()
	listeners := make([]listener, len(n.listeners))
	copy(listeners, n.listeners)
	n.mu.Unlock()

	for _, l := range listeners {
		l.fn()
	}
}
