package state

import "sync"

// ErrorSlot holds the single user-visible error message shared by the
// catalog, detail and review flows. New messages overwrite old ones.
type ErrorSlot struct {
	notifier
	mu  sync.RWMutex
	msg string
}

// NewErrorSlot creates an empty error slot
func NewErrorSlot() *ErrorSlot {
	return &ErrorSlot{}
}

// Message returns the current message, "" when there is none
func (s *ErrorSlot) Message() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.msg
}

// Set overwrites the message
func (s *ErrorSlot) Set(msg string) {
	s.mu.Lock()
	s.msg = msg
	s.mu.Unlock()
	s.notify()
}

// Clear removes the message
func (s *ErrorSlot) Clear() {
	s.mu.Lock()
	changed := s.msg != ""
	s.msg = ""
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}
