package g2d

import "slices"

// Listener is a callback registered on a Signal.
type Listener struct {
	notify func(data any)
	signal *Signal
}

// NewListener returns a listener calling fn on every emission.
func NewListener(fn func(data any)) *Listener {
	return &Listener{notify: fn}
}

// Signal is an ordered list of listeners notified together.
// The zero Signal has no listeners and is ready to use.
type Signal struct {
	listeners []*Listener
}

// Add registers l. A listener belongs to at most one signal; adding it
// again moves it.
func (s *Signal) Add(l *Listener) {
	if l.signal != nil {
		l.signal.Remove(l)
	}
	l.signal = s
	s.listeners = append(s.listeners, l)
}

// Remove unregisters l. Removing a listener that is not registered is a
// no-op.
func (s *Signal) Remove(l *Listener) {
	i := slices.Index(s.listeners, l)
	if i < 0 {
		return
	}
	s.listeners = slices.Delete(s.listeners, i, i+1)
	l.signal = nil
}

// Emit calls every listener registered when Emit starts, in registration
// order. Listeners may remove themselves or others while being notified;
// removed listeners that have not run yet are skipped.
func (s *Signal) Emit(data any) {
	for _, l := range slices.Clone(s.listeners) {
		if l.signal != s {
			continue
		}
		l.notify(data)
	}
}

// Len returns the number of registered listeners.
func (s *Signal) Len() int {
	return len(s.listeners)
}
