package dispatch

import "sync"

// LastScanned holds the most recent scan token. It is shared by the
// dispatcher, which overwrites it on every scan, and the quantity capture,
// which reads it. Safe for concurrent use.
type LastScanned struct {
	mu    sync.RWMutex
	value string
	set   bool
}

// Set stores token.
func (l *LastScanned) Set(token string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.value, l.set = token, true
}

// Get returns the stored token. ok is false when nothing was scanned since
// the slot was created or cleared.
func (l *LastScanned) Get() (token string, ok bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.value, l.set
}

// Clear empties the slot.
func (l *LastScanned) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.value, l.set = "", false
}
