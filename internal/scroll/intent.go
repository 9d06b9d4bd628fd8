// Package scroll decides, after a sub-view reloads, whether and where to
// scroll and which cue to play.
//
// Dispatch arms an [Intent] when it accepts a scan for processing. The view
// side consumes it through a [Refresher] once its own data reload completes.
package scroll

import "sync"

// Intent is the pending "scroll to the scanned record" request. Safe for
// concurrent use.
type Intent struct {
	mu    sync.Mutex
	armed bool
	token string
}

// Arm records that the record matching token should be scrolled to after
// the next search.
func (i *Intent) Arm(token string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.armed = true
	i.token = token
}

// Take consumes the intent, returning the armed token. ok is false when no
// intent was armed.
func (i *Intent) Take() (token string, ok bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	token, ok = i.token, i.armed
	i.armed = false
	i.token = ""
	return token, ok
}

// Armed reports whether an intent is pending and for which token, without
// consuming it.
func (i *Intent) Armed() (string, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.token, i.armed
}
