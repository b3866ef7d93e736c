// Package latest guards UI state against out-of-order network replies.
//
// In-flight HTTP requests can't generally be cancelled once issued, but the
// only observable effect of a lookup is the state it overwrites on return.
// Tagging each outbound request with a monotonic token and comparing on
// completion converts "cancel the request" into "ignore superseded
// responses", which is all that's needed.
package latest

// Tracker issues per-field monotonic tokens. Like the debounce scheduler it
// lives on the event loop and is not safe for concurrent use.
type Tracker struct {
	seq map[string]uint64
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{seq: make(map[string]uint64)}
}

// Issue returns the next token for field. The caller tags its outbound
// request with the token and checks IsCurrent when the reply arrives.
func (t *Tracker) Issue(field string) uint64 {
	t.seq[field]++
	return t.seq[field]
}

// IsCurrent reports whether no later token has been issued for field since
// token. A stale reply must be discarded silently; it is not an error.
func (t *Tracker) IsCurrent(field string, token uint64) bool {
	return token == t.seq[field]
}

// Invalidate supersedes every outstanding token for field without issuing a
// new one. Used when a field is cleared and any reply still in flight must
// not resurrect it.
func (t *Tracker) Invalidate(field string) {
	t.seq[field]++
}
