// Package optimistic implements the client-side counter reconciliation used
// by the mobile UI for likes and bookmarks: the displayed counter moves
// immediately on a tap, then settles against the server's authoritative
// toggle result when the round trip completes.
package optimistic

// Counter tracks one engagement counter for one post as seen by one client.
// It is not safe for concurrent use; the UI loop owns it.
type Counter struct {
	count    int64
	active   bool
	inFlight int
}

// NewCounter starts from the last server-confirmed count and active state.
func NewCounter(count int64, active bool) *Counter {
	return &Counter{count: count, active: active}
}

// Toggle applies the user's tap optimistically: the assumed active state
// flips and the counter moves by the implied delta before any server round
// trip. Returns the assumed post-toggle state, which is what the caller
// dispatches alongside the toggle request.
func (c *Counter) Toggle() bool {
	c.active = !c.active
	if c.active {
		c.count++
	} else {
		c.count--
	}
	c.inFlight++
	return c.active
}

// Confirm reconciles one server response. While earlier toggles are still
// in flight the response is only counted off; reconciliation happens on the
// final outstanding confirmation, so out-of-order responses cannot corrupt
// the counter. When the authoritative state disagrees with the assumed one,
// the counter is corrected by the delta the server result implies rather
// than by trusting the optimistic guess.
func (c *Counter) Confirm(serverActive bool) {
	if c.inFlight > 0 {
		c.inFlight--
	}
	if c.inFlight > 0 {
		return
	}
	if serverActive != c.active {
		if serverActive {
			c.count++
		} else {
			c.count--
		}
		c.active = serverActive
	}
}

// Refresh replaces local state with a server snapshot, dropping any
// unconfirmed optimistic deltas. Used after a full refetch.
func (c *Counter) Refresh(count int64, active bool) {
	c.count = count
	c.active = active
	c.inFlight = 0
}

// Count returns the counter value the UI should display right now.
func (c *Counter) Count() int64 { return c.count }

// Active returns the engagement state the UI should display right now.
func (c *Counter) Active() bool { return c.active }

// Pending reports how many toggle round trips are still unconfirmed.
func (c *Counter) Pending() int { return c.inFlight }
