package optimistic

import "testing"

func TestToggleThenConfirmAgrees(t *testing.T) {
	c := NewCounter(5, false)

	if got := c.Toggle(); !got {
		t.Fatal("Toggle() = false, want true")
	}
	if c.Count() != 6 {
		t.Errorf("optimistic count = %d, want 6", c.Count())
	}

	c.Confirm(true)
	if c.Count() != 6 || !c.Active() {
		t.Errorf("after agreeing confirm: count = %d active = %v, want 6 true", c.Count(), c.Active())
	}
	if c.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", c.Pending())
	}
}

func TestConfirmCorrectsDisagreement(t *testing.T) {
	// Another device toggled the like off between our refetch and our tap,
	// so the server reports false where we assumed true.
	c := NewCounter(3, false)
	c.Toggle() // assume active, count 4

	c.Confirm(false)
	if c.Count() != 3 {
		t.Errorf("count = %d, want 3 (server delta re-applied)", c.Count())
	}
	if c.Active() {
		t.Error("active = true, want false after authoritative correction")
	}
}

func TestRapidDoubleTap(t *testing.T) {
	c := NewCounter(10, false)

	c.Toggle() // on, 11
	c.Toggle() // off, 10
	if c.Count() != 10 || c.Active() {
		t.Fatalf("after double tap: count = %d active = %v", c.Count(), c.Active())
	}

	// Responses arrive in dispatch order.
	c.Confirm(true)  // first toggle confirmed, second still in flight: no-op
	c.Confirm(false) // final state agrees
	if c.Count() != 10 || c.Active() {
		t.Errorf("after in-order confirms: count = %d active = %v, want 10 false", c.Count(), c.Active())
	}
}

func TestOutOfOrderConfirmsConverge(t *testing.T) {
	c := NewCounter(10, false)
	c.Toggle()
	c.Toggle()

	// Responses swapped on the wire. The counter must end on whatever the
	// last confirmation reports, never on a value the server never held.
	c.Confirm(false)
	c.Confirm(true)
	if c.Active() != true {
		t.Error("active should follow the last confirmation")
	}
	if c.Count() != 11 {
		t.Errorf("count = %d, want 11 (10 corrected by the final server state)", c.Count())
	}

	// A refetch snaps everything back to server truth.
	c.Refresh(10, false)
	if c.Count() != 10 || c.Active() || c.Pending() != 0 {
		t.Errorf("after Refresh: count = %d active = %v pending = %d", c.Count(), c.Active(), c.Pending())
	}
}

func TestConfirmWhileStillInFlightIsDeferred(t *testing.T) {
	c := NewCounter(0, false)
	c.Toggle() // on, 1
	c.Toggle() // off, 0
	c.Toggle() // on, 1

	c.Confirm(true)
	c.Confirm(false)
	if c.Count() != 1 || !c.Active() {
		t.Errorf("mid-flight confirms must not touch state: count = %d active = %v", c.Count(), c.Active())
	}

	c.Confirm(true)
	if c.Count() != 1 || !c.Active() {
		t.Errorf("final confirm agrees: count = %d active = %v, want 1 true", c.Count(), c.Active())
	}
}
