package watch

import "time"

// Debouncer admits at most one trigger per cooldown window. Triggers inside
// the window are dropped, not deferred.
type Debouncer struct {
	cooldown time.Duration
	last     time.Time
	now      func() time.Time
}

// NewDebouncer returns a Debouncer. A nil now uses time.Now.
func NewDebouncer(cooldown time.Duration, now func() time.Time) *Debouncer {
	if now == nil {
		now = time.Now
	}
	return &Debouncer{cooldown: cooldown, now: now}
}

// Allow reports whether a run may start now and, if so, records the time.
func (d *Debouncer) Allow() bool {
	t := d.now()
	if !d.last.IsZero() && t.Sub(d.last) <= d.cooldown {
		return false
	}
	d.last = t
	return true
}

// Reset forgets the last trigger.
func (d *Debouncer) Reset() {
	d.last = time.Time{}
}
