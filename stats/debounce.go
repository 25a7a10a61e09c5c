package stats

import (
	"sync"
	"time"
)

// Debounce lets an action through at most once per cooldown.
type Debounce struct {
	mu       sync.Mutex
	cooldown time.Duration
	last     time.Time
	now      func() time.Time
}

// NewDebounce creates a Debounce with the given cooldown.
// A zero cooldown lets every call through.
func NewDebounce(cooldown time.Duration) *Debounce {
	return &Debounce{
		cooldown: cooldown,
		now:      time.Now,
	}
}

// Allow reports whether the cooldown since the last allowed call has elapsed.
// When it has, the current time is recorded as the last allowed call.
func (d *Debounce) Allow() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if !d.last.IsZero() && now.Sub(d.last) < d.cooldown {
		return false
	}

	d.last = now
	return true
}

// Last returns when Allow last returned true. The zero time is returned if it never did.
func (d *Debounce) Last() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.last
}
