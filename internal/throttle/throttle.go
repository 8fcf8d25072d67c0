// Package throttle slows down devices that keep failing authentication.
//
// Each reject registers the device's hardware address in a roster. Once a
// device has been rejected more than the threshold, further rejects are not
// sent right away but parked in a FIFO queue and released once they are at
// least the configured delay old. An accept clears the device's roster entry.
package throttle

import (
	"sync"
	"time"

	"github.com/mohit83k/radiusd/internal/codec"
)

// RosterEntry counts consecutive rejects for one hardware address.
type RosterEntry struct {
	Count   int
	Updated time.Time
}

// Delayed is a reject reply held back from the transport.
type Delayed struct {
	Reply        *codec.Reply
	Created      time.Time
	HardwareAddr string
}

// Throttle owns the roster and the delay queue. It is safe for concurrent
// use by the authentication loop and the maintenance timers.
type Throttle struct {
	delay     time.Duration
	threshold int
	now       func() time.Time

	mu     sync.Mutex
	roster map[string]*RosterEntry
	queue  []Delayed
}

// New returns a Throttle. A delay of zero disables queueing entirely.
func New(delay time.Duration, threshold int) *Throttle {
	return &Throttle{
		delay:     delay,
		threshold: threshold,
		now:       time.Now,
		roster:    make(map[string]*RosterEntry),
	}
}

// AddRoster records one more reject for hw.
func (t *Throttle) AddRoster(hw string) {
	if hw == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.roster[hw]
	if !ok {
		e = &RosterEntry{}
		t.roster[hw] = e
	}
	e.Count++
	e.Updated = t.now()
}

// DelRoster forgets hw.
func (t *Throttle) DelRoster(hw string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.roster, hw)
}

// Roster returns a copy of the entry for hw.
func (t *Throttle) Roster(hw string) (RosterEntry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.roster[hw]
	if !ok {
		return RosterEntry{}, false
	}
	return *e, true
}

// OverThreshold reports whether hw has been rejected more than threshold
// times without an accept in between.
func (t *Throttle) OverThreshold(hw string) bool {
	if t.delay <= 0 || hw == "" {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.roster[hw]
	return ok && e.Count > t.threshold
}

// Enqueue parks reply at the tail of the delay queue. The caller must not
// send it.
func (t *Throttle) Enqueue(reply *codec.Reply, hw string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.queue = append(t.queue, Delayed{Reply: reply, Created: reply.Created, HardwareAddr: hw})
}

// DrainDue pops, in order, every queued reply at least Delay old at now.
// It stops at the first reply that is not yet due.
func (t *Throttle) DrainDue(now time.Time) []Delayed {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for n < len(t.queue) && now.Sub(t.queue[n].Created) >= t.delay {
		n++
	}
	if n == 0 {
		return nil
	}
	due := append([]Delayed(nil), t.queue[:n]...)
	clear(t.queue[:n])
	t.queue = t.queue[n:]
	return due
}

// QueueLen is the number of replies waiting.
func (t *Throttle) QueueLen() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.queue)
}

// Sweep drops roster entries not updated within ttl of now and returns how
// many were removed.
func (t *Throttle) Sweep(now time.Time, ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for hw, e := range t.roster {
		if now.Sub(e.Updated) > ttl {
			delete(t.roster, hw)
			removed++
		}
	}
	return removed
}
