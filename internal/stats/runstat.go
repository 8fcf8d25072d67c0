// Package stats keeps the process-wide protocol counters.
package stats

import "sync/atomic"

// RunStat counters only ever grow; Reset is reserved for the admin channel.
type RunStat struct {
	AuthAll    atomic.Uint64
	AuthDrop   atomic.Uint64
	AuthAccept atomic.Uint64
	AuthReject atomic.Uint64

	AcctAll    atomic.Uint64
	AcctDrop   atomic.Uint64
	AcctStart  atomic.Uint64
	AcctStop   atomic.Uint64
	AcctUpdate atomic.Uint64
	AcctOn     atomic.Uint64
	AcctOff    atomic.Uint64

	// AcctAfterErr counts accounting requests whose reply went out but whose
	// after-phase plugins failed.
	AcctAfterErr atomic.Uint64
}

// Snapshot is a point-in-time copy of RunStat.
type Snapshot struct {
	AuthAll      uint64 `json:"auth_all"`
	AuthDrop     uint64 `json:"auth_drop"`
	AuthAccept   uint64 `json:"auth_accept"`
	AuthReject   uint64 `json:"auth_reject"`
	AcctAll      uint64 `json:"acct_all"`
	AcctDrop     uint64 `json:"acct_drop"`
	AcctStart    uint64 `json:"acct_start"`
	AcctStop     uint64 `json:"acct_stop"`
	AcctUpdate   uint64 `json:"acct_update"`
	AcctOn       uint64 `json:"acct_on"`
	AcctOff      uint64 `json:"acct_off"`
	AcctAfterErr uint64 `json:"acct_after_error"`
}

// New returns zeroed counters.
func New() *RunStat {
	return &RunStat{}
}

// Snapshot reads every counter.
func (r *RunStat) Snapshot() Snapshot {
	return Snapshot{
		AuthAll:      r.AuthAll.Load(),
		AuthDrop:     r.AuthDrop.Load(),
		AuthAccept:   r.AuthAccept.Load(),
		AuthReject:   r.AuthReject.Load(),
		AcctAll:      r.AcctAll.Load(),
		AcctDrop:     r.AcctDrop.Load(),
		AcctStart:    r.AcctStart.Load(),
		AcctStop:     r.AcctStop.Load(),
		AcctUpdate:   r.AcctUpdate.Load(),
		AcctOn:       r.AcctOn.Load(),
		AcctOff:      r.AcctOff.Load(),
		AcctAfterErr: r.AcctAfterErr.Load(),
	}
}

// Reset zeroes every counter.
func (r *RunStat) Reset() {
	for _, c := range r.counters() {
		c.counter.Store(0)
	}
}

type namedCounter struct {
	name    string
	help    string
	counter *atomic.Uint64
}

func (r *RunStat) counters() []namedCounter {
	return []namedCounter{
		{"auth_all", "Access-Request packets received from known clients", &r.AuthAll},
		{"auth_drop", "Packets dropped on the authentication socket", &r.AuthDrop},
		{"auth_accept", "Access-Accept replies sent", &r.AuthAccept},
		{"auth_reject", "Access-Reject replies sent", &r.AuthReject},
		{"acct_all", "Accounting-Request packets received from known clients", &r.AcctAll},
		{"acct_drop", "Packets dropped on the accounting socket", &r.AcctDrop},
		{"acct_start", "Accounting Start records", &r.AcctStart},
		{"acct_stop", "Accounting Stop records", &r.AcctStop},
		{"acct_update", "Accounting Interim-Update records", &r.AcctUpdate},
		{"acct_on", "Accounting-On records", &r.AcctOn},
		{"acct_off", "Accounting-Off records", &r.AcctOff},
		{"acct_after_error", "Acknowledged accounting requests whose after plugins failed", &r.AcctAfterErr},
	}
}
