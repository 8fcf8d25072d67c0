// Package trace keeps a short per-account history of packets for the
// admin channel.
package trace

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"layeh.com/radius"
	"layeh.com/radius/rfc2865"
	"layeh.com/radius/rfc2866"
)

// Direction of a traced packet.
type Direction string

const (
	Inbound  Direction = "request"
	Outbound Direction = "reply"
)

// Entry is one traced packet.
type Entry struct {
	ID           string    `json:"id"`
	Account      string    `json:"account_number"`
	Time         time.Time `json:"time"`
	Direction    Direction `json:"direction"`
	Code         string    `json:"code"`
	Identifier   byte      `json:"identifier"`
	UserName     string    `json:"user_name,omitempty"`
	HardwareAddr string    `json:"hardware_addr,omitempty"`
	Message      string    `json:"message,omitempty"`
	Status       string    `json:"acct_status_type,omitempty"`
	Session      string    `json:"acct_session_id,omitempty"`
}

// UserTrace is an append-only history bounded to size entries per account.
type UserTrace struct {
	size int
	now  func() time.Time

	mu      sync.RWMutex
	entries map[string][]Entry
}

// NewUserTrace keeps the last size entries per account. size < 1 means 1.
func NewUserTrace(size int) *UserTrace {
	if size < 1 {
		size = 1
	}
	return &UserTrace{
		size:    size,
		now:     time.Now,
		entries: make(map[string][]Entry),
	}
}

// Push records pkt for account.
func (t *UserTrace) Push(account string, dir Direction, pkt *radius.Packet) {
	e := Entry{
		ID:           uuid.NewString(),
		Account:      account,
		Time:         t.now(),
		Direction:    dir,
		Code:         pkt.Code.String(),
		Identifier:   pkt.Identifier,
		UserName:     rfc2865.UserName_GetString(pkt),
		HardwareAddr: rfc2865.CallingStationID_GetString(pkt),
		Message:      rfc2865.ReplyMessage_GetString(pkt),
		Session:      rfc2866.AcctSessionID_GetString(pkt),
	}
	if pkt.Code == radius.CodeAccountingRequest {
		e.Status = rfc2866.AcctStatusType_Get(pkt).String()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	list := append(t.entries[account], e)
	if len(list) > t.size {
		list = append([]Entry(nil), list[len(list)-t.size:]...)
	}
	t.entries[account] = list
}

// Get returns a copy of the history for account, oldest first.
func (t *UserTrace) Get(account string) []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Entry(nil), t.entries[account]...)
}

// Accounts returns the number of traced accounts.
func (t *UserTrace) Accounts() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
