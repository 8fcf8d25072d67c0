package model

import "time"

// User statuses.
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// User is a subscriber account looked up by User-Name.
// Redis key: radius:user:{name}
type User struct {
	AccountNumber string    `json:"account_number"`
	Name          string    `json:"name"`
	Password      string    `json:"password"`
	Status        string    `json:"status"`
	ExpireAt      time.Time `json:"expire_at,omitempty"`
	// BindBAS, when set, restricts the account to a single BAS address.
	BindBAS string `json:"bind_bas,omitempty"`
}

// Expired reports whether the account has a non-zero expiry before now.
func (u *User) Expired(now time.Time) bool {
	return !u.ExpireAt.IsZero() && now.After(u.ExpireAt)
}
