package model

import (
	"testing"
	"time"
)

func TestUser_Expired(t *testing.T) {
	now := time.Date(2025, 6, 21, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		expire time.Time
		want   bool
	}{
		{"no expiry", time.Time{}, false},
		{"future", now.Add(time.Hour), false},
		{"past", now.Add(-time.Hour), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := &User{ExpireAt: tc.expire}
			if got := u.Expired(now); got != tc.want {
				t.Errorf("Expired() = %v, want %v", got, tc.want)
			}
		})
	}
}
