// Package plugins holds the built-in decision plugins. Chains pick them by
// name from configuration.
package plugins

import (
	"context"
	"crypto/md5"
	"crypto/subtle"
	"time"

	"layeh.com/radius/rfc2865"

	"github.com/mohit83k/radiusd/internal/model"
	"github.com/mohit83k/radiusd/internal/pipeline"
)

// Reply-Message texts sent on reject.
const (
	MsgUserNotExists   = "user not exists"
	MsgPasswordInvalid = "password not match"
	MsgUserDisabled    = "user status not active"
	MsgUserExpired     = "user expired"
	MsgBindBASMismatch = "user bind bas not match"
)

// UserExists rejects requests whose User-Name is not in the directory.
func UserExists() pipeline.Plugin {
	return pipeline.Func("user_exists", func(_ context.Context, pc *pipeline.Context) error {
		if pc.User == nil {
			pc.Reject(MsgUserNotExists)
		}
		return nil
	})
}

// UserStatus rejects disabled and expired accounts.
func UserStatus(now func() time.Time) pipeline.Plugin {
	return pipeline.Func("user_status", func(_ context.Context, pc *pipeline.Context) error {
		if pc.User == nil {
			return nil
		}
		switch {
		case pc.User.Status != "" && pc.User.Status != model.UserStatusActive:
			pc.Reject(MsgUserDisabled)
		case pc.User.Expired(now()):
			pc.Reject(MsgUserExpired)
		}
		return nil
	})
}

// UserPassword checks PAP or CHAP credentials against the stored password.
func UserPassword() pipeline.Plugin {
	return pipeline.Func("user_password", func(_ context.Context, pc *pipeline.Context) error {
		if pc.User == nil {
			return nil
		}
		if !passwordMatches(pc, pc.User.Password) {
			pc.Reject(MsgPasswordInvalid)
		}
		return nil
	})
}

// BASFilter rejects users bound to a different BAS than the sender.
func BASFilter() pipeline.Plugin {
	return pipeline.Func("bas_filter", func(_ context.Context, pc *pipeline.Context) error {
		if pc.User == nil || pc.User.BindBAS == "" || pc.Request.Source == nil {
			return nil
		}
		if pc.User.BindBAS != pc.Request.Source.IP.String() {
			pc.Reject(MsgBindBASMismatch)
		}
		return nil
	})
}

func passwordMatches(pc *pipeline.Context, password string) bool {
	pkt := pc.Request.Packet
	if chap := rfc2865.CHAPPassword_Get(pkt); len(chap) == 17 {
		challenge := rfc2865.CHAPChallenge_Get(pkt)
		if len(challenge) == 0 {
			challenge = pkt.Authenticator[:]
		}
		h := md5.New()
		h.Write(chap[:1])
		h.Write([]byte(password))
		h.Write(challenge)
		return subtle.ConstantTimeCompare(h.Sum(nil), chap[1:]) == 1
	}

	given := rfc2865.UserPassword_GetString(pkt)
	return subtle.ConstantTimeCompare([]byte(given), []byte(password)) == 1
}
