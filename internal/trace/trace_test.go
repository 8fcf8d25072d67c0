package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"layeh.com/radius"
	"layeh.com/radius/rfc2865"
	"layeh.com/radius/rfc2866"
)

func TestUserTrace_PushAndGet(t *testing.T) {
	tr := NewUserTrace(4)
	secret := []byte("testing123")

	req := radius.New(radius.CodeAccessRequest, secret)
	rfc2865.UserName_AddString(req, "alice")
	rfc2865.CallingStationID_AddString(req, "aa:bb:cc:dd:ee:ff")
	tr.Push("A100", Inbound, req)

	reply := req.Response(radius.CodeAccessAccept)
	rfc2865.ReplyMessage_SetString(reply, "success!")
	tr.Push("A100", Outbound, reply)

	got := tr.Get("A100")
	require.Len(t, got, 2)
	assert.Equal(t, "Access-Request", got[0].Code)
	assert.Equal(t, Inbound, got[0].Direction)
	assert.Equal(t, "alice", got[0].UserName)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", got[0].HardwareAddr)
	assert.Equal(t, "Access-Accept", got[1].Code)
	assert.Equal(t, "success!", got[1].Message)
	assert.NotEqual(t, got[0].ID, got[1].ID)
	assert.Empty(t, tr.Get("nobody"))
}

func TestUserTrace_AccountingFields(t *testing.T) {
	tr := NewUserTrace(2)
	pkt := radius.New(radius.CodeAccountingRequest, []byte("s"))
	rfc2866.AcctStatusType_Add(pkt, rfc2866.AcctStatusType_Value_Stop)
	rfc2866.AcctSessionID_AddString(pkt, "sess-1")

	tr.Push("A1", Inbound, pkt)

	got := tr.Get("A1")
	require.Len(t, got, 1)
	assert.Equal(t, "Stop", got[0].Status)
	assert.Equal(t, "sess-1", got[0].Session)
}

func TestUserTrace_Bounded(t *testing.T) {
	tr := NewUserTrace(3)
	for i := 0; i < 5; i++ {
		pkt := radius.New(radius.CodeAccessRequest, []byte("s"))
		pkt.Identifier = byte(i)
		tr.Push("A1", Inbound, pkt)
	}

	got := tr.Get("A1")
	require.Len(t, got, 3)
	assert.Equal(t, byte(2), got[0].Identifier)
	assert.Equal(t, byte(4), got[2].Identifier)
	assert.Equal(t, 1, tr.Accounts())
}
