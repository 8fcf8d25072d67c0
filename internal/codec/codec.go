// Package codec adapts layeh.com/radius to the request/reply types the
// dispatchers work with.
package codec

import (
	"crypto/hmac"
	"crypto/md5"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"layeh.com/radius"
	"layeh.com/radius/rfc2865"
	"layeh.com/radius/rfc2869"
)

// ErrNotAuthentic is returned when the request authenticator does not match
// the client's shared secret.
var ErrNotAuthentic = errors.New("request authenticator mismatch")

// Codec turns datagrams into requests and replies into datagrams.
type Codec interface {
	Decode(data []byte, secret []byte, vendorID int) (*Request, error)
	Encode(reply *Reply) ([]byte, error)
}

// Request is a decoded inbound packet.
type Request struct {
	*radius.Packet
	Source   *net.UDPAddr
	VendorID int
	Created  time.Time
}

// Reply is the single response built for a Request.
type Reply struct {
	*radius.Packet
	Source  *net.UDPAddr
	Created time.Time

	claimed atomic.Bool
}

// Claim marks the reply as handed to the transport. Only the first call
// returns true.
func (r *Reply) Claim() bool {
	return r.claimed.CompareAndSwap(false, true)
}

// RadiusCodec is the layeh.com/radius backed Codec.
type RadiusCodec struct {
	now func() time.Time
}

// NewRadiusCodec returns a codec stamping packets with the wall clock.
func NewRadiusCodec() *RadiusCodec {
	return &RadiusCodec{now: time.Now}
}

// Decode parses data with secret. Accounting requests carry a computed
// authenticator and are verified. Access-Request authenticators are random,
// so those are verified through Message-Authenticator when one is present.
func (c *RadiusCodec) Decode(data []byte, secret []byte, vendorID int) (*Request, error) {
	pkt, err := radius.Parse(data, secret)
	if err != nil {
		return nil, fmt.Errorf("parse packet: %w", err)
	}
	if pkt.Code == radius.CodeAccountingRequest && !radius.IsAuthenticRequest(data, secret) {
		return nil, ErrNotAuthentic
	}
	if pkt.Code == radius.CodeAccessRequest && !validMessageAuthenticator(data, secret) {
		return nil, ErrNotAuthentic
	}
	return &Request{
		Packet:   pkt,
		VendorID: vendorID,
		Created:  c.clock(),
	}, nil
}

// messageAuthenticatorOffset returns where the Message-Authenticator value
// starts in data, or -1 when the packet has none.
func messageAuthenticatorOffset(data []byte) int {
	if len(data) < 20 {
		return -1
	}
	end := int(binary.BigEndian.Uint16(data[2:4]))
	if end > len(data) {
		end = len(data)
	}
	for i := 20; i+2 <= end; {
		typ, length := radius.Type(data[i]), int(data[i+1])
		if length < 2 || i+length > end {
			return -1
		}
		if typ == rfc2869.MessageAuthenticator_Type && length == 2+md5.Size {
			return i + 2
		}
		i += length
	}
	return -1
}

// validMessageAuthenticator checks the HMAC-MD5 over the packet with the
// attribute value zeroed. Packets without the attribute pass.
func validMessageAuthenticator(data, secret []byte) bool {
	off := messageAuthenticatorOffset(data)
	if off < 0 {
		return true
	}
	if n := int(binary.BigEndian.Uint16(data[2:4])); n < len(data) {
		data = data[:n]
	}
	return hmac.Equal(data[off:off+md5.Size], signMessage(data, off, secret))
}

func signMessage(data []byte, off int, secret []byte) []byte {
	buf := make([]byte, len(data))
	copy(buf, data)
	clear(buf[off : off+md5.Size])
	mac := hmac.New(md5.New, secret)
	mac.Write(buf)
	return mac.Sum(nil)
}

// Encode serialises the reply, computing its response authenticator.
func (c *RadiusCodec) Encode(reply *Reply) ([]byte, error) {
	b, err := reply.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", reply.Code, err)
	}
	return b, nil
}

func (c *RadiusCodec) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

// Kind is the request code.
func (r *Request) Kind() radius.Code {
	return r.Code
}

// UserName returns the User-Name attribute.
func (r *Request) UserName() string {
	return rfc2865.UserName_GetString(r.Packet)
}

// HardwareAddr returns the subscriber device MAC taken from
// Calling-Station-Id, normalised to lower-case colon form. Values that are
// not MAC addresses are returned trimmed and lower-cased.
func (r *Request) HardwareAddr() string {
	return NormalizeMAC(rfc2865.CallingStationID_GetString(r.Packet))
}

// CreateReply builds the reply shell with the given code. The reply shares
// identifier, authenticator and secret with the request.
func (r *Request) CreateReply(code radius.Code) *Reply {
	return &Reply{
		Packet:  r.Response(code),
		Source:  r.Source,
		Created: time.Now(),
	}
}

// NormalizeMAC accepts the usual MAC spellings, including bare 12-digit hex.
func NormalizeMAC(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	if len(s) == 12 && !strings.ContainsAny(s, ":-.") {
		s = s[0:2] + ":" + s[2:4] + ":" + s[4:6] + ":" + s[6:8] + ":" + s[8:10] + ":" + s[10:12]
	}
	if hw, err := net.ParseMAC(s); err == nil {
		return hw.String()
	}
	return s
}
