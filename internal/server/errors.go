package server

import "errors"

// Reasons a datagram ends without a reply. All of them stop at the
// dispatcher; none is ever reflected on the wire.
var (
	// ErrUnknownClient indicates the source address is not a known BAS.
	ErrUnknownClient = errors.New("unknown client")

	// ErrDecode indicates a malformed or unauthenticated packet.
	ErrDecode = errors.New("invalid packet")

	// ErrProtocolViolation indicates a packet kind the socket does not serve.
	ErrProtocolViolation = errors.New("protocol violation")

	// ErrPlugin indicates a plugin failed while processing the request.
	ErrPlugin = errors.New("plugin failed")

	// ErrAlreadyReplied indicates a second delivery attempt for one reply.
	ErrAlreadyReplied = errors.New("reply already delivered")
)
