package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"layeh.com/radius"
	"layeh.com/radius/rfc2865"

	"github.com/mohit83k/radiusd/internal/codec"
	"github.com/mohit83k/radiusd/internal/directory"
	"github.com/mohit83k/radiusd/internal/logger"
	"github.com/mohit83k/radiusd/internal/model"
	"github.com/mohit83k/radiusd/internal/pipeline"
	"github.com/mohit83k/radiusd/internal/stats"
	"github.com/mohit83k/radiusd/internal/throttle"
	"github.com/mohit83k/radiusd/internal/trace"
)

// AcceptMessage is the Reply-Message carried by every Access-Accept.
const AcceptMessage = "success!"

// Role selects which protocol a Server speaks.
type Role int

const (
	RoleAuth Role = iota
	RoleAcct
)

func (r Role) String() string {
	if r == RoleAcct {
		return "accounting"
	}
	return "authentication"
}

func (r Role) requestCode() radius.Code {
	if r == RoleAcct {
		return radius.CodeAccountingRequest
	}
	return radius.CodeAccessRequest
}

// Outcome is the terminal decision for one authentication request.
type Outcome int

const (
	OutcomeAccept Outcome = iota
	OutcomeReject
	OutcomeDelayed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeReject:
		return "reject"
	case OutcomeDelayed:
		return "delayed"
	default:
		return "accept"
	}
}

// Chains are the plugin chains a Server runs. Auth is used by RoleAuth,
// AcctBefore and AcctAfter by RoleAcct.
type Chains struct {
	Auth       pipeline.Chain
	AcctBefore pipeline.Chain
	AcctAfter  pipeline.Chain
}

// Server turns datagrams on one socket into at most one reply each.
// Datagrams are handled one at a time in arrival order.
type Server struct {
	Addr     string
	Role     Role
	Conn     net.PacketConn
	Clients  directory.Clients
	Users    directory.Users
	Codec    codec.Codec
	Chains   Chains
	Throttle *throttle.Throttle
	Stats    *stats.RunStat
	Trace    *trace.UserTrace
	Logger   logger.Logger
	Debug    bool
}

// Options carries the collaborators shared by both servers.
type Options struct {
	Clients  directory.Clients
	Users    directory.Users
	Codec    codec.Codec
	Chains   Chains
	Throttle *throttle.Throttle
	Stats    *stats.RunStat
	Trace    *trace.UserTrace
	Logger   logger.Logger
	Debug    bool
}

// NewServer returns a RADIUS server for role listening on addr.
func NewServer(role Role, addr string, opts Options) *Server {
	return &Server{
		Addr:     addr,
		Role:     role,
		Clients:  opts.Clients,
		Users:    opts.Users,
		Codec:    opts.Codec,
		Chains:   opts.Chains,
		Throttle: opts.Throttle,
		Stats:    opts.Stats,
		Trace:    opts.Trace,
		Logger:   opts.Logger,
		Debug:    opts.Debug,
	}
}

// Listen binds s.Addr and makes the socket the reply transport. Call it
// before anything else may send replies through s.
func (s *Server) Listen() (*net.UDPConn, error) {
	addr, err := net.ResolveUDPAddr("udp", s.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve UDP address: %w", err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on UDP: %w", err)
	}
	s.Conn = conn
	return conn, nil
}

// Serve reads datagrams from conn until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, conn *net.UDPConn) error {
	s.Logger.Info("RADIUS " + s.Role.String() + " server listening on " + conn.LocalAddr().String())
	go func() {
		<-ctx.Done()
		_ = conn.Close() // this will unblock ReadFromUDP
	}()

	buf := make([]byte, 4096)
	for {
		n, remoteAddr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				s.Logger.Info("Shutting down RADIUS " + s.Role.String() + " server")
				return nil // graceful exit after unblock
			}
			s.Logger.Error(fmt.Errorf("failed to read UDP: %w", err))
			continue
		}

		s.handlePacket(ctx, append([]byte(nil), buf[:n]...), remoteAddr)
	}
}

// handlePacket is the error boundary: whatever happens to the datagram is
// logged here and never propagates further.
func (s *Server) handlePacket(ctx context.Context, data []byte, remoteAddr *net.UDPAddr) {
	err := s.process(ctx, data, remoteAddr)
	if err == nil {
		return
	}

	log := s.Logger.WithFields(map[string]any{
		"role":  s.Role.String(),
		"from":  remoteAddr.String(),
		"bytes": len(data),
	})
	switch {
	case errors.Is(err, ErrUnknownClient):
		log.Debug("Dropping packet from unknown host " + remoteAddr.IP.String())
	case errors.Is(err, ErrDecode):
		log.Warn("Dropping invalid packet: " + err.Error())
	case errors.Is(err, ErrProtocolViolation):
		log.Info("Dropping packet: " + err.Error())
	default:
		log.Error(err)
	}
}

func (s *Server) process(ctx context.Context, data []byte, remoteAddr *net.UDPAddr) error {
	ip := remoteAddr.IP.String()
	client, err := s.Clients.LookupClient(ctx, ip)
	if err != nil {
		return fmt.Errorf("failed to look up client %s: %w", ip, err)
	}
	if client == nil {
		return ErrUnknownClient
	}

	req, err := s.Codec.Decode(data, []byte(client.Secret), client.VendorID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	req.Source = remoteAddr

	if s.Debug {
		s.Logger.WithFields(map[string]any{
			"code":     req.Code.String(),
			"id":       req.Identifier,
			"user":     req.UserName(),
			"hardware": req.HardwareAddr(),
			"from":     remoteAddr.String(),
		}).Debug("Received radius request")
	}

	all, drop := s.counters()
	all.Add(1)
	if req.Kind() != s.Role.requestCode() {
		drop.Add(1)
		return fmt.Errorf("%w: %s on %s socket", ErrProtocolViolation, req.Code, s.Role)
	}

	if s.Role == RoleAcct {
		return s.account(ctx, client, req)
	}
	return s.authenticate(ctx, client, req)
}

func (s *Server) counters() (all, drop *atomic.Uint64) {
	if s.Role == RoleAcct {
		return &s.Stats.AcctAll, &s.Stats.AcctDrop
	}
	return &s.Stats.AuthAll, &s.Stats.AuthDrop
}

func (s *Server) authenticate(ctx context.Context, client *model.Client, req *codec.Request) error {
	reply := req.CreateReply(radius.CodeAccessAccept)
	user, err := s.lookupUser(ctx, req)
	if err != nil {
		return err
	}
	s.push(user, trace.Inbound, req.Packet)

	pc := &pipeline.Context{Request: req, Reply: reply, User: user, Client: client}
	outcome, err := s.decide(ctx, pc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPlugin, err)
	}
	if outcome == OutcomeDelayed {
		s.Logger.WithFields(map[string]any{
			"user":     req.UserName(),
			"hardware": req.HardwareAddr(),
			"queued":   s.Throttle.QueueLen(),
		}).Info("Delaying reject for repeat offender")
		return nil
	}
	return s.deliver(reply)
}

// decide runs the auth chain and settles the request's single terminal
// outcome. The reply is queued for OutcomeDelayed and must be sent by the
// caller otherwise.
func (s *Server) decide(ctx context.Context, pc *pipeline.Context) (Outcome, error) {
	verdict, err := s.Chains.Auth.RunAuth(ctx, pc)
	if err != nil {
		return OutcomeReject, err
	}

	hw := pc.Request.HardwareAddr()
	if verdict == pipeline.VerdictReject {
		s.Throttle.AddRoster(hw)
		s.push(pc.User, trace.Outbound, pc.Reply.Packet)
		if s.Throttle.OverThreshold(hw) {
			s.Throttle.Enqueue(pc.Reply, hw)
			return OutcomeDelayed, nil
		}
		return OutcomeReject, nil
	}

	pc.Reply.Code = radius.CodeAccessAccept
	if err := rfc2865.ReplyMessage_SetString(pc.Reply.Packet, AcceptMessage); err != nil {
		return OutcomeReject, err
	}
	s.push(pc.User, trace.Outbound, pc.Reply.Packet)
	s.Throttle.DelRoster(hw)
	return OutcomeAccept, nil
}

// account acknowledges before the after-phase plugins run; their failure
// cannot take the reply back.
func (s *Server) account(ctx context.Context, client *model.Client, req *codec.Request) error {
	pc := &pipeline.Context{Request: req, Client: client}
	if err := s.Chains.AcctBefore.Run(ctx, pipeline.PhaseAcctBefore, pc); err != nil {
		return fmt.Errorf("%w: %w", ErrPlugin, err)
	}

	user, err := s.lookupUser(ctx, req)
	if err != nil {
		return err
	}
	s.push(user, trace.Inbound, req.Packet)

	reply := req.CreateReply(radius.CodeAccountingResponse)
	s.push(user, trace.Outbound, reply.Packet)
	if err := s.deliver(reply); err != nil {
		return err
	}

	pc.User = user
	pc.Stats = s.Stats
	if err := s.Chains.AcctAfter.Run(ctx, pipeline.PhaseAcctAfter, pc); err != nil {
		s.Stats.AcctAfterErr.Add(1)
		return fmt.Errorf("%w: %w", ErrPlugin, err)
	}
	return nil
}

func (s *Server) lookupUser(ctx context.Context, req *codec.Request) (*model.User, error) {
	name := req.UserName()
	if name == "" {
		return nil, nil
	}
	user, err := s.Users.LookupUser(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user %s: %w", name, err)
	}
	return user, nil
}

func (s *Server) push(user *model.User, dir trace.Direction, pkt *radius.Packet) {
	if user == nil || s.Trace == nil {
		return
	}
	s.Trace.Push(user.AccountNumber, dir, pkt)
}

// deliver sends reply to its source and counts it. A reply is delivered at
// most once.
func (s *Server) deliver(reply *codec.Reply) error {
	if !reply.Claim() {
		return ErrAlreadyReplied
	}

	encoded, err := s.Codec.Encode(reply)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	if s.Conn != nil {
		if _, err := s.Conn.WriteTo(encoded, reply.Source); err != nil {
			return fmt.Errorf("failed to send response: %w", err)
		}
	}

	switch reply.Code {
	case radius.CodeAccessAccept:
		s.Stats.AuthAccept.Add(1)
	case radius.CodeAccessReject:
		s.Stats.AuthReject.Add(1)
	}

	s.Logger.WithFields(map[string]any{
		"code":    reply.Code.String(),
		"id":      reply.Identifier,
		"to":      reply.Source.String(),
		"message": rfc2865.ReplyMessage_GetString(reply.Packet),
	}).Info("Sent radius response")
	return nil
}

// ProcessDelay sends every queued reject that is due at now, oldest first.
// A failing reply is logged and skipped.
func (s *Server) ProcessDelay(now time.Time) int {
	if s.Throttle == nil {
		return 0
	}
	sent := 0
	for _, d := range s.Throttle.DrainDue(now) {
		if err := s.deliver(d.Reply); err != nil {
			s.Logger.WithFields(map[string]any{"hardware": d.HardwareAddr}).Error(fmt.Errorf("process delay: %w", err))
			continue
		}
		sent++
	}
	return sent
}
