// Package pipeline runs ordered chains of named decision plugins over an
// in-flight request.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"layeh.com/radius"
	"layeh.com/radius/rfc2865"

	"github.com/mohit83k/radiusd/internal/codec"
	"github.com/mohit83k/radiusd/internal/model"
	"github.com/mohit83k/radiusd/internal/stats"
)

// Phase names the chain a plugin runs in.
type Phase string

const (
	PhaseAuth       Phase = "auth"
	PhaseAcctBefore Phase = "acct_before"
	PhaseAcctAfter  Phase = "acct_after"
)

// Context is what a plugin sees. Reply is nil in the accounting before
// phase; User is nil when the user name is unknown; Stats is only set in the
// accounting after phase.
type Context struct {
	Request *codec.Request
	Reply   *codec.Reply
	User    *model.User
	Client  *model.Client
	Stats   *stats.RunStat
}

// maxReplyMessage is the largest value a single attribute can carry.
const maxReplyMessage = 253

// Reject turns the reply into an Access-Reject carrying msg. Messages longer
// than one attribute are cut at the limit.
func (c *Context) Reject(msg string) {
	if c.Reply == nil {
		return
	}
	c.Reply.Code = radius.CodeAccessReject
	if len(msg) > maxReplyMessage {
		msg = strings.ToValidUTF8(msg[:maxReplyMessage], "")
	}
	if msg != "" {
		_ = rfc2865.ReplyMessage_SetString(c.Reply.Packet, msg)
	}
}

// Rejected reports whether a plugin has rejected the request.
func (c *Context) Rejected() bool {
	return c.Reply != nil && c.Reply.Code == radius.CodeAccessReject
}

// Plugin is one decision unit.
type Plugin interface {
	Name() string
	Process(ctx context.Context, pc *Context) error
}

type funcPlugin struct {
	name string
	fn   func(ctx context.Context, pc *Context) error
}

func (f funcPlugin) Name() string { return f.name }

func (f funcPlugin) Process(ctx context.Context, pc *Context) error { return f.fn(ctx, pc) }

// Func adapts fn into a Plugin called name.
func Func(name string, fn func(ctx context.Context, pc *Context) error) Plugin {
	return funcPlugin{name: name, fn: fn}
}

// PluginError wraps a failure raised inside a plugin.
type PluginError struct {
	Plugin string
	Phase  Phase
	Err    error
}

func (e *PluginError) Error() string {
	return fmt.Sprintf("plugin %s (%s): %v", e.Plugin, e.Phase, e.Err)
}

func (e *PluginError) Unwrap() error {
	return e.Err
}

// Verdict is the outcome of an authentication chain.
type Verdict int

const (
	VerdictAccept Verdict = iota
	VerdictReject
)

func (v Verdict) String() string {
	if v == VerdictReject {
		return "reject"
	}
	return "accept"
}

// Chain is an ordered, immutable list of plugins.
type Chain []Plugin

// Names lists the plugins in order.
func (c Chain) Names() []string {
	names := make([]string, len(c))
	for i, p := range c {
		names[i] = p.Name()
	}
	return names
}

// RunAuth runs plugins in order and stops at the first one that rejects.
// On a plugin error the remaining plugins are skipped and the error is
// returned with no verdict.
func (c Chain) RunAuth(ctx context.Context, pc *Context) (Verdict, error) {
	for _, p := range c {
		if err := invoke(ctx, p, PhaseAuth, pc); err != nil {
			return VerdictReject, err
		}
		if pc.Rejected() {
			return VerdictReject, nil
		}
	}
	return VerdictAccept, nil
}

// Run executes every plugin for phase, stopping at the first error.
func (c Chain) Run(ctx context.Context, phase Phase, pc *Context) error {
	for _, p := range c {
		if err := invoke(ctx, p, phase, pc); err != nil {
			return err
		}
	}
	return nil
}

func invoke(ctx context.Context, p Plugin, phase Phase, pc *Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PluginError{Plugin: p.Name(), Phase: phase, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if err := p.Process(ctx, pc); err != nil {
		var pe *PluginError
		if errors.As(err, &pe) {
			return err
		}
		return &PluginError{Plugin: p.Name(), Phase: phase, Err: err}
	}
	return nil
}
