package server

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/mohit83k/radiusd/internal/logger"
	"github.com/mohit83k/radiusd/internal/model"
)

// --- Mocks ---

type logLine struct {
	level  string
	msg    string
	fields map[string]any
}

type mockLogger struct {
	mu       sync.Mutex
	lines    []logLine
	lastData map[string]any
}

func (l *mockLogger) record(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, logLine{level: level, msg: msg, fields: l.lastData})
	l.lastData = nil
}

func (l *mockLogger) Debug(msg string) { l.record("debug", msg) }
func (l *mockLogger) Info(msg string)  { l.record("info", msg) }
func (l *mockLogger) Warn(msg string)  { l.record("warn", msg) }
func (l *mockLogger) Error(err error)  { l.record("error", err.Error()) }
func (l *mockLogger) WithFields(fields map[string]any) logger.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastData = fields
	return l
}

func (l *mockLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, line := range l.lines {
		if line.level == level {
			n++
		}
	}
	return n
}

type mockUDPConn struct {
	mu       sync.Mutex
	payloads [][]byte
	addrs    []net.Addr
	err      error
}

func (m *mockUDPConn) WriteTo(b []byte, addr net.Addr) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.payloads = append(m.payloads, append([]byte(nil), b...))
	m.addrs = append(m.addrs, addr)
	return len(b), nil
}

func (m *mockUDPConn) sent() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.payloads...)
}

// Dummy methods to satisfy interface, though unused
func (m *mockUDPConn) ReadFrom([]byte) (int, net.Addr, error) { return 0, nil, nil }
func (m *mockUDPConn) Close() error                           { return nil }
func (m *mockUDPConn) LocalAddr() net.Addr                    { return nil }
func (m *mockUDPConn) SetDeadline(time.Time) error            { return nil }
func (m *mockUDPConn) SetReadDeadline(time.Time) error        { return nil }
func (m *mockUDPConn) SetWriteDeadline(time.Time) error       { return nil }

type mockDirectory struct {
	clients map[string]*model.Client
	users   map[string]*model.User
	err     error
}

func (d *mockDirectory) LookupClient(_ context.Context, ip string) (*model.Client, error) {
	return d.clients[ip], d.err
}

func (d *mockDirectory) LookupUser(_ context.Context, name string) (*model.User, error) {
	return d.users[name], d.err
}

type clearCounter struct {
	mu    sync.Mutex
	calls int
}

func (c *clearCounter) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
}

func (c *clearCounter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}
