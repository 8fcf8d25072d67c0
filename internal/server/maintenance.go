package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mohit83k/radiusd/internal/logger"
	"github.com/mohit83k/radiusd/internal/throttle"
)

// Clearer is a cache that can be emptied.
type Clearer interface {
	Clear()
}

// Maintenance runs the recurring background jobs: releasing due delayed
// rejects and evicting caches. The two timers are independent.
type Maintenance struct {
	Auth          *Server
	Cache         Clearer
	Throttle      *throttle.Throttle
	RosterTTL     time.Duration
	DrainInterval time.Duration
	EvictInterval time.Duration
	Logger        logger.Logger
}

// Run blocks until ctx is cancelled.
func (m *Maintenance) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		m.every(ctx, m.DrainInterval, "delay drain", m.drain)
	}()
	go func() {
		defer wg.Done()
		m.every(ctx, m.EvictInterval, "cache evict", m.evict)
	}()
	wg.Wait()
}

func (m *Maintenance) every(ctx context.Context, interval time.Duration, name string, job func(now time.Time)) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.safely(name, func() { job(now) })
		}
	}
}

// safely keeps one bad cycle from stopping the timer.
func (m *Maintenance) safely(name string, job func()) {
	defer func() {
		if r := recover(); r != nil {
			m.Logger.WithFields(map[string]any{"job": name}).Error(fmt.Errorf("maintenance panic: %v", r))
		}
	}()
	job()
}

func (m *Maintenance) drain(now time.Time) {
	if m.Auth == nil {
		return
	}
	if n := m.Auth.ProcessDelay(now); n > 0 {
		m.Logger.WithFields(map[string]any{"sent": n}).Debug("Released delayed rejects")
	}
}

func (m *Maintenance) evict(now time.Time) {
	if m.Cache != nil {
		m.Cache.Clear()
	}
	swept := 0
	if m.Throttle != nil {
		swept = m.Throttle.Sweep(now, m.RosterTTL)
	}
	m.Logger.WithFields(map[string]any{"roster_swept": swept}).Info("Cleared lookup cache")
}
