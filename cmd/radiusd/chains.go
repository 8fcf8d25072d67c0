package main

import (
	"fmt"

	"github.com/mohit83k/radiusd/internal/config"
	"github.com/mohit83k/radiusd/internal/pipeline"
	"github.com/mohit83k/radiusd/internal/server"
)

func buildChains(reg *pipeline.Registry, cfg config.Config) (server.Chains, error) {
	auth, err := reg.Chain(cfg.AuthPlugins)
	if err != nil {
		return server.Chains{}, fmt.Errorf("auth plugins: %w", err)
	}
	before, err := reg.Chain(cfg.AcctBeforePlugins)
	if err != nil {
		return server.Chains{}, fmt.Errorf("acct before plugins: %w", err)
	}
	after, err := reg.Chain(cfg.AcctPlugins)
	if err != nil {
		return server.Chains{}, fmt.Errorf("acct plugins: %w", err)
	}
	return server.Chains{Auth: auth, AcctBefore: before, AcctAfter: after}, nil
}
