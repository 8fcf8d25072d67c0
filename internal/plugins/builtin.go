package plugins

import (
	"time"

	"github.com/mohit83k/radiusd/internal/pipeline"
	"github.com/mohit83k/radiusd/internal/redisclient"
)

// Builtin returns a registry with every built-in plugin.
func Builtin(store redisclient.Store) (*pipeline.Registry, error) {
	return pipeline.NewRegistry(
		UserExists(),
		UserStatus(time.Now),
		UserPassword(),
		BASFilter(),
		AcctSession(),
		AcctStat(),
		AcctStore(store, time.Now),
	)
}
