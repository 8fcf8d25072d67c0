package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mohit83k/radiusd/internal/admin"
	"github.com/mohit83k/radiusd/internal/codec"
	"github.com/mohit83k/radiusd/internal/config"
	"github.com/mohit83k/radiusd/internal/directory"
	"github.com/mohit83k/radiusd/internal/logger"
	"github.com/mohit83k/radiusd/internal/plugins"
	"github.com/mohit83k/radiusd/internal/redisclient"
	"github.com/mohit83k/radiusd/internal/server"
	"github.com/mohit83k/radiusd/internal/stats"
	"github.com/mohit83k/radiusd/internal/throttle"
	"github.com/mohit83k/radiusd/internal/trace"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()
	}()

	cfg := config.Load()

	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}
	log, err := logger.NewLogrusLogger(cfg.LogFilePath, level)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	rdb := redisclient.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer rdb.Close()
	store := redisclient.NewRedisStore(rdb)

	var clients directory.Clients = store
	if cfg.ClientsFile != "" {
		fileClients, err := directory.LoadFileClients(cfg.ClientsFile)
		if err != nil {
			log.Error(err)
			os.Exit(1)
		}
		clients = directory.ClientChain{fileClients, store}
	}
	cache := directory.NewCache(clients, store, cfg.CacheTTL)

	registry, err := plugins.Builtin(store)
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
	chains, err := buildChains(registry, cfg)
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}

	runstat := stats.New()
	prometheus.MustRegister(stats.NewCollector(runstat))
	userTrace := trace.NewUserTrace(cfg.TraceSize)
	rejectThrottle := throttle.New(cfg.RejectDelay, cfg.RejectThreshold)

	opts := server.Options{
		Clients:  cache,
		Users:    cache,
		Codec:    codec.NewRadiusCodec(),
		Chains:   chains,
		Throttle: rejectThrottle,
		Stats:    runstat,
		Trace:    userTrace,
		Logger:   log,
		Debug:    cfg.Debug,
	}
	authServer := server.NewServer(server.RoleAuth, net.JoinHostPort("", cfg.AuthPort), opts)
	acctServer := server.NewServer(server.RoleAcct, net.JoinHostPort("", cfg.AcctPort), opts)

	authConn, err := authServer.Listen()
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
	acctConn, err := acctServer.Listen()
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}

	maintenance := &server.Maintenance{
		Auth:          authServer,
		Cache:         cache,
		Throttle:      rejectThrottle,
		RosterTTL:     cfg.RosterTTL,
		DrainInterval: cfg.DelayDrainInterval,
		EvictInterval: cfg.CacheEvictInterval,
		Logger:        log,
	}

	router := admin.NewRouter(&admin.Handler{
		Stats:    runstat,
		Trace:    userTrace,
		Gatherer: prometheus.DefaultGatherer,
		Logger:   log,
	})

	var wg sync.WaitGroup
	run := func(fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				log.Error(err)
				cancel()
			}
		}()
	}
	run(func() error { return authServer.Serve(ctx, authConn) })
	run(func() error { return acctServer.Serve(ctx, acctConn) })
	run(func() error { maintenance.Run(ctx); return nil })
	run(func() error { return admin.ListenAndServe(ctx, cfg.AdminAddr, router, log) })

	wg.Wait()
}
