package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"consentgate/internal/assertion"
	"consentgate/internal/exchange"
	"consentgate/internal/gateway"
	"consentgate/internal/pipeline"
	"consentgate/internal/platform/config"
	"consentgate/internal/platform/httpserver"
	"consentgate/internal/platform/logger"
	"consentgate/internal/platform/metrics"
	platformredis "consentgate/internal/platform/redis"
	"consentgate/internal/registry"
	"consentgate/internal/session"
	httptransport "consentgate/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	log := logger.New(slog.LevelInfo)

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("loading configuration failed", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("connecting to redis failed", "error", err)
		os.Exit(1)
	}

	var sessions session.Store
	var health httptransport.HealthChecker
	if redisClient != nil {
		defer redisClient.Close()
		sessions = session.NewRedisStore(redisClient.Client)
		health = redisClient
		log.Info("session store: redis")
	} else {
		sessions = session.NewMemoryStore()
		log.Info("session store: in-memory")
	}

	gw := gateway.New(cfg.RegistryUsername, cfg.RegistryPassword, cfg.CallTimeout, log,
		gateway.WithRetryGets(cfg.RetryLookups))

	verifier, err := assertion.New(cfg.AssertionPublicKeyPEM, log)
	if err != nil {
		log.Error("loading assertion public key failed", "error", err)
		os.Exit(1)
	}

	clients, err := registry.NewClientRegistryClient(gw, cfg.ClientLookupURL, log)
	if err != nil {
		log.Error("building client registry failed", "error", err)
		os.Exit(1)
	}
	consents, err := registry.NewConsentRegistryClient(gw, cfg.ConsentLookupURL, cfg.ConsentUpdateURL, log)
	if err != nil {
		log.Error("building consent registry failed", "error", err)
		os.Exit(1)
	}
	exchanger, err := exchange.New(gw, cfg.TokenEndpointURL, cfg.ClientID, cfg.ClientSecret, log)
	if err != nil {
		log.Error("building token exchange client failed", "error", err)
		os.Exit(1)
	}

	p, err := pipeline.New(verifier, clients, consents, exchanger, sessions, cfg.SessionTTL, log,
		pipeline.WithMetrics(metrics.New()))
	if err != nil {
		log.Error("building pipeline failed", "error", err)
		os.Exit(1)
	}

	handler := httptransport.New(p, health, log)
	router := httptransport.NewRouter(handler)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting consentgate", "addr", cfg.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Error("server error", "error", err)
		os.Exit(1)
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
