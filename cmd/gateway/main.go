package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/betbot/tradegate/internal/gateway"
	"github.com/betbot/tradegate/pkg/config"
	"github.com/betbot/tradegate/pkg/logger"
	"github.com/betbot/tradegate/pkg/secretstore"
	"github.com/betbot/tradegate/pkg/shutdown"
)

func main() {
	// Load .env (best-effort). If missing, fall back to real env vars.
	_ = godotenv.Load()

	getenv := func(key, def string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return def
	}

	var (
		configPath = flag.String("config", getenv("GATEWAY_CONFIG", ""), "config file path (yaml)")
		listenAddr = flag.String("listen", "", "HTTP listen address (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	if *listenAddr != "" {
		cfg.Server.ListenAddr = *listenAddr
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.LogLevel,
		OutputFile: cfg.LogFile,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
		Compress:   true,
	}); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}

	if cfg.Server.SharedSecret == "" {
		logger.Warn("GATEWAY_SHARED_SECRET is empty, /api endpoints are unauthenticated")
	}

	encKey, err := secretstore.ParseKey(cfg.Store.EncryptionKey)
	if err != nil {
		log.Fatalf("parse store encryption key failed: %v", err)
	}
	secrets, err := secretstore.Open(secretstore.OpenOptions{
		Path:          cfg.Store.Path,
		EncryptionKey: encKey,
	})
	if err != nil {
		log.Fatalf("open secret store failed: %v", err)
	}

	shut := shutdown.NewManager()
	shut.OnShutdown(func(ctx context.Context) {
		if err := secrets.Close(); err != nil {
			logger.Errorf("closing secret store: %v", err)
		}
	})

	session := gateway.NewSession()
	srv := gateway.New(gateway.Config{
		SharedSecret: cfg.Server.SharedSecret,
		OrderTTL:     time.Duration(cfg.Store.OrderTTLHours) * time.Hour,
	}, session)

	// Credential bootstrap hits the venue; run it async so the health
	// endpoint comes up immediately and readiness is visible via /api/session.
	bootCtx, bootCancel := context.WithCancel(context.Background())
	go func() {
		if err := session.Bootstrap(bootCtx, cfg, secrets); err != nil {
			logger.Errorf("session bootstrap failed: %v", err)
		}
	}()
	shut.OnShutdown(func(ctx context.Context) { bootCancel() })

	httpSrv := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	shut.OnShutdown(func(ctx context.Context) {
		if err := httpSrv.Shutdown(ctx); err != nil {
			logger.Errorf("http shutdown: %v", err)
		}
	})

	go func() {
		logger.Infof("gateway listening on %s", cfg.Server.ListenAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("http server error: %v", err)
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	<-stopCh

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	shut.Shutdown(ctx)

	logger.Info("gateway stopped")
}
