package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lendcore/config"
	"lendcore/observability/logging"
	"lendcore/risk"
	"lendcore/server"
)

func main() {
	configPath := flag.String("config", "riskd.toml", "path to the riskd configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Setup("riskd", "").Error("load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup("riskd", cfg.Env)

	engine, err := risk.NewEngine(cfg.RiskParameters())
	if err != nil {
		logger.Error("configure risk engine", "error", err)
		os.Exit(1)
	}

	svc := server.New(engine, cfg.InterestModel(), cfg.Interest.ReserveFactorBps, logger)
	limiter := server.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst, logger)

	srv := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           svc.Router(limiter),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("riskd listening", "addr", cfg.ListenAddress)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown", "error", err)
			os.Exit(1)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("serve", "error", err)
			os.Exit(1)
		}
	}
}
