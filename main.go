package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"genreserver/backend"
	"genreserver/config"
	"genreserver/handler"
	"genreserver/logging"
	"genreserver/manager"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	cli, flags, err := config.ParseArgs(os.Args[0], os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if cli.Version {
		fmt.Println(version)
		return
	}

	log := logging.GetLogger()

	cfg, err := config.LoadConfig(cli.ConfigFile, flags)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Debug {
		logging.InitLogger(logrus.DebugLevel)
		log.Warnln("Debug mode is on: error details are returned to clients")
	} else {
		logging.InitLogger(logrus.InfoLevel)
	}

	inferrer, err := backend.New(cfg.Inference)
	if err != nil {
		log.Fatalf("Failed to set up inference backend: %v", err)
	}

	pool := manager.NewConcurrencyManager(cfg.MaxConcurrent)
	defer pool.Shutdown()

	server := newServer(cfg, inferrer, pool)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s (backend: %s, max concurrent: %d)", cfg.ListenAddress, cfg.Inference.Backend, cfg.MaxConcurrent)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	case <-ctx.Done():
		log.Infoln("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Errorf("Graceful shutdown failed: %v", err)
		}
	}
}

func newServer(cfg *config.Config, inferrer backend.Inferrer, pool handler.Pool) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/infer-genre", handler.NewHTTPHandler(inferrer, pool, cfg.Debug))

	return &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
