package main

import (
	"agent-staffing/config"
	"agent-staffing/logger"
	"agent-staffing/server"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"
)

func main() {
	configFile := flag.String("config", os.Getenv("SCHEDULER_CONFIG"), "Optional YAML config file, reloaded on change")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	srv := server.New(defaultsFrom(cfg), log)
	httpServer := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *configFile != "" {
		go func() {
			err := config.Watch(ctx, *configFile, log, func(updated *config.Config) {
				srv.SetDefaults(defaultsFrom(updated))
				log.Info("Request defaults updated", "input", updated.Input, "timezone", updated.Timezone)
			})
			if err != nil {
				log.Error("Configuration watcher failed", "error", err)
			}
		}()
	}

	go func() {
		log.Info("Agent staffing web server listening", "addr", httpServer.Addr, "input", cfg.Input, "timezone", cfg.Timezone)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server error", "error", err)
		}
	}()

	waitForShutdown(cancel, httpServer, log)
}

func defaultsFrom(cfg *config.Config) server.Defaults {
	return server.Defaults{
		Input:       cfg.Input,
		Timezone:    cfg.Timezone,
		Utilization: cfg.Utilization,
	}
}

func waitForShutdown(cancel context.CancelFunc, srv *http.Server, log logger.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	cancel()
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
