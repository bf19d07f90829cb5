// Command etymapd runs the etymap daemon: it owns the database, the live
// sessions, and the HTTP API the CLI talks to.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"path/filepath"
	"syscall"

	"etymap/internal/config"
	"etymap/internal/daemon"
	"etymap/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "configuration file path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("ensure directories: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout", filepath.Join(cfg.Paths.LogDir, "etymapd.log")},
	})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	st, err := daemonStore(cfg, logger)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	d, err := daemon.New(cfg, st, logger)
	if err != nil {
		log.Fatalf("create daemon: %v", err)
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		log.Fatalf("start daemon: %v", err)
	}

	<-ctx.Done()
	logger.Info("etymapd shutting down")
}
