package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/liliang-cn/gravec/internal/server"
	"github.com/liliang-cn/gravec/pkg/core"
	"github.com/liliang-cn/gravec/pkg/gravec"
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML config file")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	dataPath := flag.String("data", "", "Snapshot file path (overrides config)")
	flag.Parse()

	cfg, err := server.LoadServerConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dataPath != "" {
		cfg.DataPath = *dataPath
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	dbConfig := gravec.DefaultConfig(cfg.DataPath)
	dbConfig.Backend = gravec.Backend(cfg.Backend)
	dbConfig.Dimensions = cfg.Dimensions

	db, err := gravec.Open(dbConfig, gravec.WithLogger(coreLogger(cfg)))
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	stats := db.Stats()
	logger.Info("database opened",
		"path", cfg.DataPath,
		"backend", cfg.Backend,
		"nodes", stats.Nodes,
		"edges", stats.Edges,
	)

	srv := server.New(db, cfg, logger)

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run()
	}()

	select {
	case sig := <-shutdownChan:
		logger.Info("signal received", "signal", sig.String())
		srv.Shutdown()
	case err := <-errChan:
		if err != nil {
			logger.Error("server failed", "error", err)
			db.Close()
			os.Exit(1)
		}
	}

	// The final snapshot write happens on close.
	if err := db.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
	}
	logger.Info("shutdown complete")
}

// coreLogger maps the daemon log level onto the embedded library logger.
func coreLogger(cfg server.Config) core.Logger {
	switch cfg.LogLevel {
	case "debug":
		return core.NewStdLogger(core.LevelDebug)
	case "warn":
		return core.NewStdLogger(core.LevelWarn)
	case "error":
		return core.NewStdLogger(core.LevelError)
	default:
		return core.NewStdLogger(core.LevelInfo)
	}
}
