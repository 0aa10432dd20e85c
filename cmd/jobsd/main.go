// Command jobsd serves the job resource from a local SQLite file so the
// dashboard can be developed without a real backend.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/bekirdag/jobdesk/internal/config"
	"github.com/bekirdag/jobdesk/internal/devserver"
	"github.com/bekirdag/jobdesk/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "jobsd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	envFile := flag.String("env", "", "optional .env file")
	addr := flag.String("addr", "", "listen address (overrides JOBSD_ADDR)")
	dbPath := flag.String("db", "", "SQLite database path (overrides JOBSD_DB_PATH)")
	flag.Parse()

	cfg, err := config.Load(config.Options{EnvFile: *envFile})
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Server.DBPath = *dbPath
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logCfg := logger.DefaultConfig()
	logCfg.Level = level
	if cfg.Log.Format != "" {
		logCfg.Format = cfg.Log.Format
	}
	log := logger.New(logCfg)
	gin.SetMode(gin.ReleaseMode)

	store, err := devserver.OpenStore(cfg.Server.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.Server.Seed {
		n, err := devserver.Seed(context.Background(), store, time.Now())
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info("seeded demo jobs", "count", n)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	handler := devserver.NewHandler(store, devserver.NewMetrics(reg), log)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           devserver.NewRouter(handler, reg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("jobsd listening", "addr", srv.Addr, "db", store.Path())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Info("shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("jobsd exited")
	return nil
}
