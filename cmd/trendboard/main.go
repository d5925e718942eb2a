package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"TrendBoard/internal/config"
	"TrendBoard/internal/dashboard"
	"TrendBoard/internal/logger"
	"TrendBoard/internal/scheduler"
)

const shutdownTimeout = 10 * time.Second

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cmd.IsSet("addr") {
		cfg.Server.Addr = cmd.String("addr")
	}
	if cmd.IsSet("log-level") {
		cfg.Log.Level = cmd.String("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	lg, err := logger.New(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = lg.Sync() }()
	lg.Info("TrendBoard starting", zap.String("config", cmd.String("config")))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ld, err := newLoaders(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer func() {
		if err := ld.Close(); err != nil {
			lg.Warn("close cache stores", zap.Error(err))
		}
	}()

	if cfg.Schedule.PurgeCron != "" || cfg.Schedule.DirectoryCron != "" {
		sched := scheduler.NewScheduler(ctx,
			map[string]scheduler.Purger{"history": ld.history.Cache()},
			ld.directory, lg)
		if err := sched.RegisterAll(cfg.Schedule.PurgeCron, cfg.Schedule.DirectoryCron); err != nil {
			return fmt.Errorf("register cron tasks: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	service := dashboard.NewService(ld.history, ld.directory, cfg.History.FastWindow, cfg.History.SlowWindow, lg)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           dashboard.NewServer(service, lg).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("dashboard listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		lg.Info("shutdown signal received, stopping...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	lg.Info("TrendBoard stopped")
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "trendboard",
		Usage: "Serve the moving-average trend dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML config file",
				Value:   config.DefaultPath,
				Sources: cli.EnvVars("CONFIG_PATH"),
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address, overrides server.addr",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "One of debug, info, warn, error; overrides log.level",
			},
		},
		Action: serve,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
