package main

import (
	"context"
	"database/sql"
	"fmt"
	"os/signal"
	"syscall"

	"sauna_automation/internal/calendar"
	"sauna_automation/internal/config"
	"sauna_automation/internal/handlers"
	"sauna_automation/internal/heater"
	"sauna_automation/internal/logger"
	"sauna_automation/internal/metrics"
	"sauna_automation/internal/repository"
	"sauna_automation/internal/repository/db"
	"sauna_automation/internal/server"
	"sauna_automation/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// app holds the wired dependencies shared by serve and check.
type app struct {
	cfg      config.Config
	log      *logger.Logger
	db       *sql.DB
	metrics  *metrics.Metrics
	services *service.Service
}

// newApp wires clients, repositories and services from cfg.
func newApp(cfg config.Config, log *logger.Logger) (*app, error) {
	m := metrics.New()

	ctl, err := heater.New(heater.Options{
		BaseURL:        cfg.Heater.URL,
		Username:       cfg.Heater.Username,
		Password:       cfg.Heater.Password,
		Timeout:        cfg.Heater.Timeout,
		ConnectTimeout: cfg.Heater.ConnectTimeout,
		Retry: heater.RetryPolicy{
			Attempts:  cfg.Heater.RetryAttempts,
			BaseDelay: cfg.Heater.RetryBaseDelay,
		},
		Instrument: m.Instrument("heater"),
	})
	if err != nil {
		return nil, err
	}

	cal := calendar.New(calendar.Options{
		URL:            cfg.Calendar.URL,
		Timeout:        cfg.Calendar.Timeout,
		ConnectTimeout: cfg.Calendar.ConnectTimeout,
		Instrument:     m.Instrument("calendar"),
	})

	sqlDB, err := db.InitDB(cfg.History.DSN)
	if err != nil {
		return nil, fmt.Errorf("init history: %w", err)
	}

	repos := repository.NewRepository(sqlDB, cfg.State.File, nil, log.Named("marker"))
	services := service.NewService(service.Deps{
		Automation:       cfg.Automation,
		HistoryRetention: cfg.History.Retention,
		Calendar:         cal,
		Heater:           ctl,
		Repos:            repos,
		Observer:         m,
		Log:              log,
	})

	return &app{cfg: cfg, log: log, db: sqlDB, metrics: m, services: services}, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.log.Warnw("failed to close history db", "err", err)
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and run automation on the configured interval",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(true)
			if err != nil {
				return err
			}
			a, err := newApp(cfg, log)
			if err != nil {
				log.Errorw("failed to wire dependencies", "err", err)
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

// serve runs the HTTP server and, when enabled, the scheduler until ctx is done.
func (a *app) serve(ctx context.Context) error {
	if a.cfg.LogLevel != logger.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	apiHandler := handlers.NewHandler(a.services, a.metrics.Handler(), a.log.Named("http"))
	srv := &server.Server{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Infow("http server listening", "port", a.cfg.Port)
		return srv.Serve(ctx, a.cfg.Port, apiHandler.InitRoutes())
	})
	if interval := a.cfg.Automation.Interval; interval > 0 {
		g.Go(func() error {
			a.services.Scheduler.Run(ctx, interval)
			return nil
		})
	} else {
		a.log.Infow("scheduler disabled; trigger runs with `sauna check` or POST /api/v1/run")
	}

	err := g.Wait()
	a.log.Infow("shut down", "err", err)
	return err
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run one automation check and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(true)
			if err != nil {
				return err
			}
			a, err := newApp(cfg, log)
			if err != nil {
				log.Errorw("failed to wire dependencies", "err", err)
				return err
			}
			defer a.close()

			d := a.services.Automation.Check(cmd.Context())
			log.Infow("check finished",
				"action", d.Action,
				"reason", d.Reason,
				"executed", d.Executed,
				"error", d.Error,
			)
			return nil
		},
	}
}
