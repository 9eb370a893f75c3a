package main

import (
	"os/signal"
	"syscall"
	"time"

	"sauna_automation/internal/server"
	"sauna_automation/internal/simulator"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const defaultSimTick = 1 * time.Second

func newSimulateCmd() *cobra.Command {
	var (
		port  string
		speed float64
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Serve a simulated heater compatible with the heater control API",
		Long: "Serves a fake heater under " + simulator.BasePath + "/ using heater.username and heater.password " +
			"from the configuration. Point heater.url at http://localhost:<port>" + simulator.BasePath + "/ to use it.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(false)
			if err != nil {
				return err
			}
			gin.SetMode(gin.ReleaseMode)

			sauna := simulator.New(speed, nil)
			router := simulator.Router(sauna, cfg.Heater.Username, cfg.Heater.Password, log.Named("simulator"))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				sauna.Run(ctx, defaultSimTick)
				return nil
			})
			g.Go(func() error {
				log.Infow("simulated heater listening", "port", port, "speed", speed)
				return (&server.Server{}).Serve(ctx, port, router)
			})
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&port, "port", "8081", "Port to serve the simulated heater on")
	cmd.Flags().Float64Var(&speed, "speed", 1, "Simulation speed multiplier")
	return cmd
}
