package main

import (
	"os"

	_ "sauna_automation/docs"
	"sauna_automation/internal/config"
	"sauna_automation/internal/logger"

	"github.com/spf13/cobra"
)

// @title        Sauna Automation API
// @version      1.0
// @description  Calendar-driven sauna heater automation: status, manual overrides, run trigger and history.
// @BasePath     /

var (
	// overridden during build
	version = "dev"

	configFilename string
	logLevel       string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sauna",
		Short:         "Calendar-driven sauna heater automation",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFilename, "config", "", "Configuration file (default configs/config.yml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides log.level)")

	root.AddCommand(newServeCmd(), newCheckCmd(), newSimulateCmd())
	return root
}

// loadConfig reads the configuration and sets up the process logger. The
// logger is returned even when loading fails so the error can be reported.
func loadConfig(validate bool) (config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configFilename)
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	level := cfg.LogLevel
	if level == "" {
		level = logger.InfoLevel
	}
	log := logger.Get(level)
	if err != nil {
		log.Errorw("error reading config", "err", err)
		return cfg, log, err
	}
	if validate {
		if err := cfg.Validate(); err != nil {
			log.Errorw("invalid config", "err", err)
			return cfg, log, err
		}
	}
	return cfg, log, nil
}
