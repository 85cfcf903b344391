package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/flowcore/flowcore/internal/hostconfig"
	"github.com/flowcore/flowcore/internal/hostservices"
	"github.com/flowcore/flowcore/internal/observer"
)

// bootstrap loads the host-runtime config at path (if given), builds the
// host-service registry it names, and assembles the composite observer its
// observers section enables — grounded on streamy's main.go wiring
// sequence (load config, build registry, build executor, build use
// cases) collapsed into one step since flowctl has no long-lived daemon
// state to share across commands.
func bootstrap(app *AppContext, flags *rootFlags) error {
	level := "info"
	if flags.verbose {
		level = "debug"
	}

	logger, err := newObslogLogger(level)
	if err != nil {
		return fmt.Errorf("flowctl: %w", err)
	}
	app.Logger = logger

	cfg := defaultHostConfig()
	if flags.hostConfig != "" {
		loaded, err := hostconfig.Load(flags.hostConfig)
		if err != nil {
			return fmt.Errorf("flowctl: loading host config: %w", err)
		}
		cfg = loaded
	}
	app.Config = cfg

	registry, err := hostservices.BuildRegistry(cfg)
	if err != nil {
		return fmt.Errorf("flowctl: building host-service registry: %w", err)
	}
	app.Registry = registry

	app.Observer = buildObserver(cfg)

	return nil
}

func defaultHostConfig() *hostconfig.Config {
	return &hostconfig.Config{
		LogLevel: "info",
		HostServices: []hostconfig.ServiceEntry{
			{Name: "command", Kind: "command"},
			{Name: "template", Kind: "template"},
			{Name: "repo", Kind: "repo"},
			{Name: "filesystem", Kind: "filesystem"},
		},
		Observers: hostconfig.ObserverConfig{Logging: true},
	}
}

func buildObserver(cfg *hostconfig.Config) observer.Observer {
	var observers []observer.Observer

	if cfg.Observers.Logging {
		observers = append(observers, observer.NewLoggingObserver(zerolog.New(os.Stdout).With().Timestamp().Logger()))
	}
	if cfg.Observers.Metrics {
		observers = append(observers, observer.NewMetricsObserver())
	}
	if cfg.Observers.Tracing {
		observers = append(observers, observer.NewTracingObserver())
	}
	if cfg.Observers.Hooks {
		observers = append(observers, observer.NewHookObserver())
	}

	if len(observers) == 0 {
		return observer.Noop{}
	}

	logger, _ := newObslogLogger("info")
	return observer.NewComposite(logger, observers...)
}
