package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/flowcore/flowcore/internal/hostconfig"
	"github.com/flowcore/flowcore/internal/hostservice"
	"github.com/flowcore/flowcore/internal/obslog"
	"github.com/flowcore/flowcore/internal/observer"
)

// AppContext bundles the long-lived services built at startup from a
// hostconfig.Config, grounded on streamy's cmd/streamy/app_context.go
// (shared-state bundle + CommandContext/LoggerFor helpers).
type AppContext struct {
	Logger   obslog.Logger
	Registry *hostservice.Registry
	Observer observer.Observer
	Config   *hostconfig.Config
}

// CommandContext returns the command's context (falling back to
// Background) together with a component-scoped logger.
func (a *AppContext) CommandContext(cmd *cobra.Command, component string) (context.Context, obslog.Logger) {
	ctx := context.Background()
	if cmd != nil && cmd.Context() != nil {
		ctx = cmd.Context()
	}
	return ctx, a.LoggerFor(component)
}

// LoggerFor derives a child logger scoped to component.
func (a *AppContext) LoggerFor(component string) obslog.Logger {
	if a == nil || a.Logger == nil {
		return obslog.NewNoOpLogger()
	}
	return a.Logger.With("component", component)
}
