// Package hostservices aggregates the engine's built-in HostService
// implementations and registers them into a hostservice.Registry per a
// hostconfig.Config's host_services list, grounded on the teacher's
// cmd/streamy/plugins_import.go (blank-import-then-registry-population
// wiring at process startup).
package hostservices

import (
	"fmt"

	"github.com/flowcore/flowcore/internal/hostconfig"
	"github.com/flowcore/flowcore/internal/hostservice"
	"github.com/flowcore/flowcore/internal/hostservices/command"
	"github.com/flowcore/flowcore/internal/hostservices/filesystem"
	"github.com/flowcore/flowcore/internal/hostservices/repo"
	"github.com/flowcore/flowcore/internal/hostservices/template"
)

// NewService constructs a built-in HostService by kind ("command",
// "template", "repo", "filesystem").
func NewService(kind string) (hostservice.HostService, error) {
	switch kind {
	case "command":
		return command.Service{}, nil
	case "template":
		return template.Service{}, nil
	case "repo":
		return repo.Service{}, nil
	case "filesystem":
		return filesystem.Service{}, nil
	default:
		return nil, fmt.Errorf("hostservices: unknown kind %q", kind)
	}
}

// BuildRegistry constructs a Registry from a host-runtime config's service
// entries, registering each built-in kind under its configured name.
func BuildRegistry(cfg *hostconfig.Config) (*hostservice.Registry, error) {
	registry := hostservice.NewRegistry()
	for _, entry := range cfg.HostServices {
		svc, err := NewService(entry.Kind)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(entry.Name, svc); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
