package hostservices

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowcore/flowcore/internal/hostconfig"
)

func TestBuildRegistryRegistersConfiguredServices(t *testing.T) {
	cfg := &hostconfig.Config{
		HostServices: []hostconfig.ServiceEntry{
			{Name: "shell", Kind: "command"},
			{Name: "render", Kind: "template"},
		},
	}

	registry, err := BuildRegistry(cfg)
	require.NoError(t, err)

	_, ok := registry.Lookup("shell")
	require.True(t, ok)
	_, ok = registry.Lookup("render")
	require.True(t, ok)
}

func TestBuildRegistryRejectsUnknownKind(t *testing.T) {
	cfg := &hostconfig.Config{
		HostServices: []hostconfig.ServiceEntry{
			{Name: "mystery", Kind: "ghost"},
		},
	}

	_, err := BuildRegistry(cfg)
	require.Error(t, err)
}
