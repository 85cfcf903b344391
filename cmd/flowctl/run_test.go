package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/flowcore/flowcore/internal/hostservice"
	"github.com/flowcore/flowcore/internal/observer"
)

func TestRunFlowCompletionModeSucceeds(t *testing.T) {
	path := writeFlow(t, startEndFlowDoc)

	app := &AppContext{
		Logger:   nil,
		Registry: hostservice.NewRegistry(),
		Observer: observer.Noop{},
	}

	err := runFlow(&cobra.Command{}, app, runOptions{flowPath: path, mode: "completion"})
	require.NoError(t, err)
}

func TestRunFlowRejectsUnreadableFlowPath(t *testing.T) {
	app := &AppContext{Registry: hostservice.NewRegistry(), Observer: observer.Noop{}}

	err := runFlow(&cobra.Command{}, app, runOptions{flowPath: "does-not-exist.json", mode: "completion"})
	require.Error(t, err)
}
