package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/flowcore/flowcore/internal/dashboard"
	"github.com/flowcore/flowcore/internal/executor"
	"github.com/flowcore/flowcore/internal/loader"
)

func newDashboardCmd(app *AppContext, flags *rootFlags) *cobra.Command {
	var flowPath string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Run a flow to completion with a live TUI dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bootstrap(app, flags); err != nil {
				return err
			}
			return runDashboard(app, flowPath)
		},
	}

	cmd.Flags().StringVarP(&flowPath, "flow", "f", "", "path to the flow JSON document")
	cmd.MarkFlagRequired("flow") //nolint:errcheck

	return cmd
}

// runDashboard mirrors streamy's apply.go: a tea.Program runs on its own
// goroutine while the executor drives the flow on the caller's goroutine,
// an Observer bridging the two.
func runDashboard(app *AppContext, flowPath string) error {
	data, err := os.ReadFile(flowPath)
	if err != nil {
		return fmt.Errorf("flowctl: reading %s: %w", flowPath, err)
	}

	result, multi := loader.Load(data)
	if multi.HasErrors() {
		for _, e := range multi.Errors {
			fmt.Fprintf(os.Stderr, "error: %s\n", e.Error())
		}
		return fmt.Errorf("flowctl: %s failed to load", flowPath)
	}

	modelState := dashboard.NewModel(result.Flow.ID)
	program := tea.NewProgram(modelState)

	var programErr error
	done := make(chan struct{})
	go func() {
		_, programErr = program.Run()
		close(done)
	}()

	observer := dashboard.NewProgramObserver(program)
	ex := executor.New(app.Registry, executor.WithObserver(observer))

	res, _ := ex.Execute(context.Background(), result.Flow, nil, executor.ModeRunToCompletion)

	<-done
	if programErr != nil {
		return programErr
	}

	if res.Err != nil {
		return fmt.Errorf("flowctl: execution failed: %w", res.Err)
	}
	return nil
}
