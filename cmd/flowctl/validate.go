package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowcore/flowcore/internal/loader"
)

func newValidateCmd(app *AppContext) *cobra.Command {
	var flowPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a flow document without executing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(app, flowPath)
		},
	}

	cmd.Flags().StringVarP(&flowPath, "flow", "f", "", "path to the flow JSON document")
	cmd.MarkFlagRequired("flow") //nolint:errcheck

	return cmd
}

func runValidate(app *AppContext, flowPath string) error {
	data, err := os.ReadFile(flowPath)
	if err != nil {
		return fmt.Errorf("flowctl: reading %s: %w", flowPath, err)
	}

	ok, warnings, multi := loader.Validate(data)
	for _, w := range warnings {
		fmt.Fprintf(os.Stdout, "warning: %s: %s\n", w.Path, w.Message)
	}

	if !ok {
		for _, e := range multi.Errors {
			fmt.Fprintf(os.Stderr, "error: %s\n", e.Error())
		}
		return fmt.Errorf("flowctl: %s failed validation", flowPath)
	}

	fmt.Fprintf(os.Stdout, "%s is valid\n", flowPath)
	return nil
}
