package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/flowcore/flowcore/internal/domain/execctx"
	"github.com/flowcore/flowcore/internal/executor"
	"github.com/flowcore/flowcore/internal/loader"
	"github.com/flowcore/flowcore/internal/rollback"
)

type runOptions struct {
	flowPath        string
	mode            string
	breakpointAfter int
}

func newRunCmd(app *AppContext, flags *rootFlags) *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a flow to completion, or step through it interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bootstrap(app, flags); err != nil {
				return err
			}
			return runFlow(cmd, app, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.flowPath, "flow", "f", "", "path to the flow JSON document")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "completion", "completion|step|breakpoint")
	cmd.Flags().IntVar(&opts.breakpointAfter, "breakpoint-after", 1, "component count to pause after, in breakpoint mode")
	cmd.MarkFlagRequired("flow") //nolint:errcheck

	return cmd
}

func runFlow(cmd *cobra.Command, app *AppContext, opts runOptions) error {
	ctx, log := app.CommandContext(cmd, "run")

	data, err := os.ReadFile(opts.flowPath)
	if err != nil {
		return fmt.Errorf("flowctl: reading %s: %w", opts.flowPath, err)
	}

	result, multi := loader.Load(data)
	if multi.HasErrors() {
		for _, e := range multi.Errors {
			fmt.Fprintf(os.Stderr, "error: %s\n", e.Error())
		}
		return fmt.Errorf("flowctl: %s failed to load", opts.flowPath)
	}

	ex := executor.New(app.Registry, executor.WithObserver(app.Observer))

	execMode := executor.ModeRunToCompletion
	interactive := (opts.mode == "step" || opts.mode == "breakpoint") && term.IsTerminal(int(os.Stdin.Fd()))
	if (opts.mode == "step" || opts.mode == "breakpoint") && !interactive {
		fmt.Fprintln(os.Stderr, "flowctl: stdin is not a terminal, falling back to completion mode")
		opts.mode = "completion"
	}

	var ec *execctx.ExecutionContext
	switch opts.mode {
	case "step":
		execMode = executor.ModeStepByStep
	case "breakpoint":
		execMode = executor.ModeRunToBreakpoint
		start, ok := result.Flow.Start()
		if !ok {
			return fmt.Errorf("flowctl: flow has no start component")
		}
		seeded := execctx.New(result.Flow.ID, fmt.Sprintf("exec-%d", os.Getpid()), start.ID)
		seeded.Metadata["breakpointAfterSteps"] = opts.breakpointAfter
		ec = &seeded
	}

	reader := bufio.NewReader(os.Stdin)

	log.Info(ctx, "starting execution", "flow", opts.flowPath, "mode", opts.mode)

	for {
		res, nextEC := ex.Execute(ctx, result.Flow, ec, execMode)
		ec = &nextEC

		if !interactive || res.Status != execctx.StatusPaused {
			return reportOutcome(res)
		}

		fmt.Fprintf(os.Stdout, "paused at %s (%d components executed)\n", ec.CurrentComponentID, res.ComponentsExecuted)
		fmt.Fprint(os.Stdout, "[c]ontinue, [r]ollback N, [a]bort > ")

		line, _ := reader.ReadString('\n')
		parts := strings.Fields(strings.TrimSpace(line))

		switch {
		case len(parts) == 0 || parts[0] == "c":
			continue
		case parts[0] == "a":
			abortResult := ex.Abort(ctx, *ec, "aborted interactively")
			ec = &abortResult.Context
			return reportOutcome(executor.ExecutionResult{Status: ec.Status})
		case parts[0] == "r":
			steps := 1
			if len(parts) > 1 {
				if n, err := strconv.Atoi(parts[1]); err == nil {
					steps = n
				}
			}
			rolled, err := rollback.Rollback(*ec, steps)
			if err != nil {
				fmt.Fprintf(os.Stderr, "rollback failed: %v\n", err)
				continue
			}
			ec = &rolled
		default:
			fmt.Fprintln(os.Stderr, "unrecognized command")
		}
	}
}

func reportOutcome(res executor.ExecutionResult) error {
	if res.Err != nil {
		return fmt.Errorf("flowctl: execution failed: %w", res.Err)
	}
	fmt.Fprintf(os.Stdout, "execution %s (%d components executed)\n", res.Status, res.ComponentsExecuted)
	return nil
}
