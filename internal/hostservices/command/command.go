// Package command is the "command" host service: shell execution with
// environment and working-directory control, grounded on streamy's
// internal/plugins/command (determineShell, buildEnv, streaming output
// capture via internalexec.RunStreaming) and internal/plugins/internalexec,
// re-expressed as a single HostService.Execute(ctx, "run", params) call
// instead of the teacher's Check/Apply/DryRun/Verify reconciliation
// contract — this engine runs a command once per Action, it does not
// reconcile idempotent system state.
package command

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/flowcore/flowcore/internal/hostservice"
	"github.com/flowcore/flowcore/internal/hostservices/internalexec"
	"github.com/flowcore/flowcore/pkg/value"
)

// Service implements hostservice.HostService. The zero value is ready to
// use.
type Service struct{}

var _ hostservice.HostService = Service{}

// Execute supports a single method, "run": params must include "command"
// (string); "shell" and "workDir" (string) and "env" (object of
// string-to-string) are optional.
func (Service) Execute(ctx context.Context, method string, params map[string]value.VariableValue) (hostservice.ServiceResult, error) {
	if method != "run" {
		return hostservice.Failure(fmt.Sprintf("command: unsupported method %q", method)), nil
	}

	commandProp, ok := params["command"]
	if !ok {
		return hostservice.Failure("command: missing required param \"command\""), nil
	}
	commandText, ok := commandProp.StringValue()
	if !ok {
		return hostservice.Failure("command: \"command\" must be a string"), nil
	}

	shellOverride := ""
	if p, ok := params["shell"]; ok {
		shellOverride, _ = p.StringValue()
	}
	workDir := ""
	if p, ok := params["workDir"]; ok {
		workDir, _ = p.StringValue()
	}

	shell, shellArgs, err := determineShell(shellOverride)
	if err != nil {
		return hostservice.Failure(err.Error()), nil
	}

	args := append(shellArgs, commandText)
	cmd := exec.CommandContext(ctx, shell, args...)
	cmd.Env = buildEnv(params["env"])
	if workDir != "" {
		cmd.Dir = workDir
	}

	result, runErr := internalexec.RunStreaming(cmd)
	if runErr != nil {
		output := internalexec.PrimaryOutput(result)
		if output != "" {
			return hostservice.Failure(fmt.Sprintf("%v: %s", runErr, output)), nil
		}
		return hostservice.Failure(runErr.Error()), nil
	}

	return hostservice.Ok(value.Object(
		value.Entry("stdout", value.String(result.Stdout)),
		value.Entry("stderr", value.String(result.Stderr)),
	)), nil
}

func determineShell(explicit string) (string, []string, error) {
	if explicit != "" {
		return explicit, []string{"-c"}, nil
	}
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C"}, nil
	}
	if path, err := exec.LookPath("bash"); err == nil {
		return path, []string{"-c"}, nil
	}
	if path, err := exec.LookPath("sh"); err == nil {
		return path, []string{"-c"}, nil
	}
	return "", nil, fmt.Errorf("command: no suitable shell found")
}

func buildEnv(envProp value.VariableValue) []string {
	env := os.Environ()
	if !envProp.IsObject() {
		return env
	}
	for _, entry := range envProp.Members() {
		s, ok := entry.Value.StringValue()
		if !ok {
			continue
		}
		env = append(env, fmt.Sprintf("%s=%s", entry.Name, s))
	}
	return env
}
