// Package template is the "template" host service: text/template rendering
// against a variable mapping, grounded on streamy's
// internal/plugins/template (renderTemplate, buildContext's
// env-then-explicit-vars precedence, "missingkey=error"/"missingkey=zero"
// mode selection), re-expressed as a single render-and-return call instead
// of the teacher's Check/Apply/DryRun reconciliation against a destination
// file.
package template

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/flowcore/flowcore/internal/hostservice"
	"github.com/flowcore/flowcore/pkg/value"
)

// Service implements hostservice.HostService.
type Service struct{}

var _ hostservice.HostService = Service{}

// Execute supports one method, "render": params must include "template"
// (the template source text); "vars" (an object of string values, optional)
// is merged over the process environment when "includeEnv" is true.
func (Service) Execute(_ context.Context, method string, params map[string]value.VariableValue) (hostservice.ServiceResult, error) {
	if method != "render" {
		return hostservice.Failure(fmt.Sprintf("template: unsupported method %q", method)), nil
	}

	src, ok := params["template"]
	if !ok {
		return hostservice.Failure("template: missing required param \"template\""), nil
	}
	text, ok := src.StringValue()
	if !ok {
		return hostservice.Failure("template: \"template\" must be a string"), nil
	}

	option := "missingkey=error"
	if allow, ok := params["allowMissing"]; ok {
		if b, ok := allow.BoolValue(); ok && b {
			option = "missingkey=zero"
		}
	}

	data := buildContext(params)

	tmpl, err := template.New("action").Option(option).Parse(text)
	if err != nil {
		return hostservice.Failure(fmt.Sprintf("template: parse: %v", err)), nil
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return hostservice.Failure(fmt.Sprintf("template: execute: %v", err)), nil
	}

	return hostservice.Ok(value.String(buf.String())), nil
}

func buildContext(params map[string]value.VariableValue) map[string]string {
	values := make(map[string]string)

	if includeEnv, ok := params["includeEnv"]; ok {
		if b, ok := includeEnv.BoolValue(); ok && b {
			for _, entry := range os.Environ() {
				parts := strings.SplitN(entry, "=", 2)
				v := ""
				if len(parts) == 2 {
					v = parts[1]
				}
				values[parts[0]] = v
			}
		}
	}

	if varsProp, ok := params["vars"]; ok && varsProp.IsObject() {
		for _, entry := range varsProp.Members() {
			if s, ok := entry.Value.StringValue(); ok {
				values[entry.Name] = s
			}
		}
	}

	return values
}
