// Package repo is the "repo" host service: git clone via go-git, grounded
// on streamy's internal/plugins/repo (CloneOptions construction from
// URL/branch/depth, PlainCloneContext), re-expressed as a single clone call
// instead of the teacher's Evaluate/Apply drift-reconciliation (does the
// destination already hold the right remote/branch, clone-or-reclone) —
// this engine runs an Action once, it does not converge existing state.
package repo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/flowcore/flowcore/internal/hostservice"
	"github.com/flowcore/flowcore/pkg/value"
)

// Service implements hostservice.HostService.
type Service struct{}

var _ hostservice.HostService = Service{}

// Execute supports a single method, "clone": params must include "url" and
// "destination" (strings); "branch" (string) and "depth" (number) are
// optional.
func (Service) Execute(ctx context.Context, method string, params map[string]value.VariableValue) (hostservice.ServiceResult, error) {
	if method != "clone" {
		return hostservice.Failure(fmt.Sprintf("repo: unsupported method %q", method)), nil
	}

	urlProp, ok := params["url"]
	if !ok {
		return hostservice.Failure("repo: missing required param \"url\""), nil
	}
	url, ok := urlProp.StringValue()
	if !ok {
		return hostservice.Failure("repo: \"url\" must be a string"), nil
	}

	destProp, ok := params["destination"]
	if !ok {
		return hostservice.Failure("repo: missing required param \"destination\""), nil
	}
	destination, ok := destProp.StringValue()
	if !ok {
		return hostservice.Failure("repo: \"destination\" must be a string"), nil
	}

	opts := &git.CloneOptions{URL: url}
	if branchProp, ok := params["branch"]; ok {
		if branch, ok := branchProp.StringValue(); ok && branch != "" {
			opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
			opts.SingleBranch = true
		}
	}
	if depthProp, ok := params["depth"]; ok {
		if depth, ok := depthProp.NumberValue(); ok && depth > 0 {
			opts.Depth = int(depth)
		}
	}

	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return hostservice.Failure(fmt.Sprintf("repo: failed to create destination parent: %v", err)), nil
	}

	if _, err := git.PlainCloneContext(ctx, destination, false, opts); err != nil {
		return hostservice.Failure(fmt.Sprintf("repo: clone failed: %v", err)), nil
	}

	return hostservice.Ok(value.Object(
		value.Entry("destination", value.String(destination)),
		value.Entry("url", value.String(url)),
	)), nil
}
