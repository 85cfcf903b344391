// Package hostservice defines the HostService contract Action components
// dispatch to, and a name-keyed Registry, grounded on streamy's
// internal/plugin registry (RWMutex-guarded map, RegisterPlugin/GetPlugin)
// but re-expressed around the spec's single Execute(method, params)
// contract rather than streamy's Check/Apply/DryRun/Verify reconciliation
// interface.
package hostservice

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/flowcore/flowcore/pkg/value"
)

// ServiceResult is what a HostService call returns: success with a result
// value, or failure with a human-readable message.
type ServiceResult struct {
	Success bool
	Result  value.VariableValue
	Error   string
}

// Ok constructs a successful ServiceResult.
func Ok(result value.VariableValue) ServiceResult {
	return ServiceResult{Success: true, Result: result}
}

// Failure constructs a failed ServiceResult.
func Failure(message string) ServiceResult {
	return ServiceResult{Success: false, Error: message}
}

// HostService is an externally-supplied capability invoked by Action
// components. Implementations MUST be safe for concurrent Execute calls
// after registration, since the engine may run many executions in parallel
// against the same registry.
type HostService interface {
	// Execute performs the named method with the given parameters. The
	// engine treats any returned error identically to a failed
	// ServiceResult; implementations SHOULD prefer returning
	// Failure(...) over an error for expected/handleable failures and
	// reserve the error return for programmer/contract violations.
	Execute(ctx context.Context, method string, params map[string]value.VariableValue) (ServiceResult, error)
}

// Registry is a name-keyed dispatch table, written during setup and read
// during execution — the only mutable shared-state element at the
// execution boundary (spec §5).
type Registry struct {
	mu       sync.RWMutex
	services map[string]HostService
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{services: make(map[string]HostService)}
}

// Register adds a HostService under name, returning an error if name is
// already registered or service is nil.
func (r *Registry) Register(name string, service HostService) error {
	if service == nil {
		return fmt.Errorf("hostservice: cannot register nil service %q", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.services[name]; exists {
		return fmt.Errorf("hostservice: %q is already registered", name)
	}
	r.services[name] = service
	return nil
}

// Lookup retrieves a HostService by name.
func (r *Registry) Lookup(name string) (HostService, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.services[name]
	return s, ok
}

// Names returns every registered service name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.services))
	for name := range r.services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute looks up serviceName and dispatches method/params to it,
// matching spec §4.4's executeService contract: unknown service or a
// panic/error from the service is wrapped into a failed ServiceResult
// rather than propagated as a Go error, so the executor's per-step error
// handling has one shape to deal with.
func (r *Registry) Execute(ctx context.Context, serviceName, method string, params map[string]value.VariableValue) (result ServiceResult) {
	service, ok := r.Lookup(serviceName)
	if !ok {
		return Failure(fmt.Sprintf("service %q not found", serviceName))
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = Failure(fmt.Sprintf("service %q method %q panicked: %v", serviceName, method, rec))
		}
	}()

	res, err := service.Execute(ctx, method, params)
	if err != nil {
		return Failure(err.Error())
	}
	return res
}
