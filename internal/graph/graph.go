// Package graph is the pure graph interpreter over (Flow, ExecutionContext):
// successor resolution per component variant, DFS cycle detection with
// recursion-stack path capture, and BFS path finding. It generalizes
// streamy's internal/engine/dag.go (Kahn's-algorithm level computation,
// Graph/Node adjacency) to the component-variant-aware successor rules
// spec §4.3 requires, and shares its DFS routine with internal/validator so
// the cycle check is implemented once.
package graph

import (
	"fmt"

	"github.com/flowcore/flowcore/internal/domain/execctx"
	"github.com/flowcore/flowcore/internal/domain/flow"
)

// ResolveNext returns the successor component for ctx.CurrentComponentID,
// or (zero, false) when current is an End (terminal) or has no matching
// outgoing connection.
//
// End returns terminal. Start/Fork/Join follow the first outgoing
// connection in declaration order (Fork's parallel fan-out is the
// Executor's concern; this is the deterministic linear successor used for
// sequential stepping). Action follows the connection whose source port is
// "success", not simply the first outgoing one; its "error" port is never
// followed. Decision evaluates its condition and follows the connection
// whose source port is "true" or "false" accordingly.
func ResolveNext(f flow.Flow, ctx execctx.ExecutionContext) (flow.Component, bool) {
	current, ok := f.Component(ctx.CurrentComponentID)
	if !ok {
		return flow.Component{}, false
	}

	switch current.Kind {
	case flow.KindEnd:
		return flow.Component{}, false
	case flow.KindDecision:
		branch := "false"
		if EvaluateCondition(current, ctx) {
			branch = "true"
		}
		return followPort(f, current.ID, branch)
	case flow.KindAction:
		// The executor only ever calls ResolveNext after a successful
		// Action step (a failed one short-circuits the execution before
		// advancing), so the successor is always reached via the
		// "success" port, never "error".
		return followPort(f, current.ID, "success")
	default:
		return followFirst(f, current.ID)
	}
}

// EvaluateCondition implements the shipped condition rule (spec §4.3): look
// up the condition property's referenced variable name in ctx.Variables; a
// Boolean resolves to its value, anything else (including "unset") is
// false. Implementations may plug in a richer evaluator elsewhere, but this
// default must be preserved so existing flows behave identically.
func EvaluateCondition(decision flow.Component, ctx execctx.ExecutionContext) bool {
	prop, ok := decision.Properties["condition"]
	if !ok {
		return false
	}
	name, ok := prop.StringValue()
	if !ok {
		return false
	}
	v, ok := ctx.Variables[name]
	if !ok {
		return false
	}
	b, ok := v.BoolValue()
	if !ok {
		return false
	}
	return b
}

func followFirst(f flow.Flow, componentID string) (flow.Component, bool) {
	outs := f.OutgoingConnections(componentID)
	if len(outs) == 0 {
		return flow.Component{}, false
	}
	return f.Component(outs[0].Target.ComponentID)
}

func followPort(f flow.Flow, componentID, sourcePortID string) (flow.Component, bool) {
	for _, conn := range f.OutgoingConnections(componentID) {
		if conn.Source.PortID == sourcePortID {
			return f.Component(conn.Target.ComponentID)
		}
	}
	return flow.Component{}, false
}

// Cycle is an offending node sequence found during cycle detection,
// reported in visit order with the back-edge target repeated at the end.
type Cycle struct {
	Path []string
}

func (c Cycle) String() string {
	out := ""
	for i, id := range c.Path {
		if i > 0 {
			out += " -> "
		}
		out += id
	}
	return out
}

// DetectCycles runs DFS with a recursion stack from every unvisited
// component (starting with Start, if present), the same algorithm the
// validator's graph check uses, returning every distinct cycle found.
func DetectCycles(f flow.Flow) []Cycle {
	visited := make(map[string]bool, len(f.Components))
	onStack := make(map[string]bool, len(f.Components))
	var cycles []Cycle

	var order []string
	if start, ok := f.Start(); ok {
		order = append(order, start.ID)
	}
	for _, c := range f.Components {
		order = append(order, c.ID)
	}

	var path []string
	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		onStack[id] = true
		path = append(path, id)

		for _, conn := range f.OutgoingConnections(id) {
			next := conn.Target.ComponentID
			if !visited[next] {
				visit(next)
			} else if onStack[next] {
				cycle := append([]string(nil), path...)
				cycle = append(cycle, next)
				cycles = append(cycles, Cycle{Path: cycle})
			}
		}

		onStack[id] = false
		path = path[:len(path)-1]
	}

	for _, id := range order {
		if !visited[id] {
			visit(id)
		}
	}
	return cycles
}

// ValidateDAG reports whether f's component graph is acyclic, returning the
// first cycle found as an error otherwise. Usable as a quick pre-flight
// check before executing a flow that bypassed full validation.
func ValidateDAG(f flow.Flow) error {
	cycles := DetectCycles(f)
	if len(cycles) == 0 {
		return nil
	}
	return fmt.Errorf("cycle detected: %s", cycles[0].String())
}

// FindPath runs BFS from fromId to toId, returning the ordered sequence of
// Components along the shortest path, or (nil, false) if unreachable. If
// fromId == toId, returns the singleton containing that component.
func FindPath(f flow.Flow, fromID, toID string) ([]flow.Component, bool) {
	if fromID == toID {
		c, ok := f.Component(fromID)
		if !ok {
			return nil, false
		}
		return []flow.Component{c}, true
	}

	type queued struct {
		id   string
		path []string
	}

	visited := map[string]bool{fromID: true}
	queue := []queued{{id: fromID, path: []string{fromID}}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, conn := range f.OutgoingConnections(cur.id) {
			next := conn.Target.ComponentID
			if visited[next] {
				continue
			}
			nextPath := append(append([]string(nil), cur.path...), next)
			if next == toID {
				return resolveComponents(f, nextPath)
			}
			visited[next] = true
			queue = append(queue, queued{id: next, path: nextPath})
		}
	}
	return nil, false
}

func resolveComponents(f flow.Flow, ids []string) ([]flow.Component, bool) {
	out := make([]flow.Component, 0, len(ids))
	for _, id := range ids {
		c, ok := f.Component(id)
		if !ok {
			return nil, false
		}
		out = append(out, c)
	}
	return out, true
}
