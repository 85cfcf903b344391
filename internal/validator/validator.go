// Package validator runs the structural, connection, and graph checks of
// spec §4.2 over an already-constructed domain Flow, producing a fail-fast
// free, fail-aggregate result: every independent error is collected in one
// pass (no I/O, pure function), following streamy's
// internal/validation.RunValidations accumulation style generalized from a
// flat validation list to the flow's component/connection graph.
package validator

import (
	"fmt"

	"github.com/flowcore/flowcore/internal/domain/flow"
	"github.com/flowcore/flowcore/internal/graph"
	"github.com/flowcore/flowcore/pkg/flowerr"
)

// Warning is a non-fatal finding attached to a successful validation.
type Warning struct {
	Code    flowerr.Code
	Message string
	Path    string
}

// Result is the validator's output: zero errors means the flow is safe to
// execute; warnings never block execution.
type Result struct {
	Errors   []*flowerr.Error
	Warnings []Warning
}

func (r *Result) addErr(e *flowerr.Error) {
	r.Errors = append(r.Errors, e)
}

func (r *Result) addWarn(code flowerr.Code, path, message string) {
	r.Warnings = append(r.Warnings, Warning{Code: code, Message: message, Path: path})
}

// Valid reports whether the flow passed with no fatal errors.
func (r Result) Valid() bool { return len(r.Errors) == 0 }

// Validate runs every structural, connection, and graph check over f and
// returns the accumulated errors and warnings.
func Validate(f flow.Flow) Result {
	var result Result

	validateStructure(f, &result)
	validateConnections(f, &result)
	validateGraph(f, &result)
	collectWarnings(f, &result)

	return result
}

func validateStructure(f flow.Flow, result *Result) {
	starts := 0
	ends := 0
	seenIDs := make(map[string]struct{}, len(f.Components))

	for i, c := range f.Components {
		path := fmt.Sprintf("flow.components[%d]", i)

		if c.ID == "" {
			result.addErr(flowerr.New(flowerr.CodeBlankComponentID, "component id must not be blank").WithPath(path))
		} else if _, dup := seenIDs[c.ID]; dup {
			result.addErr(flowerr.Newf(flowerr.CodeDuplicateComponentID, "duplicate component id %q", c.ID).WithPath(path + ".id"))
		} else {
			seenIDs[c.ID] = struct{}{}
		}

		if c.Name == "" {
			result.addErr(flowerr.New(flowerr.CodeBlankComponentName, "component name must not be blank").WithPath(path + ".name"))
		}

		switch c.Kind {
		case flow.KindStart:
			starts++
		case flow.KindEnd:
			ends++
		case flow.KindAction:
			if _, ok := c.Properties["service"]; !ok {
				result.addErr(flowerr.Newf(flowerr.CodeMissingServiceProperty, "action %q is missing required property %q", c.ID, "service").WithPath(path + ".properties.service"))
			}
			if _, ok := c.Properties["method"]; !ok {
				result.addErr(flowerr.Newf(flowerr.CodeMissingMethodProperty, "action %q is missing required property %q", c.ID, "method").WithPath(path + ".properties.method"))
			}
		case flow.KindDecision:
			if _, ok := c.Properties["condition"]; !ok {
				result.addErr(flowerr.Newf(flowerr.CodeMissingConditionProperty, "decision %q is missing required property %q", c.ID, "condition").WithPath(path + ".properties.condition"))
			}
		}
	}

	if starts == 0 {
		result.addErr(flowerr.New(flowerr.CodeMissingStartComponent, "flow has no start component").WithPath("flow.components"))
	} else if starts > 1 {
		result.addErr(flowerr.Newf(flowerr.CodeMultipleStartComponents, "flow has %d start components, expected exactly one", starts).WithPath("flow.components"))
	}
	if ends == 0 {
		result.addErr(flowerr.New(flowerr.CodeMissingEndComponent, "flow has no end component").WithPath("flow.components"))
	}

	seenConnIDs := make(map[string]struct{}, len(f.Connections))
	for i, conn := range f.Connections {
		path := fmt.Sprintf("flow.connections[%d]", i)
		if conn.ID == "" {
			continue
		}
		if _, dup := seenConnIDs[conn.ID]; dup {
			result.addErr(flowerr.Newf(flowerr.CodeDuplicateConnectionID, "duplicate connection id %q", conn.ID).WithPath(path + ".id"))
		} else {
			seenConnIDs[conn.ID] = struct{}{}
		}
	}
}

func validateConnections(f flow.Flow, result *Result) {
	for i, conn := range f.Connections {
		path := fmt.Sprintf("flow.connections[%d]", i)

		if conn.Source.ComponentID == conn.Target.ComponentID {
			result.addErr(flowerr.Newf(flowerr.CodeSelfConnection, "connection %q: source and target component are the same (%q)", conn.ID, conn.Source.ComponentID).WithPath(path))
			continue
		}

		source, ok := f.Component(conn.Source.ComponentID)
		if !ok {
			result.addErr(flowerr.Newf(flowerr.CodeInvalidSourceComponent, "connection %q: unknown source component %q", conn.ID, conn.Source.ComponentID).WithPath(path + ".source.componentId"))
			continue
		}
		target, ok := f.Component(conn.Target.ComponentID)
		if !ok {
			result.addErr(flowerr.Newf(flowerr.CodeInvalidTargetComponent, "connection %q: unknown target component %q", conn.ID, conn.Target.ComponentID).WithPath(path + ".target.componentId"))
			continue
		}

		srcPort, ok := source.FindOutputPort(conn.Source.PortID)
		if !ok {
			result.addErr(flowerr.Newf(flowerr.CodeInvalidSourcePort, "connection %q: component %q has no output port %q", conn.ID, source.ID, conn.Source.PortID).WithPath(path + ".source.portId"))
			continue
		}
		tgtPort, ok := target.FindInputPort(conn.Target.PortID)
		if !ok {
			result.addErr(flowerr.Newf(flowerr.CodeInvalidTargetPort, "connection %q: component %q has no input port %q", conn.ID, target.ID, conn.Target.PortID).WithPath(path + ".target.portId"))
			continue
		}

		if !flow.TypesCompatible(srcPort.Type, tgtPort.Type) {
			result.addErr(flowerr.Newf(flowerr.CodeIncompatiblePortTypes, "connection %q: incompatible port types %s -> %s", conn.ID, srcPort.Type, tgtPort.Type).WithPath(path))
		}
	}
}

func validateGraph(f flow.Flow, result *Result) {
	for _, cycle := range graph.DetectCycles(f) {
		result.addErr(flowerr.Newf(flowerr.CodeCycleDetected, "cycle detected: %s", cycle.String()).WithPath("flow.connections"))
	}
}

func collectWarnings(f flow.Flow, result *Result) {
	start, hasStart := f.Start()

	for _, c := range f.Components {
		inbound := len(f.IncomingConnections(c.ID))
		outbound := len(f.OutgoingConnections(c.ID))

		exemptInbound := c.Kind == flow.KindStart
		exemptOutbound := c.Kind == flow.KindEnd

		if inbound == 0 && outbound == 0 && !(exemptInbound && exemptOutbound) {
			result.addWarn(flowerr.CodeOrphanComponent, fmt.Sprintf("flow.components[id=%s]", c.ID), fmt.Sprintf("component %q has no inbound or outbound connections", c.ID))
			continue
		}
		if inbound == 0 && !exemptInbound {
			result.addWarn(flowerr.CodeOrphanComponent, fmt.Sprintf("flow.components[id=%s]", c.ID), fmt.Sprintf("component %q has no inbound connections", c.ID))
		}
		if outbound == 0 && !exemptOutbound {
			result.addWarn(flowerr.CodeOrphanComponent, fmt.Sprintf("flow.components[id=%s]", c.ID), fmt.Sprintf("component %q has no outbound connections", c.ID))
		}

		for _, port := range c.InputPorts() {
			if !port.Required {
				continue
			}
			if c.Kind == flow.KindStart || c.Kind == flow.KindEnd {
				continue
			}
			connected := false
			for _, conn := range f.IncomingConnections(c.ID) {
				if conn.Target.PortID == port.ID {
					connected = true
					break
				}
			}
			if !connected {
				result.addWarn(flowerr.CodeRequiredPortNotConnected, fmt.Sprintf("flow.components[id=%s]", c.ID), fmt.Sprintf("component %q: required input port %q has no connection", c.ID, port.ID))
			}
		}
	}

	if hasStart {
		for _, c := range f.Components {
			if c.Kind != flow.KindEnd {
				continue
			}
			if _, reachable := graph.FindPath(f, start.ID, c.ID); !reachable {
				result.addWarn(flowerr.CodeUnreachableEndComponent, fmt.Sprintf("flow.components[id=%s]", c.ID), fmt.Sprintf("end component %q is not reachable from start", c.ID))
			}
		}
	}
}
