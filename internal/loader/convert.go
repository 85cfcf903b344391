package loader

import (
	"fmt"

	"github.com/flowcore/flowcore/internal/domain/flow"
	"github.com/flowcore/flowcore/pkg/flowerr"
	"github.com/flowcore/flowcore/pkg/value"
)

// convert maps intermediate flow-document definitions to the domain model,
// per spec §4.1 step 5: map each component's type tag (case-insensitive) to
// its Kind, surfacing UNKNOWN_COMPONENT_TYPE for anything else. Property
// conversion is total here; missing required properties are a validator
// concern (step 6), not a conversion failure.
func convert(fd flowDoc) (flow.Flow, []*flowerr.Error) {
	var errs []*flowerr.Error

	components := make([]flow.Component, 0, len(fd.Components))
	for i, cd := range fd.Components {
		path := fmt.Sprintf("flow.components[%d]", i)

		kind, ok := flow.ParseKind(cd.Type)
		if !ok {
			errs = append(errs, flowerr.Newf(flowerr.CodeUnknownComponentType, "component %q has unknown type %q", cd.ID, cd.Type).WithPath(path+".type"))
			continue
		}

		props, err := decodePropertyMap(cd.Properties)
		if err != nil {
			errs = append(errs, flowerr.Wrap(flowerr.CodeInvalidFlow, "failed to decode component properties", err).WithPath(path+".properties"))
			continue
		}

		meta := flow.Metadata{}
		if cd.Position != nil {
			meta.PositionX = cd.Position.X
			meta.PositionY = cd.Position.Y
			meta.HasPosition = true
		}

		comp := flow.Component{
			ID:         cd.ID,
			Kind:       kind,
			Name:       cd.Name,
			Properties: props,
			Meta:       meta,
		}

		if kind == flow.KindFork {
			comp.ForkBranches = forkBranchCount(props)
		}
		if kind == flow.KindJoin {
			comp.JoinInputs = joinInputCount(props)
			comp.Mode = joinModeOf(props)
		}

		components = append(components, comp)
	}

	connections := make([]flow.Connection, 0, len(fd.Connections))
	for i, cn := range fd.Connections {
		path := fmt.Sprintf("flow.connections[%d]", i)
		meta, err := decodePropertyMap(cn.Metadata)
		if err != nil {
			errs = append(errs, flowerr.Wrap(flowerr.CodeInvalidFlow, "failed to decode connection metadata", err).WithPath(path+".metadata"))
			continue
		}
		connections = append(connections, flow.Connection{
			ID:       cn.ID,
			Source:   flow.Endpoint{ComponentID: cn.Source.ComponentID, PortID: cn.Source.PortID},
			Target:   flow.Endpoint{ComponentID: cn.Target.ComponentID, PortID: cn.Target.PortID},
			Metadata: meta,
		})
	}

	flowMeta, err := decodePropertyMap(fd.Metadata)
	if err != nil {
		errs = append(errs, flowerr.Wrap(flowerr.CodeInvalidFlow, "failed to decode flow metadata", err).WithPath("flow.metadata"))
	}

	f := flow.Flow{
		ID:          fd.ID,
		Name:        fd.Name,
		Version:     fd.Version,
		Description: fd.Description,
		Components:  components,
		Connections: connections,
		Metadata:    flowMeta,
	}

	return f, errs
}

// forkBranchCount reads a Fork's declared "branches" property (a number),
// defaulting to 2 (the minimum) when absent — the property name is not
// pinned by the wire format, only the requirement that a count exists.
func forkBranchCount(props map[string]value.ComponentProperty) int {
	if props == nil {
		return 2
	}
	if p, ok := props["branches"]; ok {
		if n, ok := p.NumberValue(); ok {
			return int(n)
		}
	}
	return 2
}

// joinInputCount reads a Join's declared "inputs" property (a number),
// defaulting to 2 (the minimum) when absent.
func joinInputCount(props map[string]value.ComponentProperty) int {
	if props == nil {
		return 2
	}
	if p, ok := props["inputs"]; ok {
		if n, ok := p.NumberValue(); ok {
			return int(n)
		}
	}
	return 2
}

// joinModeOf reads a Join's declared "mode" property, defaulting to ALL
// (the conservative synchronization strategy) when absent or unrecognized.
func joinModeOf(props map[string]value.ComponentProperty) flow.JoinMode {
	if props == nil {
		return flow.JoinAll
	}
	p, ok := props["mode"]
	if !ok {
		return flow.JoinAll
	}
	s, ok := p.StringValue()
	if !ok {
		return flow.JoinAll
	}
	switch flow.JoinMode(s) {
	case flow.JoinAll, flow.JoinAny, flow.JoinNOfM:
		return flow.JoinMode(s)
	default:
		return flow.JoinAll
	}
}
