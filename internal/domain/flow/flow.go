package flow

import "fmt"

// Flow is the tuple (id, name, version, components, connections, metadata):
// a validated DAG of components, the unit of execution.
type Flow struct {
	ID          string
	Name        string
	Version     string
	Description string
	Components  []Component
	Connections []Connection
	Metadata    map[string]Property
}

// Validate enforces the construction-time invariants from spec §3: exactly
// one Start, at least one End, pairwise-unique component/connection ids, no
// self-loops. This mirrors streamy's Pipeline.Validate (per-entity Validate,
// then duplicate-id and dependency checks) but does not perform the
// graph-level checks (endpoint existence, port compatibility, cycles) —
// those require the full validator in internal/validator, which reports
// errors and warnings rather than failing fast on the first problem.
func (f Flow) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("flow id is required")
	}
	if f.Name == "" {
		return fmt.Errorf("flow name is required")
	}

	starts := 0
	ends := 0
	seenComponents := make(map[string]struct{}, len(f.Components))
	for _, c := range f.Components {
		if err := c.Validate(); err != nil {
			return err
		}
		if _, dup := seenComponents[c.ID]; dup {
			return fmt.Errorf("duplicate component id %q", c.ID)
		}
		seenComponents[c.ID] = struct{}{}

		switch c.Kind {
		case KindStart:
			starts++
		case KindEnd:
			ends++
		}
	}
	if starts == 0 {
		return fmt.Errorf("flow requires exactly one start component, found none")
	}
	if starts > 1 {
		return fmt.Errorf("flow requires exactly one start component, found %d", starts)
	}
	if ends == 0 {
		return fmt.Errorf("flow requires at least one end component")
	}

	seenConnections := make(map[string]struct{}, len(f.Connections))
	for _, conn := range f.Connections {
		if err := conn.Validate(); err != nil {
			return err
		}
		if _, dup := seenConnections[conn.ID]; dup {
			return fmt.Errorf("duplicate connection id %q", conn.ID)
		}
		seenConnections[conn.ID] = struct{}{}
	}

	return nil
}

// Start returns the flow's unique Start component. Only meaningful after
// Validate has succeeded.
func (f Flow) Start() (Component, bool) {
	for _, c := range f.Components {
		if c.Kind == KindStart {
			return c, true
		}
	}
	return Component{}, false
}

// Component looks up a component by id.
func (f Flow) Component(id string) (Component, bool) {
	for _, c := range f.Components {
		if c.ID == id {
			return c, true
		}
	}
	return Component{}, false
}

// OutgoingConnections returns connections whose source is componentID, in
// declaration order (the order the document listed them).
func (f Flow) OutgoingConnections(componentID string) []Connection {
	var out []Connection
	for _, conn := range f.Connections {
		if conn.Source.ComponentID == componentID {
			out = append(out, conn)
		}
	}
	return out
}

// IncomingConnections returns connections whose target is componentID.
func (f Flow) IncomingConnections(componentID string) []Connection {
	var out []Connection
	for _, conn := range f.Connections {
		if conn.Target.ComponentID == componentID {
			out = append(out, conn)
		}
	}
	return out
}

// Clone returns a defensive deep copy.
func (f Flow) Clone() Flow {
	components := make([]Component, len(f.Components))
	for i, c := range f.Components {
		components[i] = c.Clone()
	}
	connections := make([]Connection, len(f.Connections))
	copy(connections, f.Connections)
	meta := make(map[string]Property, len(f.Metadata))
	for k, v := range f.Metadata {
		meta[k] = v
	}
	return Flow{
		ID:          f.ID,
		Name:        f.Name,
		Version:     f.Version,
		Description: f.Description,
		Components:  components,
		Connections: connections,
		Metadata:    meta,
	}
}
