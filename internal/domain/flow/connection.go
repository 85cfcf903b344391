package flow

import "fmt"

// Endpoint identifies a port on a named component.
type Endpoint struct {
	ComponentID string
	PortID      string
}

// Connection directs an output port of a source component to an input port
// of a target component.
type Connection struct {
	ID       string
	Source   Endpoint
	Target   Endpoint
	Metadata map[string]Property
}

// Validate enforces the connection-local invariants from spec §3: non-blank
// id, distinct endpoints. Endpoint existence and port/type compatibility
// are graph-level checks performed by the validator, which has the full
// component set to resolve against.
func (c Connection) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("connection id is required")
	}
	if c.Source.ComponentID == "" || c.Target.ComponentID == "" {
		return fmt.Errorf("connection %s: source and target component ids are required", c.ID)
	}
	if c.Source.ComponentID == c.Target.ComponentID {
		return fmt.Errorf("connection %s: self-loops are not allowed", c.ID)
	}
	return nil
}
