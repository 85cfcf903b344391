package flow

import "github.com/flowcore/flowcore/pkg/value"

// Property is a component's static configuration value: any ComponentProperty
// variant, including Expression.
type Property = value.ComponentProperty
