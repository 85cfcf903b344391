// Package hostconfig loads the YAML document describing how a flowctl
// process wires itself up: which built-in host services are registered
// under which names and which observers (logging/metrics/tracing/hooks)
// are attached to an execution. log_level and log_format are validated
// here, but flowctl does not apply them: its ambient logger takes its level
// from the --verbose flag. Grounded on streamy's internal/config (ParseConfig's
// read-then-unmarshal-then-validate shape, struct-tag validation via
// go-playground/validator) repointed at this different document shape.
package hostconfig

import (
	"fmt"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the root host-runtime configuration document.
type Config struct {
	LogLevel      string         `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	LogFormat     string         `yaml:"log_format" validate:"omitempty,oneof=text json"`
	HostServices  []ServiceEntry `yaml:"host_services" validate:"required,min=1,dive"`
	Observers     ObserverConfig `yaml:"observers"`
	BreakpointCap int            `yaml:"iteration_cap,omitempty" validate:"omitempty,min=1"`
}

// ServiceEntry names a built-in host service to register and the name
// Action components address it by.
type ServiceEntry struct {
	Name string `yaml:"name" validate:"required"`
	Kind string `yaml:"kind" validate:"required,oneof=command template repo filesystem"`
}

// ObserverConfig toggles which Observer implementations an execution
// attaches.
type ObserverConfig struct {
	Logging bool `yaml:"logging"`
	Metrics bool `yaml:"metrics"`
	Tracing bool `yaml:"tracing"`
	Hooks   bool `yaml:"hooks"`
}

var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New()
	})
	return validatorInst
}

// Load reads and validates a host-runtime config document from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("hostconfig: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("hostconfig: parse %s: %w", path, err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate runs struct-tag validation plus the cross-field checks a
// struct tag can't express (duplicate service names).
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("hostconfig: config is nil")
	}

	v := validatorInstance()
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("hostconfig: %w", err)
	}

	seen := make(map[string]struct{}, len(cfg.HostServices))
	for _, entry := range cfg.HostServices {
		if _, exists := seen[entry.Name]; exists {
			return fmt.Errorf("hostconfig: duplicate host service name %q", entry.Name)
		}
		seen[entry.Name] = struct{}{}
	}

	return nil
}
