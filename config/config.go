// Package config loads the YAML run configuration describing a trace's
// agents, their TLS library (PUT) selection and options, and the term-size
// bounds mutators must stay within.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zoobzio/tlsfuzz/term"
	"github.com/zoobzio/tlsfuzz/trace"
)

// AgentConfig describes one trace participant.
type AgentConfig struct {
	Name                 string            `yaml:"name"`
	Role                 string            `yaml:"role"`
	TLSVersion           string            `yaml:"tls_version"`
	ClientAuthentication string            `yaml:"client_authentication,omitempty"`
	ServerAuthentication string            `yaml:"server_authentication,omitempty"`
	PUTName              string            `yaml:"put"`
	PUTOptions           map[string]string `yaml:"put_options,omitempty"`
}

// MutatorConfig bounds the term sizes mutators are allowed to sample.
type MutatorConfig struct {
	MinTermSize int `yaml:"min_term_size"`
	MaxTermSize int `yaml:"max_term_size"`
}

// Config is the top-level run configuration.
type Config struct {
	Agents                []AgentConfig `yaml:"agents"`
	Mutator               MutatorConfig `yaml:"mutator"`
	MaxProgressIterations int           `yaml:"max_progress_iterations,omitempty"`
}

// defaultMaxProgressIterations mirrors the engine's default bound so a
// config that omits the field inherits the same ceiling. The parsed value is
// consumed by assigning it to TraceContext.MaxProgressIterations.
const defaultMaxProgressIterations = 16

// LoadConfig reads and parses a run configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses run configuration content from bytes. The path
// argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

func (c *Config) validate(path string) error {
	if len(c.Agents) == 0 {
		return fmt.Errorf("config: %s: no agents defined", path)
	}
	if c.Mutator.MaxTermSize != 0 && c.Mutator.MinTermSize > c.Mutator.MaxTermSize {
		return fmt.Errorf("config: %s: mutator.min_term_size (%d) exceeds mutator.max_term_size (%d)",
			path, c.Mutator.MinTermSize, c.Mutator.MaxTermSize)
	}
	for i, a := range c.Agents {
		if a.Name == "" {
			return fmt.Errorf("config: %s: agents[%d]: name is required", path, i)
		}
		switch trace.AgentRole(a.Role) {
		case trace.RoleClient, trace.RoleServer:
		default:
			return fmt.Errorf("config: %s: agents[%d] (%s): role must be %q or %q, got %q",
				path, i, a.Name, trace.RoleClient, trace.RoleServer, a.Role)
		}
		if a.PUTName == "" {
			return fmt.Errorf("config: %s: agents[%d] (%s): put is required", path, i, a.Name)
		}
		for _, mode := range []string{a.ClientAuthentication, a.ServerAuthentication} {
			if mode == "" {
				continue
			}
			switch trace.AuthenticationMode(mode) {
			case trace.AuthNone, trace.AuthOptional, trace.AuthRequired:
			default:
				return fmt.Errorf("config: %s: agents[%d] (%s): unknown authentication mode %q", path, i, a.Name, mode)
			}
		}
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.MaxProgressIterations == 0 {
		c.MaxProgressIterations = defaultMaxProgressIterations
	}
	for i := range c.Agents {
		if c.Agents[i].ClientAuthentication == "" {
			c.Agents[i].ClientAuthentication = string(trace.AuthNone)
		}
		if c.Agents[i].ServerAuthentication == "" {
			c.Agents[i].ServerAuthentication = string(trace.AuthNone)
		}
	}
}

// Descriptors builds the trace.AgentDescriptor list this configuration
// describes, assigning AgentNames in declaration order starting from
// term.FirstAgentName.
func (c *Config) Descriptors() []trace.AgentDescriptor {
	out := make([]trace.AgentDescriptor, len(c.Agents))
	name := term.FirstAgentName()
	for i, a := range c.Agents {
		out[i] = trace.AgentDescriptor{
			Name:                 name,
			Role:                 trace.AgentRole(a.Role),
			TLSVersion:           a.TLSVersion,
			ClientAuthentication: trace.AuthenticationMode(a.ClientAuthentication),
			ServerAuthentication: trace.AuthenticationMode(a.ServerAuthentication),
			PUTName:              a.PUTName,
			PUTOptions:           a.PUTOptions,
		}
		name = name.Next()
	}
	return out
}

// Constraints builds the term.TermConstraints a mutator run should honor.
func (c *Config) Constraints() term.TermConstraints {
	return term.TermConstraints{MinTermSize: c.Mutator.MinTermSize, MaxTermSize: c.Mutator.MaxTermSize}
}
