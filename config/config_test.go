package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zoobzio/tlsfuzz/config"
	"github.com/zoobzio/tlsfuzz/term"
	"github.com/zoobzio/tlsfuzz/trace"
)

const validYAML = `
agents:
  - name: client
    role: client
    tls_version: "1.2"
    put: openssl
  - name: server
    role: server
    tls_version: "1.2"
    put: openssl
    server_authentication: required
mutator:
  min_term_size: 1
  max_term_size: 64
`

func TestParseConfigAcceptsValidYAML(t *testing.T) {
	cfg, err := config.ParseConfig([]byte(validYAML), "inline")
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if len(cfg.Agents) != 2 {
		t.Fatalf("expected 2 agents, got %d", len(cfg.Agents))
	}
	if cfg.MaxProgressIterations != 16 {
		t.Fatalf("expected default MaxProgressIterations 16, got %d", cfg.MaxProgressIterations)
	}
	if cfg.Agents[0].ClientAuthentication != string(trace.AuthNone) {
		t.Fatalf("expected default client authentication %q, got %q", trace.AuthNone, cfg.Agents[0].ClientAuthentication)
	}
	if cfg.Agents[1].ServerAuthentication != string(trace.AuthRequired) {
		t.Fatalf("expected explicit server authentication preserved, got %q", cfg.Agents[1].ServerAuthentication)
	}
}

func TestParseConfigRejectsNoAgents(t *testing.T) {
	_, err := config.ParseConfig([]byte("agents: []\n"), "inline")
	if err == nil {
		t.Fatal("expected an error for a configuration with no agents")
	}
}

func TestParseConfigRejectsInvalidRole(t *testing.T) {
	yaml := `
agents:
  - name: client
    role: bogus
    put: openssl
`
	_, err := config.ParseConfig([]byte(yaml), "inline")
	if err == nil {
		t.Fatal("expected an error for an invalid role")
	}
}

func TestParseConfigRejectsInvalidAuthenticationMode(t *testing.T) {
	yaml := `
agents:
  - name: server
    role: server
    put: openssl
    server_authentication: bogus
`
	_, err := config.ParseConfig([]byte(yaml), "inline")
	if err == nil {
		t.Fatal("expected an error for an invalid authentication mode")
	}
}

func TestParseConfigRejectsMissingPUT(t *testing.T) {
	yaml := `
agents:
  - name: client
    role: client
`
	_, err := config.ParseConfig([]byte(yaml), "inline")
	if err == nil {
		t.Fatal("expected an error for a missing put field")
	}
}

func TestParseConfigRejectsMinExceedingMax(t *testing.T) {
	yaml := `
agents:
  - name: client
    role: client
    put: openssl
mutator:
  min_term_size: 10
  max_term_size: 2
`
	_, err := config.ParseConfig([]byte(yaml), "inline")
	if err == nil {
		t.Fatal("expected an error when min_term_size exceeds max_term_size")
	}
}

func TestDescriptorsAssignsSequentialAgentNames(t *testing.T) {
	cfg, err := config.ParseConfig([]byte(validYAML), "inline")
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	descs := cfg.Descriptors()
	if len(descs) != 2 {
		t.Fatalf("expected 2 descriptors, got %d", len(descs))
	}
	if descs[0].Name != term.FirstAgentName() {
		t.Fatalf("expected first descriptor to carry the first agent name")
	}
	if descs[1].Name != term.FirstAgentName().Next() {
		t.Fatalf("expected second descriptor to carry the second agent name")
	}
	if descs[0].Role != trace.RoleClient || descs[1].Role != trace.RoleServer {
		t.Fatalf("unexpected roles: %v, %v", descs[0].Role, descs[1].Role)
	}
}

func TestConstraintsReflectsMutatorBounds(t *testing.T) {
	cfg, err := config.ParseConfig([]byte(validYAML), "inline")
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	c := cfg.Constraints()
	if c.MinTermSize != 1 || c.MaxTermSize != 64 {
		t.Fatalf("unexpected constraints: %+v", c)
	}
}

func TestLoadConfigReadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	if err := os.WriteFile(path, []byte(validYAML), 0o644); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(cfg.Agents) != 2 {
		t.Fatalf("expected 2 agents, got %d", len(cfg.Agents))
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := config.LoadConfig("/nonexistent/path/run.yaml")
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
