// Package trace implements the trace model: agents, steps, traces, and the
// per-agent knowledge store that accumulates typed observations extracted
// from received protocol messages.
package trace

import "github.com/zoobzio/tlsfuzz/term"

// AgentRole distinguishes which side of the handshake an agent plays.
type AgentRole string

// Agent roles.
const (
	RoleClient AgentRole = "client"
	RoleServer AgentRole = "server"
)

// AuthenticationMode describes whether and how an agent authenticates its
// peer.
type AuthenticationMode string

// Authentication modes.
const (
	AuthNone     AuthenticationMode = "none"
	AuthOptional AuthenticationMode = "optional"
	AuthRequired AuthenticationMode = "required"
)

// AgentDescriptor states an agent's role, TLS version, requested
// authentication modes, and PUT selection - the trace preamble.
type AgentDescriptor struct {
	Name                 term.AgentName
	Role                 AgentRole
	TLSVersion           string
	ClientAuthentication AuthenticationMode
	ServerAuthentication AuthenticationMode
	PUTName              string
	PUTOptions           map[string]string
}
