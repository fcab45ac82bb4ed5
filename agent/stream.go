// Package agent fixes the minimal contract between the execution engine and
// an external TLS-library-under-test adapter. No concrete adapter ships here
// - OpenSSL, WolfSSL, and TCP transports are out of scope - only the
// interface every adapter must satisfy.
package agent

import "github.com/zoobzio/tlsfuzz/trace"

// Stream is the buffer-level half of the contract: opaque bytes in, opaque
// bytes out. An Agent embeds a Stream and drives it with Progress.
type Stream interface {
	// AddToInbound appends an opaque message to the stream's inbound buffer.
	AddToInbound(opaque []byte)
	// TakeFromOutbound pops the next deframed opaque message from the
	// stream's outbound buffer, or false if none is pending.
	TakeFromOutbound() ([]byte, bool)
}

// Agent wraps one TLS-library-under-test instance. Implementations own
// native TLS state and must release it on every exit path: a drop hook
// deregisters claim listeners and releases library handles.
type Agent interface {
	Stream

	// Progress advances the TLS state machine, consuming inbound bytes and
	// producing outbound bytes. Returns nil on progress or when the stream
	// has nothing further to do (a WouldBlock-equivalent); a non-nil error
	// signals a fatal TLS error.
	Progress() error

	// Reset restores the agent to its initial state, discarding buffered
	// bytes and TLS state.
	Reset() error

	// DescribeState returns a textual representation of the agent's current
	// TLS state, for diagnostics.
	DescribeState() string

	// IsStateSuccessful reports whether the agent's TLS state machine has
	// reached a successful (handshake-complete) state.
	IsStateSuccessful() bool

	// Shutdown releases the agent's native TLS state and returns a textual
	// summary of the final state. Idempotent.
	Shutdown() string

	// RegisterClaimListener and DeregisterClaimListener hook the agent's
	// security-instrumentation callback. The claims API itself is out of
	// scope here; claims only need to accumulate into a per-trace list. A
	// nil listener deregisters.
	RegisterClaimListener(trace.ClaimListener)
	DeregisterClaimListener()
}
