package trace

import (
	"sync"

	"github.com/zoobzio/tlsfuzz/term"
)

// ClaimData is one of the two payload shapes a Claim may carry.
type ClaimData struct {
	// Transcript claims carry a named transcript hash snapshot.
	TranscriptKind string
	TranscriptData []byte

	// Message claims carry named fields extracted from a protocol message by
	// the security-instrumentation listener (not the knowledge store).
	MessageKind   string
	MessageFields map[string]string
}

// Claim is a security-instrumentation record extracted from a TLS library's
// registered listener - delivered out-of-band from the wire, never as a
// knowledge-store observation.
type Claim struct {
	Agent      term.AgentName
	Origin     string
	TLSVersion string
	Data       ClaimData
}

// ClaimListener receives Claim records as an agent's TLS library emits them.
// The claims API itself is out of scope here; claims only need to
// accumulate into a per-trace list reachable by a security violation policy
// predicate.
type ClaimListener func(Claim)

// ClaimLog is the per-trace, append-only list of accumulated claims.
type ClaimLog struct {
	mu     sync.Mutex
	claims []Claim
}

// NewClaimLog returns an empty claim log.
func NewClaimLog() *ClaimLog {
	return &ClaimLog{}
}

// Listener returns a ClaimListener that appends to this log - suitable for
// registration with an Agent's claim-listener hook.
func (l *ClaimLog) Listener() ClaimListener {
	return func(c Claim) {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.claims = append(l.claims, c)
	}
}

// All returns a snapshot copy of every claim recorded so far, in arrival
// order.
func (l *ClaimLog) All() []Claim {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Claim, len(l.claims))
	copy(out, l.claims)
	return out
}

// SecurityViolationPolicy is a boolean predicate over the accumulated claim
// list, checked by the execution engine after every step. The predicate's
// construction is out of scope; the engine only requires that it can be
// evaluated against a claim snapshot.
type SecurityViolationPolicy func(claims []Claim) (violated bool, detail string)
