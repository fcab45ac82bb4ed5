package trace

import (
	"fmt"
	"sync"

	"github.com/zoobzio/tlsfuzz/term"
)

// Observation is a single typed value entered into the knowledge store,
// tagged with the agent and message kind it was extracted from.
type Observation struct {
	Agent term.AgentName
	Kind  term.MessageKind
	Type  term.TypeShape
	Value any
}

// Knowledge is a per-trace-execution, per-agent append-only table of typed
// observations. Cleared when the trace restarts (construct a fresh
// Knowledge per TraceContext).
type Knowledge struct {
	mu  sync.Mutex
	obs []Observation
}

// NewKnowledge returns an empty knowledge store.
func NewKnowledge() *Knowledge {
	return &Knowledge{}
}

// Append records a single observation. Append-only: there is no remove or
// update operation, matching the invariant that knowledge never shrinks or
// changes within a trace execution.
func (k *Knowledge) Append(agent term.AgentName, kind term.MessageKind, t term.TypeShape, value any) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.obs = append(k.obs, Observation{Agent: agent, Kind: kind, Type: t, Value: value})
}

// Resolve implements term.KnowledgeStore: it selects the q.Counter-th value
// among entries from agent q.Agent whose containing message matched
// q.MessageKind (or, if nil, the flat count across all kinds) and whose type
// equals t. The search order is insertion order, making resolution
// deterministic for a fixed sequence of Append calls.
func (k *Knowledge) Resolve(q term.QueryId, t term.TypeShape) (any, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	count := uint16(0)
	for _, o := range k.obs {
		if o.Agent != q.Agent {
			continue
		}
		if q.MessageKind != nil && o.Kind != *q.MessageKind {
			continue
		}
		if !o.Type.Equal(t) {
			continue
		}
		if count == q.Counter {
			return o.Value, nil
		}
		count++
	}

	kind := "any"
	if q.MessageKind != nil {
		kind = string(*q.MessageKind)
	}
	return nil, fmt.Errorf("no observation at counter %d for agent %s kind %s type %s", q.Counter, q.Agent, kind, t)
}

func (k *Knowledge) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.obs)
}

// All returns a snapshot copy of every observation recorded so far, in
// insertion order. Used by tests asserting knowledge determinism.
func (k *Knowledge) All() []Observation {
	k.mu.Lock()
	defer k.mu.Unlock()
	out := make([]Observation, len(k.obs))
	copy(out, k.obs)
	return out
}

// CountFor returns how many observations exist for (agent, kind, type) -
// equivalently, the next counter value NewVariable-ing against this filter
// would need to use to reach a fresh, never-yet-observed slot.
func (k *Knowledge) CountFor(agent term.AgentName, kind *term.MessageKind, t term.TypeShape) uint16 {
	k.mu.Lock()
	defer k.mu.Unlock()
	var n uint16
	for _, o := range k.obs {
		if o.Agent != agent {
			continue
		}
		if kind != nil && o.Kind != *kind {
			continue
		}
		if !o.Type.Equal(t) {
			continue
		}
		n++
	}
	return n
}
