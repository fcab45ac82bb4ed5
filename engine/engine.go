// Package engine implements the trace execution engine: for each step,
// evaluate a recipe and deliver it to an agent's inbound stream, or drain and
// extract an agent's outbound messages. TraceContext owns the agents and
// knowledge for one execution and is discarded after the last step.
package engine

import (
	"fmt"
	"time"

	"github.com/zoobzio/tlsfuzz/agent"
	"github.com/zoobzio/tlsfuzz/term"
	"github.com/zoobzio/tlsfuzz/trace"
)

// defaultMaxProgressIterations bounds how many times Progress is called per
// step to drain an agent's state machine to quiescence, unless the context
// overrides it. The Agent/Stream contract exposes no explicit "did work"
// signal distinct from WouldBlock, so the engine drives a bounded number of
// iterations rather than spinning forever on an adapter that never reports
// exhaustion.
const defaultMaxProgressIterations = 16

// Message is the minimal contract a recipe's evaluated value must satisfy to
// be delivered to an agent: wire-encoding to opaque bytes. Concrete protocol
// message types (ClientHello, ServerHello, ...) live in the function-symbol
// catalog, not in this package.
type Message interface {
	Encode() ([]byte, error)
}

// MultiMessage is a container of Messages - the alternative shape a recipe's
// evaluation may produce: a single protocol message, or a container of
// several.
type MultiMessage interface {
	Messages() []Message
}

// Extractor parses one opaque outbound message, appends whatever typed
// sub-values it decomposes into to k under (agent, kind), and reports the
// message kind and whether parsing succeeded. A parse failure is not fatal
// to the trace: the extractor is expected to still record the raw bytes as
// a knowledge observation (e.g. typed as Payload) even when structured
// parsing fails.
type Extractor func(k *trace.Knowledge, agentName term.AgentName, opaque []byte) (kind term.MessageKind, parsed bool)

// MessageResult is the parsed-outbound-message record an Output step
// produces for downstream observers (e.g. a security violation policy).
type MessageResult struct {
	Agent  term.AgentName
	Kind   term.MessageKind
	Opaque []byte
	Parsed bool
}

// TraceContext is the execution context for one run of a Trace: it owns the
// agent set and the knowledge store, and is discarded after the last step.
// Construct a fresh TraceContext per execution - knowledge never carries
// over between runs.
type TraceContext struct {
	Agents    map[term.AgentName]agent.Agent
	Knowledge *trace.Knowledge
	Claims    *trace.ClaimLog
	Extract   Extractor
	Policy    trace.SecurityViolationPolicy

	// MaxProgressIterations bounds how many Progress calls drive an agent
	// per step. NewTraceContext fills in the default; a run configuration's
	// max_progress_iterations setting overrides it. Zero or negative falls
	// back to the default.
	MaxProgressIterations int

	Results []MessageResult
}

// NewTraceContext builds an execution context over a fixed agent set. extract
// performs parsing and knowledge extraction for Output steps; policy, if
// non-nil, is checked against the accumulated claim log after every step.
func NewTraceContext(agents map[term.AgentName]agent.Agent, extract Extractor, policy trace.SecurityViolationPolicy) *TraceContext {
	ctx := &TraceContext{
		Agents:    agents,
		Knowledge: trace.NewKnowledge(),
		Claims:    trace.NewClaimLog(),
		Extract:   extract,
		Policy:    policy,

		MaxProgressIterations: defaultMaxProgressIterations,
	}
	for _, a := range agents {
		a.RegisterClaimListener(ctx.Claims.Listener())
	}
	return ctx
}

// Close releases every agent's native TLS state; dropping the context
// releases all agents.
func (c *TraceContext) Close() {
	for _, a := range c.Agents {
		a.DeregisterClaimListener()
		a.Shutdown()
	}
}

// Run drives every step of tr in order, steps executing strictly in trace
// order, returning the first error encountered. All error kinds
// (Agent, Extraction, Fn, Stream) terminate the run; only a
// SecurityViolationError is the fuzzer's interesting case, and it is
// returned like any other - the caller classifies it via errors.Is.
func (c *TraceContext) Run(tr *trace.Trace) error {
	for i, step := range tr.Steps {
		if err := c.runStep(i, step); err != nil {
			return err
		}
		if c.Policy != nil {
			if violated, detail := c.Policy(c.Claims.All()); violated {
				return &term.SecurityViolationError{Err: term.ErrSecurityViolation, Claim: detail}
			}
		}
	}
	return nil
}

func (c *TraceContext) runStep(idx int, step trace.Step) error {
	start := time.Now()
	actionName := "output"
	if step.Action.Kind == trace.ActionInput {
		actionName = "input"
	}
	emitStepStart(idx, step.Agent.String(), actionName)

	var retErr error
	defer func() {
		emitStepComplete(idx, step.Agent.String(), actionName, time.Since(start), retErr)
	}()

	ag, ok := c.Agents[step.Agent]
	if !ok {
		retErr = &term.AgentError{Err: term.ErrAgent, Agent: step.Agent, Cause: fmt.Errorf("unknown agent %s", step.Agent)}
		return retErr
	}

	switch step.Action.Kind {
	case trace.ActionInput:
		retErr = c.runInput(ag, step.Agent, step.Action.Recipe)
	case trace.ActionOutput:
		retErr = c.runOutput(ag, step.Agent)
	default:
		retErr = &term.TermError{Err: term.ErrTerm, Detail: fmt.Sprintf("step %d: unknown action kind", idx)}
	}
	return retErr
}

// runInput evaluates recipe against the knowledge accumulated so far,
// encodes the resulting message(s) to opaque bytes, appends each to the
// agent's inbound stream in order, and drives the agent forward.
func (c *TraceContext) runInput(ag agent.Agent, name term.AgentName, recipe term.Term) error {
	val, err := recipe.Evaluate(c.Knowledge)
	if err != nil {
		return err
	}

	var msgs []Message
	switch v := val.(type) {
	case Message:
		msgs = []Message{v}
	case MultiMessage:
		msgs = v.Messages()
	default:
		return &term.TermError{Err: term.ErrTerm, Detail: fmt.Sprintf("recipe evaluated to %T, want Message or MultiMessage", val)}
	}

	for _, m := range msgs {
		opaque, err := m.Encode()
		if err != nil {
			return &term.StreamError{Err: term.ErrStream, Agent: name, Cause: err}
		}
		ag.AddToInbound(opaque)
	}

	return c.driveProgress(ag, name)
}

// runOutput drives the agent forward, then drains and extracts every
// deframed outbound message.
func (c *TraceContext) runOutput(ag agent.Agent, name term.AgentName) error {
	if err := c.driveProgress(ag, name); err != nil {
		return err
	}

	for {
		opaque, ok := ag.TakeFromOutbound()
		if !ok {
			break
		}
		kind, parsed := c.Extract(c.Knowledge, name, opaque)
		c.Results = append(c.Results, MessageResult{Agent: name, Kind: kind, Opaque: opaque, Parsed: parsed})
	}
	return nil
}

// driveProgress calls Progress repeatedly, bounded by the context's
// MaxProgressIterations, surfacing the first fatal error as an AgentError.
func (c *TraceContext) driveProgress(ag agent.Agent, name term.AgentName) error {
	limit := c.MaxProgressIterations
	if limit <= 0 {
		limit = defaultMaxProgressIterations
	}
	for i := 0; i < limit; i++ {
		if err := ag.Progress(); err != nil {
			return &term.AgentError{Err: term.ErrAgent, Agent: name, Cause: err}
		}
	}
	return nil
}
