package term

import "fmt"

// AgentName is a small opaque identifier for a symbolic trace participant.
// One byte suffices; equality is by identity.
type AgentName uint8

// FirstAgentName returns the sentinel first agent name.
func FirstAgentName() AgentName { return AgentName(0) }

// Next yields a fresh agent name following n.
func (n AgentName) Next() AgentName { return n + 1 }

func (n AgentName) String() string { return fmt.Sprintf("agent-%d", uint8(n)) }

// MessageKind names the structural kind of a decomposed protocol message
// (e.g. "ClientHello"), used to disambiguate observation counters within an
// agent's knowledge.
type MessageKind string

// QueryId identifies which observation to bind to a Variable. Counter
// disambiguates repeated messages of the same kind from the same agent
// within a trace.
type QueryId struct {
	Agent       AgentName
	MessageKind *MessageKind
	Counter     uint16
}

// Variable is a placeholder resolved at evaluation time against a
// KnowledgeStore.
type Variable struct {
	Type  TypeShape
	Query QueryId
}

// NewVariable mints a Variable from a TypeShape and QueryId.
func NewVariable(t TypeShape, q QueryId) *Variable {
	return &Variable{Type: t, Query: q}
}

// KnowledgeStore resolves a Variable's query against accumulated knowledge.
// Declared here - rather than importing package trace - so the term algebra
// has no dependency on the trace model; only the trace model depends on the
// term algebra.
type KnowledgeStore interface {
	Resolve(q QueryId, t TypeShape) (any, error)
}

// Term is a typed expression in the algebra: a Variable or an Application.
type Term interface {
	// OutputType is the TypeShape the term evaluates to.
	OutputType() TypeShape
	// Evaluate computes an erased value against the given knowledge. For an
	// Application, children are evaluated strictly left-to-right with no
	// short-circuit.
	Evaluate(k KnowledgeStore) (any, error)
	// Clone returns a deep, independent copy of the term.
	Clone() Term

	children() []Term
	withChildren(children []Term) Term
}

func (v *Variable) OutputType() TypeShape { return v.Type }

// Evaluate implements Term for Variable: look up the observation whose
// (agent, message_kind, counter, type) matches the query and type shape.
func (v *Variable) Evaluate(k KnowledgeStore) (any, error) {
	val, err := k.Resolve(v.Query, v.Type)
	if err != nil {
		return nil, &ExtractionError{Err: ErrExtraction, Query: v.Query, Type: v.Type, Cause: err}
	}
	return val, nil
}

func (v *Variable) Clone() Term { return &Variable{Type: v.Type, Query: v.Query} }

func (v *Variable) children() []Term { return nil }

func (v *Variable) withChildren(children []Term) Term {
	if len(children) != 0 {
		panic("term: Variable.withChildren called with non-empty children")
	}
	return v.Clone()
}

// Application applies a dynamic function to an ordered list of typed child
// terms. Structural invariant: len(Children) == len(Shape.ArgumentTypes), and
// each child's output type equals the corresponding ArgumentTypes[i].
type Application struct {
	Function DynamicFunction
	Shape    DynamicFunctionShape
	Children []Term
}

// NewApplication builds an Application from a FunctionDefinition and
// already-typed children, rejecting arity or type mismatches.
func NewApplication(def FunctionDefinition, children ...Term) (*Application, error) {
	if len(children) != len(def.Shape.ArgumentTypes) {
		return nil, &TermError{Err: ErrTerm, Detail: fmt.Sprintf("%s: expected %d children, got %d", def.Shape.Name, len(def.Shape.ArgumentTypes), len(children))}
	}
	for i, c := range children {
		if !c.OutputType().Equal(def.Shape.ArgumentTypes[i]) {
			return nil, &TermError{Err: ErrTerm, Detail: fmt.Sprintf("%s: child %d has output type %s, want %s", def.Shape.Name, i, c.OutputType(), def.Shape.ArgumentTypes[i])}
		}
	}
	return &Application{Function: def.Fn, Shape: def.Shape, Children: children}, nil
}

func (a *Application) OutputType() TypeShape { return a.Shape.ReturnType }

func (a *Application) Evaluate(k KnowledgeStore) (any, error) {
	args := make([]any, len(a.Children))
	for i, c := range a.Children {
		v, err := c.Evaluate(k)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return a.Function(args)
}

func (a *Application) Clone() Term {
	children := make([]Term, len(a.Children))
	for i, c := range a.Children {
		children[i] = c.Clone()
	}
	return &Application{Function: a.Function, Shape: a.Shape, Children: children}
}

func (a *Application) children() []Term { return a.Children }

func (a *Application) withChildren(children []Term) Term {
	if len(children) != len(a.Children) {
		panic("term: Application.withChildren called with wrong arity")
	}
	cp := make([]Term, len(children))
	copy(cp, children)
	return &Application{Function: a.Function, Shape: a.Shape, Children: cp}
}
