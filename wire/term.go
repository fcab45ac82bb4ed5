// Package wire is the self-describing wire representation of terms and
// traces: function symbols and types referenced by name rather than by the
// live DynamicFunction closures term.Application carries, so a Codec can
// marshal/unmarshal a trace without encoding Go closures. Decoding resolves
// every name against an active term.Signature; an unknown name yields
// term.ErrMalformed.
package wire

import (
	"fmt"

	"github.com/zoobzio/tlsfuzz/term"
)

// Term kinds.
const (
	KindApplication = "application"
	KindVariable    = "variable"
)

// Term is the wire form of a term.Term: either a named function applied to
// wire children, or a typed query against an agent's knowledge.
type Term struct {
	Kind        string         `json:"kind" yaml:"kind"`
	Function    string         `json:"function,omitempty" yaml:"function,omitempty"`
	Children    []Term         `json:"children,omitempty" yaml:"children,omitempty"`
	Type        string         `json:"type,omitempty" yaml:"type,omitempty"`
	Agent       term.AgentName `json:"agent,omitempty" yaml:"agent,omitempty"`
	MessageKind *string        `json:"message_kind,omitempty" yaml:"message_kind,omitempty"`
	Counter     uint16         `json:"counter,omitempty" yaml:"counter,omitempty"`
}

// FromTerm converts a live term.Term into its wire form.
func FromTerm(t term.Term) (Term, error) {
	switch n := t.(type) {
	case *term.Application:
		children := make([]Term, len(n.Children))
		for i, c := range n.Children {
			wc, err := FromTerm(c)
			if err != nil {
				return Term{}, err
			}
			children[i] = wc
		}
		return Term{Kind: KindApplication, Function: n.Shape.Name, Children: children}, nil

	case *term.Variable:
		var kind *string
		if n.Query.MessageKind != nil {
			s := string(*n.Query.MessageKind)
			kind = &s
		}
		return Term{
			Kind:        KindVariable,
			Type:        n.Type.Name(),
			Agent:       n.Query.Agent,
			MessageKind: kind,
			Counter:     n.Query.Counter,
		}, nil

	default:
		return Term{}, &term.MalformedError{Err: term.ErrMalformed, Detail: fmt.Sprintf("wire: unknown term implementation %T", t)}
	}
}

// ToTerm resolves a wire Term back into a live term.Term against sig,
// failing with term.ErrMalformed on any unknown function or type name.
func ToTerm(w Term, sig *term.Signature) (term.Term, error) {
	switch w.Kind {
	case KindApplication:
		def, ok := sig.LookupByName(w.Function)
		if !ok {
			return nil, &term.MalformedError{Err: term.ErrMalformed, Detail: fmt.Sprintf("wire: unknown function symbol %q", w.Function)}
		}
		children := make([]term.Term, len(w.Children))
		for i, c := range w.Children {
			ct, err := ToTerm(c, sig)
			if err != nil {
				return nil, err
			}
			children[i] = ct
		}
		return term.NewApplication(def, children...)

	case KindVariable:
		t, ok := sig.TypeByName(w.Type)
		if !ok {
			return nil, &term.MalformedError{Err: term.ErrMalformed, Detail: fmt.Sprintf("wire: unknown type %q", w.Type)}
		}
		var kind *term.MessageKind
		if w.MessageKind != nil {
			k := term.MessageKind(*w.MessageKind)
			kind = &k
		}
		return term.NewVariable(t, term.QueryId{Agent: w.Agent, MessageKind: kind, Counter: w.Counter}), nil

	default:
		return nil, &term.MalformedError{Err: term.ErrMalformed, Detail: fmt.Sprintf("wire: unknown term kind %q", w.Kind)}
	}
}
