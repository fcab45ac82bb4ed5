// Package json serializes traces and terms as JSON through the wire
// envelope - the human-inspectable encoding of the two this module ships.
package json

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/zoobzio/tlsfuzz/term"
	"github.com/zoobzio/tlsfuzz/trace"
	"github.com/zoobzio/tlsfuzz/wire"
)

// Codec implements wire.Codec for JSON.
type Codec struct{}

var _ wire.Codec = (*Codec)(nil)

// New returns a JSON wire.Codec.
func New() *Codec {
	return &Codec{}
}

// ContentType returns the MIME type for JSON.
func (*Codec) ContentType() string {
	return "application/json"
}

// MarshalTrace flattens t to its wire form and encodes it as JSON.
func (c *Codec) MarshalTrace(t *trace.Trace) ([]byte, error) {
	start := time.Now()
	w, err := wire.FromTrace(t)
	if err != nil {
		emitTraceMarshal(len(t.Steps), 0, time.Since(start), err)
		return nil, err
	}
	data, err := json.Marshal(w)
	if err != nil {
		err = &term.MalformedError{Err: term.ErrMalformed, Detail: fmt.Sprintf("json: encoding trace: %v", err)}
	}
	emitTraceMarshal(len(t.Steps), len(data), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// UnmarshalTrace decodes JSON into the wire form and resolves every function
// and type name against sig. Malformed JSON and unknown names yield
// term.ErrMalformed.
func (c *Codec) UnmarshalTrace(data []byte, sig *term.Signature) (*trace.Trace, error) {
	start := time.Now()
	var w wire.Trace
	if err := json.Unmarshal(data, &w); err != nil {
		err = &term.MalformedError{Err: term.ErrMalformed, Detail: fmt.Sprintf("json: decoding trace: %v", err)}
		emitTraceUnmarshal(0, time.Since(start), err)
		return nil, err
	}
	t, err := wire.ToTrace(w, sig)
	if err != nil {
		emitTraceUnmarshal(len(w.Steps), time.Since(start), err)
		return nil, err
	}
	emitTraceUnmarshal(len(t.Steps), time.Since(start), nil)
	return t, nil
}

// MarshalTerm flattens t to its wire form and encodes it as JSON.
func (c *Codec) MarshalTerm(t term.Term) ([]byte, error) {
	w, err := wire.FromTerm(t)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(w)
	if err != nil {
		return nil, &term.MalformedError{Err: term.ErrMalformed, Detail: fmt.Sprintf("json: encoding term: %v", err)}
	}
	return data, nil
}

// UnmarshalTerm decodes JSON into the wire form and resolves it against sig.
func (c *Codec) UnmarshalTerm(data []byte, sig *term.Signature) (term.Term, error) {
	var w wire.Term
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, &term.MalformedError{Err: term.ErrMalformed, Detail: fmt.Sprintf("json: decoding term: %v", err)}
	}
	return wire.ToTerm(w, sig)
}
